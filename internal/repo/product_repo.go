package repo

import (
	"context"

	dom "github.com/donaldwalker7495-max/techcheck-api/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo interface {
	Create(ctx context.Context, p dom.Product) (dom.Product, error)
	GetByID(ctx context.Context, id int64) (dom.Product, error)
	List(ctx context.Context) ([]dom.Product, error)
	Update(ctx context.Context, id int64, patch dom.Product) (dom.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, q string, limit, offset int) ([]dom.Product, error)
	SearchCount(ctx context.Context, q string) (int64, error)
}

type PGProductRepo struct {
	db *pgxpool.Pool
}

func NewPGProductRepo(db *pgxpool.Pool) *PGProductRepo {
	return &PGProductRepo{db: db}
}

func (r *PGProductRepo) Create(ctx context.Context, p dom.Product) (dom.Product, error) {
	query := `
		INSERT INTO products (name, description, price)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, price, created_at`
	var out dom.Product
	err := r.db.QueryRow(ctx, query, p.Name, p.Description, p.Price).Scan(
		&out.ID, &out.Name, &out.Description, &out.Price, &out.CreatedAt,
	)
	return out, err
}

func (r *PGProductRepo) GetByID(ctx context.Context, id int64) (dom.Product, error) {
	query := `
		SELECT id, name, description, price, created_at
		FROM products WHERE id = $1`
	var p dom.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt,
	)
	return p, err
}

func (r *PGProductRepo) List(ctx context.Context) ([]dom.Product, error) {
	query := `
		SELECT id, name, description, price, created_at
		FROM products ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Product
	for rows.Next() {
		var p dom.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGProductRepo) Update(ctx context.Context, id int64, patch dom.Product) (dom.Product, error) {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4
		WHERE id = $1
		RETURNING id, name, description, price, created_at`
	var p dom.Product
	err := r.db.QueryRow(ctx, query, id, patch.Name, patch.Description, patch.Price).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt,
	)
	return p, err
}

// Delete removes the product; returns false if no row matched.
func (r *PGProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGProductRepo) Search(ctx context.Context, q string, limit, offset int) ([]dom.Product, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT id, name, description, price, created_at
		FROM products WHERE name ILIKE $1
		ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Product
	for rows.Next() {
		var p dom.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGProductRepo) SearchCount(ctx context.Context, q string) (int64, error) {
	pattern := "%" + q + "%"
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE name ILIKE $1`, pattern,
	).Scan(&n)
	return n, err
}
