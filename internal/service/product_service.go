package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/donaldwalker7495-max/techcheck-api/internal/cache"
	dom "github.com/donaldwalker7495-max/techcheck-api/internal/domain"
	"github.com/donaldwalker7495-max/techcheck-api/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found")

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

type ProductService struct {
	repo  repo.ProductRepo
	cache *cache.ProductCache
	sf    singleflight.Group
}

// NewProductService creates a ProductService. If c is nil, caching is disabled.
func NewProductService(r repo.ProductRepo, c *cache.ProductCache) *ProductService {
	return &ProductService{repo: r, cache: c}
}

func (s *ProductService) Create(ctx context.Context, name, desc string, price float64) (dom.Product, error) {
	name = strings.TrimSpace(name)
	desc = strings.TrimSpace(desc)

	p, err := s.repo.Create(ctx, dom.Product{Name: name, Description: desc, Price: price})
	if err != nil {
		return dom.Product{}, err
	}
	s.invalidateCache(ctx)
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]dom.Product, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("list", func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Product), nil
	}
	return s.repo.List(ctx)
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (dom.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Product{}, ErrNotFound
		}
		return dom.Product{}, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, name, desc *string, price *float64) (dom.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Product{}, ErrNotFound
		}
		return dom.Product{}, err
	}
	patch := existing
	if name != nil {
		patch.Name = strings.TrimSpace(*name)
	}
	if desc != nil {
		patch.Description = strings.TrimSpace(*desc)
	}
	if price != nil {
		patch.Price = *price
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Product{}, ErrNotFound
		}
		return dom.Product{}, err
	}
	s.invalidateCache(ctx)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

// Search returns one page of case-insensitive substring matches on name plus
// the total match count. Page and limit are clamped: page >= 1, 1 <= limit <= 100.
func (s *ProductService) Search(ctx context.Context, q string, page, limit int) ([]dom.Product, int64, error) {
	q = strings.TrimSpace(q)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := (page - 1) * limit

	total, err := s.repo.SearchCount(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		key := "search:" + strings.ToLower(q) + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, q, page, limit); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Search(ctx, q, limit, offset)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, q, page, limit, list)
			return list, nil
		})
		if err != nil {
			return nil, 0, err
		}
		return v.([]dom.Product), total, nil
	}

	list, err := s.repo.Search(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
