package domain

import "time"

// Product is the domain entity for a catalog product.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
}
