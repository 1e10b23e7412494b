package repository

import (
	"context"
	"errors"

	"rental/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// Catalog listing query
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByCode(ctx context.Context, code string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)

	//Also finds soft-deleted products, for releasing stock reserved before deletion
	FindByIDUnscoped(ctx context.Context, id int64) (model.Product, error)

	SetInMaintenance(ctx context.Context, id int64, inMaintenance bool) error

	//Products whose available quantity is below their critical threshold
	ListCritical(ctx context.Context) ([]model.Product, error)
}

// Counter updates on products.available_quantity.
type InventoryRepository interface {
	//Decrements only when enough is available. false means nothing changed.
	DecreaseAvailableIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	IncreaseAvailable(ctx context.Context, productID int64, qty int64) error

	SetAvailable(ctx context.Context, productID int64, available int64) error
}
