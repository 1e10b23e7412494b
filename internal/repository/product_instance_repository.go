package repository

import (
	"context"
	"time"

	"rental/internal/domain/model"
)

type ProductInstanceRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductInstance, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.ProductInstance, error)
	FindBySerial(ctx context.Context, serial string) (model.ProductInstance, error)
	Create(ctx context.Context, in model.ProductInstance) (model.ProductInstance, error)

	CountByStatus(ctx context.Context, productID int64, status model.InstanceStatus) (int64, error)

	//maintainedAt is written to last_maintenance_at when not nil
	UpdateStatus(ctx context.Context, id int64, status model.InstanceStatus, maintainedAt *time.Time) error
}
