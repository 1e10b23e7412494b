package repository

import (
	"context"
	"time"

	"rental/internal/domain/model"
)

type MovementFilter struct {
	ProductID     *int64
	ReservationID *int64
	InstanceID    *int64
	Type          *model.MovementType
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// Ledger rows are only ever appended. There is intentionally no Update or Delete.
type StockMovementRepository interface {
	Save(ctx context.Context, m model.StockMovement) (model.StockMovement, error)
	List(ctx context.Context, f MovementFilter) ([]*model.StockMovement, error)
}
