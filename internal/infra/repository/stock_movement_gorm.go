package repository

import (
	"context"

	"rental/internal/domain/model"
	repo "rental/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockMovementGormRepository struct {
	db *gorm.DB
}

func NewStockMovementGormRepository(db *gorm.DB) *StockMovementGormRepository {
	return &StockMovementGormRepository{db: db}
}

// Appends one ledger row. Associations are never written through a movement.
func (r *StockMovementGormRepository) Save(ctx context.Context, m model.StockMovement) (model.StockMovement, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return model.StockMovement{}, err
	}
	return m, nil
}

func (r *StockMovementGormRepository) List(ctx context.Context, f repo.MovementFilter) ([]*model.StockMovement, error) {
	q := r.db.WithContext(ctx).
		Model(&model.StockMovement{}).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Instance")

	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if f.ReservationID != nil {
		q = q.Where("reservation_id = ?", *f.ReservationID)
	}
	if f.InstanceID != nil {
		q = q.Where("instance_id = ?", *f.InstanceID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	//newest first
	q = q.Order("id DESC")

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var movements []*model.StockMovement
	if err := q.Limit(limit).Offset(offset).Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
