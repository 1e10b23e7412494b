package repository

import (
	"context"
	"errors"
	"time"

	"rental/internal/domain/model"
	repo "rental/internal/repository"

	"gorm.io/gorm"
)

type ProductInstanceGormRepository struct {
	db *gorm.DB
}

func NewProductInstanceGormRepository(db *gorm.DB) *ProductInstanceGormRepository {
	return &ProductInstanceGormRepository{db: db}
}

func (r *ProductInstanceGormRepository) FindByID(ctx context.Context, id int64) (model.ProductInstance, error) {
	var in model.ProductInstance
	err := r.db.WithContext(ctx).First(&in, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductInstance{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductInstance{}, err
	}
	return in, nil
}

func (r *ProductInstanceGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.ProductInstance, error) {
	var out []model.ProductInstance
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("serial_number asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductInstanceGormRepository) FindBySerial(ctx context.Context, serial string) (model.ProductInstance, error) {
	var in model.ProductInstance
	err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductInstance{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductInstance{}, err
	}
	return in, nil
}

func (r *ProductInstanceGormRepository) CountByStatus(ctx context.Context, productID int64, status model.InstanceStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductInstance{}).
		Where("product_id = ? AND status = ?", productID, status).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ProductInstanceGormRepository) Create(ctx context.Context, in model.ProductInstance) (model.ProductInstance, error) {
	if err := r.db.WithContext(ctx).Create(&in).Error; err != nil {
		return model.ProductInstance{}, err
	}
	return in, nil
}

func (r *ProductInstanceGormRepository) UpdateStatus(ctx context.Context, id int64, status model.InstanceStatus, maintainedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if maintainedAt != nil {
		updates["last_maintenance_at"] = *maintainedAt
	}

	res := r.db.WithContext(ctx).
		Model(&model.ProductInstance{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
