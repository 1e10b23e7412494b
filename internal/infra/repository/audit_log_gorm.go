package repository

import (
	"context"

	"rental/internal/domain/model"
	repo "rental/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditPage = 50
	maxAuditPage     = 200
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.AuditLog{}).Scopes(auditFilter(f))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > maxAuditPage {
		limit = defaultAuditPage
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entries []model.AuditLog
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func auditFilter(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ActorUserID != nil {
			db = db.Where("actor_user_id = ?", *f.ActorUserID)
		}
		if f.Action != nil {
			db = db.Where("action = ?", *f.Action)
		}
		if f.ResourceType != nil {
			db = db.Where("resource_type = ?", *f.ResourceType)
		}
		if f.ResourceID != nil {
			db = db.Where("resource_id = ?", *f.ResourceID)
		}
		if f.Since != nil {
			db = db.Where("created_at >= ?", *f.Since)
		}
		if f.Until != nil {
			db = db.Where("created_at < ?", *f.Until)
		}
		return db
	}
}
