package repository

import (
	"context"
	"errors"
	"time"

	"rental/internal/domain/model"
	repo "rental/internal/repository"

	"gorm.io/gorm"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

func (r *ReservationGormRepository) FindByID(ctx context.Context, id int64) (model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Reservation{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// Creates the reservation and its lines in one statement
func (r *ReservationGormRepository) Create(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	if err := r.db.WithContext(ctx).Create(&res).Error; err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *ReservationGormRepository) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReservationGormRepository) UpdateDates(ctx context.Context, id int64, start, end time.Time, lines []model.ReservationLine) error {
	res := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"start_date": start,
			"end_date":   end,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	for _, l := range lines {
		err := r.db.WithContext(ctx).
			Model(&model.ReservationLine{}).
			Where("id = ? AND reservation_id = ?", l.ID, id).
			Updates(map[string]interface{}{
				"start_date": l.StartDate,
				"end_date":   l.EndDate,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
