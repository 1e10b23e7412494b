package repository

import (
	"context"
	"time"

	"rental/internal/domain/model"
)

type ReservationRepository interface {
	//FindByID loads the reservation with its lines
	FindByID(ctx context.Context, id int64) (model.Reservation, error)

	Create(ctx context.Context, r model.Reservation) (model.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error

	//Rewrites line periods and the aggregate period
	UpdateDates(ctx context.Context, id int64, start, end time.Time, lines []model.ReservationLine) error
}
