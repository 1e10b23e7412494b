// Package ledger appends stock movements: one immutable row per change of a
// product's available quantity or of a physical instance's status.
package ledger

import (
	"context"
	"errors"
	"time"

	"rental/internal/domain/model"
	repo "rental/internal/repository"

	"go.uber.org/zap"
)

var ErrProductNotPersisted = errors.New("ledger: product is not persisted")

// MovementStore is the append side of the movement repository.
type MovementStore interface {
	Save(ctx context.Context, m model.StockMovement) (model.StockMovement, error)
}

// ReservationFinder is used only to copy reservation dates onto movements.
type ReservationFinder interface {
	FindByID(ctx context.Context, id int64) (model.Reservation, error)
}

type Recorder struct {
	store        MovementStore
	reservations ReservationFinder
	log          *zap.Logger
	now          func() time.Time
}

func NewRecorder(store MovementStore, reservations ReservationFinder, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		store:        store,
		reservations: reservations,
		log:          log,
		now:          time.Now,
	}
}

// RecordMovement appends a quantity movement. quantityBefore and quantityAfter
// are the caller's snapshots and are stored as given, as is quantity.
// RESERVATION movements with a reservation id also carry the reservation
// period when it can be read; a failed read only costs the dates.
func (r *Recorder) RecordMovement(
	ctx context.Context,
	product model.Product,
	typ model.MovementType,
	quantity, quantityBefore, quantityAfter int64,
	reason string,
	actor model.Actor,
	reservationID *int64,
) error {
	if product.ID == 0 {
		return ErrProductNotPersisted
	}

	m := model.StockMovement{
		ProductID:      product.ID,
		Type:           typ,
		Quantity:       quantity,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		Reason:         reason,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		ReservationID:  reservationID,
		CreatedAt:      r.now(),
	}

	if typ == model.MovementReservation && reservationID != nil {
		if p, ok := r.reservationPeriod(ctx, *reservationID); ok {
			m.ReservationStart = &p.start
			m.ReservationEnd = &p.end
		}
	}

	_, err := r.store.Save(ctx, m)
	return err
}

// RecordInstanceMovement appends a movement for one physical instance.
// The before value is the product's available quantity at call time and
// after = before + quantity, so quantity must carry its sign (-1 when the
// unit leaves stock). The stored quantity is the magnitude.
func (r *Recorder) RecordInstanceMovement(
	ctx context.Context,
	product model.Product,
	typ model.MovementType,
	quantity int64,
	reason string,
	actor model.Actor,
	instance model.ProductInstance,
) error {
	if product.ID == 0 {
		return ErrProductNotPersisted
	}

	before := product.AvailableQuantity
	instanceID := instance.ID

	m := model.StockMovement{
		ProductID:      product.ID,
		Type:           typ,
		Quantity:       abs(quantity),
		QuantityBefore: before,
		QuantityAfter:  before + quantity,
		Reason:         reason,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		InstanceID:     &instanceID,
		InstanceCode:   instance.SerialNumber,
		CreatedAt:      r.now(),
	}

	_, err := r.store.Save(ctx, m)
	return err
}

type period struct {
	start time.Time
	end   time.Time
}

// reservationPeriod is best effort: any lookup failure yields ok=false
// and one warning.
func (r *Recorder) reservationPeriod(ctx context.Context, id int64) (period, bool) {
	res, err := r.reservations.FindByID(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		r.log.Warn("reservation not found, movement saved without reservation dates",
			zap.Int64("reservation_id", id))
		return period{}, false
	case err != nil:
		r.log.Warn("reservation lookup failed, movement saved without reservation dates",
			zap.Int64("reservation_id", id),
			zap.Error(err))
		return period{}, false
	}
	return period{start: res.StartDate, end: res.EndDate}, true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
