package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rental/internal/domain/model"
	repo "rental/internal/repository"
	"rental/internal/view"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Maximum shift accepted by ShiftDates, in days
const maxShiftDays = 365

type ReservationUsecase struct {
	tx    repo.TransactionManager
	idGen IDGenerator
	clock Clock
	log   *zap.Logger
}

func NewReservationUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock, log *zap.Logger) *ReservationUsecase {
	return &ReservationUsecase{tx: tx, idGen: idGen, clock: clock, log: log}
}

type ReserveLineInput struct {
	ProductID int64
	Quantity  int64
	//optional, default to the reservation period
	StartDate *time.Time
	EndDate   *time.Time
}

type ReserveInput struct {
	CustomerName string
	StartDate    time.Time
	EndDate      time.Time
	Lines        []ReserveLineInput
}

// Reserve books the lines, takes their quantities out of stock and writes one
// RESERVATION movement per line. Any line short of stock aborts everything.
func (u *ReservationUsecase) Reserve(ctx context.Context, actor model.Actor, in ReserveInput) (view.ReservationView, error) {
	if actor.ID <= 0 {
		return view.ReservationView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "customer_name required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.EndDate.Before(in.StartDate) {
		return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "invalid period")
	}
	if len(in.Lines) == 0 {
		return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "lines required")
	}

	lines := make([]model.ReservationLine, 0, len(in.Lines))
	for _, li := range in.Lines {
		if li.ProductID <= 0 {
			return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		if li.Quantity <= 0 {
			return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
		}
		l := model.ReservationLine{
			ProductID: li.ProductID,
			Quantity:  li.Quantity,
			StartDate: truncateDay(in.StartDate),
			EndDate:   truncateDay(in.EndDate),
		}
		if li.StartDate != nil {
			l.StartDate = truncateDay(*li.StartDate)
		}
		if li.EndDate != nil {
			l.EndDate = truncateDay(*li.EndDate)
		}
		if l.EndDate.Before(l.StartDate) {
			return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "invalid line period")
		}
		lines = append(lines, l)
	}

	var out view.ReservationView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//price snapshot and current stock per product
		products := make(map[int64]model.Product)
		total := decimal.Zero
		for i := range lines {
			p, ok := products[lines[i].ProductID]
			if !ok {
				var err error
				p, err = r.Products().FindByID(ctx, lines[i].ProductID)
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusBadRequest, "invalid product")
				}
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				products[p.ID] = p
			}
			lines[i].UnitPrice = p.UnitPrice
			total = total.Add(view.LineAmount(lines[i]))
		}

		start, end := periodOf(lines)
		res, err := r.Reservations().Create(ctx, model.Reservation{
			Reference:    u.idGen.NewID(),
			CustomerName: customer,
			Status:       model.ReservationStatusConfirmed,
			StartDate:    start,
			EndDate:      end,
			TotalAmount:  total,
			Lines:        lines,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		rec := recorderFor(r, u.log)
		reason := "reservation " + res.Reference
		for _, l := range res.Lines {
			ok, err := r.Inventory().DecreaseAvailableIfEnough(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "out of stock")
			}

			p := products[l.ProductID]
			before := p.AvailableQuantity
			after := before - l.Quantity
			if err := rec.RecordMovement(ctx, p, model.MovementReservation, l.Quantity, before, after, reason, actor, &res.ID); err != nil {
				u.log.Error("record reservation movement", zap.Int64("reservation_id", res.ID), zap.Error(err))
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			p.AvailableQuantity = after
			products[l.ProductID] = p
		}

		out = view.ToReservationView(res)
		return nil
	})
	if err != nil {
		return view.ReservationView{}, err
	}

	u.log.Info("reservation created",
		zap.Int64("reservation_id", out.ID),
		zap.String("reference", out.Reference),
		zap.Int64("actor_id", actor.ID))
	return out, nil
}

// Return puts every line back into stock and closes the reservation.
func (u *ReservationUsecase) Return(ctx context.Context, actor model.Actor, reservationID int64) (view.ReservationView, error) {
	return u.release(ctx, actor, reservationID, model.ReservationStatusReturned, model.MovementReturn)
}

// Cancel does the same as Return with a CANCELLATION trail.
func (u *ReservationUsecase) Cancel(ctx context.Context, actor model.Actor, reservationID int64) (view.ReservationView, error) {
	return u.release(ctx, actor, reservationID, model.ReservationStatusCancelled, model.MovementCancellation)
}

func (u *ReservationUsecase) release(ctx context.Context, actor model.Actor, reservationID int64, status model.ReservationStatus, mt model.MovementType) (view.ReservationView, error) {
	if actor.ID <= 0 {
		return view.ReservationView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if reservationID <= 0 {
		return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out view.ReservationView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		res, err := r.Reservations().FindByID(ctx, reservationID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if res.Status != model.ReservationStatusConfirmed {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("reservation is %s", strings.ToLower(string(res.Status))))
		}

		rec := recorderFor(r, u.log)
		reason := strings.ToLower(string(mt)) + " " + res.Reference
		products := make(map[int64]model.Product)
		for _, l := range res.Lines {
			p, ok := products[l.ProductID]
			if !ok {
				p, err = r.Products().FindByIDUnscoped(ctx, l.ProductID)
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusConflict, fmt.Sprintf("product %d no longer exists", l.ProductID))
				}
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}

			if err := r.Inventory().IncreaseAvailable(ctx, l.ProductID, l.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			before := p.AvailableQuantity
			after := before + l.Quantity
			if err := rec.RecordMovement(ctx, p, mt, l.Quantity, before, after, reason, actor, &res.ID); err != nil {
				u.log.Error("record release movement", zap.Int64("reservation_id", res.ID), zap.Error(err))
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			p.AvailableQuantity = after
			products[l.ProductID] = p
		}

		if err := r.Reservations().UpdateStatus(ctx, res.ID, status); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := audit(ctx, r, actor, model.AuditActionUpdateReservationStatus, model.AuditResourceReservation, res.ID,
			map[string]string{"status": string(res.Status)}, map[string]string{"status": string(status)}, u.clock.Now()); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		res.Status = status
		out = view.ToReservationView(res)
		return nil
	})
	if err != nil {
		return view.ReservationView{}, err
	}
	return out, nil
}

// ShiftDates moves every line of a confirmed reservation by days and
// recomputes the aggregate period. Stock is untouched.
func (u *ReservationUsecase) ShiftDates(ctx context.Context, actor model.Actor, reservationID int64, days int) (view.ReservationView, error) {
	if actor.ID <= 0 {
		return view.ReservationView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if reservationID <= 0 {
		return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if days == 0 || days > maxShiftDays || days < -maxShiftDays {
		return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "invalid days")
	}

	var out view.ReservationView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		res, err := r.Reservations().FindByID(ctx, reservationID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if res.Status != model.ReservationStatusConfirmed {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("reservation is %s", strings.ToLower(string(res.Status))))
		}
		if len(res.Lines) == 0 {
			return NewHTTPError(http.StatusConflict, "reservation has no lines")
		}

		beforeStart, beforeEnd := res.StartDate, res.EndDate
		res.Lines = ShiftLines(res.Lines, days)
		res.StartDate, res.EndDate = periodOf(res.Lines)

		if err := r.Reservations().UpdateDates(ctx, res.ID, res.StartDate, res.EndDate, res.Lines); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := audit(ctx, r, actor, model.AuditActionShiftReservation, model.AuditResourceReservation, res.ID,
			map[string]time.Time{"start_date": beforeStart, "end_date": beforeEnd},
			map[string]interface{}{"start_date": res.StartDate, "end_date": res.EndDate, "days": days},
			u.clock.Now()); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = view.ToReservationView(res)
		return nil
	})
	if err != nil {
		return view.ReservationView{}, err
	}
	return out, nil
}

// Get returns the reservation with its ledger trail.
func (u *ReservationUsecase) Get(ctx context.Context, reservationID int64) (view.ReservationView, error) {
	if reservationID <= 0 {
		return view.ReservationView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out view.ReservationView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		res, err := r.Reservations().FindByID(ctx, reservationID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		movements, err := r.Movements().List(ctx, repo.MovementFilter{ReservationID: &res.ID, Limit: 200})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = view.ToReservationView(res)
		out.Movements = view.ToMovementViews(movements)
		return nil
	})
	if err != nil {
		return view.ReservationView{}, err
	}
	return out, nil
}

// ShiftLines returns copies of lines moved by days calendar days.
func ShiftLines(lines []model.ReservationLine, days int) []model.ReservationLine {
	out := make([]model.ReservationLine, len(lines))
	for i, l := range lines {
		l.StartDate = l.StartDate.AddDate(0, 0, days)
		l.EndDate = l.EndDate.AddDate(0, 0, days)
		out[i] = l
	}
	return out
}

// earliest start and latest end over lines
func periodOf(lines []model.ReservationLine) (time.Time, time.Time) {
	var start, end time.Time
	for i, l := range lines {
		if i == 0 || l.StartDate.Before(start) {
			start = l.StartDate
		}
		if i == 0 || l.EndDate.After(end) {
			end = l.EndDate
		}
	}
	return start, end
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
