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

	"go.uber.org/zap"
)

// Lifecycle of serialized units. Every status change writes an instance movement.
type InstanceUsecase struct {
	tx    repo.TransactionManager
	clock Clock
	log   *zap.Logger
}

func NewInstanceUsecase(tx repo.TransactionManager, clock Clock, log *zap.Logger) *InstanceUsecase {
	return &InstanceUsecase{tx: tx, clock: clock, log: log}
}

type RegisterInstanceInput struct {
	ProductID    int64
	SerialNumber string
	Condition    string
	AcquiredAt   *time.Time
}

// Register adds a unit to the catalog. Counters are not touched.
func (u *InstanceUsecase) Register(ctx context.Context, actor model.Actor, in RegisterInstanceInput) (model.ProductInstance, error) {
	if actor.ID <= 0 {
		return model.ProductInstance{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.ProductInstance{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	serial := strings.TrimSpace(in.SerialNumber)
	if serial == "" || len(serial) > 100 {
		return model.ProductInstance{}, NewHTTPError(http.StatusBadRequest, "invalid serial_number")
	}
	cond := model.InstanceCondition(strings.ToUpper(strings.TrimSpace(in.Condition)))
	if cond == "" {
		cond = model.InstanceConditionNew
	}
	switch cond {
	case model.InstanceConditionNew, model.InstanceConditionGood, model.InstanceConditionWorn, model.InstanceConditionDamaged:
	default:
		return model.ProductInstance{}, NewHTTPError(http.StatusBadRequest, "invalid condition")
	}

	var out model.ProductInstance
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.Instances().FindBySerial(ctx, serial); err == nil {
			return NewHTTPError(http.StatusConflict, "serial_number already exists")
		} else if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created, err := r.Instances().Create(ctx, model.ProductInstance{
			SerialNumber: serial,
			ProductID:    in.ProductID,
			Status:       model.InstanceStatusAvailable,
			Condition:    cond,
			AcquiredAt:   in.AcquiredAt,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = created
		return nil
	})
	if err != nil {
		return model.ProductInstance{}, err
	}
	return out, nil
}

func (u *InstanceUsecase) ListByProduct(ctx context.Context, productID int64) ([]model.ProductInstance, error) {
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	var out []model.ProductInstance
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, err := r.Instances().ListByProduct(ctx, productID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = list
		return nil
	})
	return out, err
}

// SendToMaintenance takes an available unit out of stock.
func (u *InstanceUsecase) SendToMaintenance(ctx context.Context, actor model.Actor, instanceID int64, reason string) (model.ProductInstance, error) {
	return u.transition(ctx, actor, instanceID, reason, transition{
		from:     []model.InstanceStatus{model.InstanceStatusAvailable},
		to:       model.InstanceStatusInMaintenance,
		movement: model.MovementMaintenanceIn,
		delta:    func(model.InstanceStatus) int64 { return -1 },
	})
}

// CompleteMaintenance puts a unit back into stock.
func (u *InstanceUsecase) CompleteMaintenance(ctx context.Context, actor model.Actor, instanceID int64, reason string) (model.ProductInstance, error) {
	return u.transition(ctx, actor, instanceID, reason, transition{
		from:       []model.InstanceStatus{model.InstanceStatusInMaintenance},
		to:         model.InstanceStatusAvailable,
		movement:   model.MovementMaintenanceOut,
		delta:      func(model.InstanceStatus) int64 { return 1 },
		maintained: true,
	})
}

// Retire removes a unit for good. Only an available unit still counts in
// stock; a unit coming from maintenance is already out.
func (u *InstanceUsecase) Retire(ctx context.Context, actor model.Actor, instanceID int64, reason string) (model.ProductInstance, error) {
	return u.transition(ctx, actor, instanceID, reason, transition{
		from:     []model.InstanceStatus{model.InstanceStatusAvailable, model.InstanceStatusInMaintenance},
		to:       model.InstanceStatusRetired,
		movement: model.MovementRetirement,
		delta: func(from model.InstanceStatus) int64 {
			if from == model.InstanceStatusAvailable {
				return -1
			}
			return 0
		},
	})
}

type transition struct {
	from       []model.InstanceStatus
	to         model.InstanceStatus
	movement   model.MovementType
	delta      func(from model.InstanceStatus) int64
	maintained bool
}

func (t transition) allows(s model.InstanceStatus) bool {
	for _, f := range t.from {
		if f == s {
			return true
		}
	}
	return false
}

func (u *InstanceUsecase) transition(ctx context.Context, actor model.Actor, instanceID int64, reason string, t transition) (model.ProductInstance, error) {
	if actor.ID <= 0 {
		return model.ProductInstance{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if instanceID <= 0 {
		return model.ProductInstance{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.ProductInstance
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		inst, err := r.Instances().FindByID(ctx, instanceID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !t.allows(inst.Status) {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("instance is %s", strings.ToLower(string(inst.Status))))
		}

		//snapshot before the counter moves, the recorder reads before from it
		p, err := r.Products().FindByID(ctx, inst.ProductID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		delta := t.delta(inst.Status)
		switch {
		case delta < 0:
			ok, err := r.Inventory().DecreaseAvailableIfEnough(ctx, p.ID, -delta)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "no available stock")
			}
		case delta > 0:
			if err := r.Inventory().IncreaseAvailable(ctx, p.ID, delta); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		now := u.clock.Now()
		var maintainedAt *time.Time
		if t.maintained {
			maintainedAt = &now
		}
		if err := r.Instances().UpdateStatus(ctx, inst.ID, t.to, maintainedAt); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//product flag follows whether any of its units is still in maintenance
		inMaintenance, err := r.Instances().CountByStatus(ctx, p.ID, model.InstanceStatusInMaintenance)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if (inMaintenance > 0) != p.InMaintenance {
			if err := r.Products().SetInMaintenance(ctx, p.ID, inMaintenance > 0); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := recorderFor(r, u.log).RecordInstanceMovement(ctx, p, t.movement, delta, strings.TrimSpace(reason), actor, inst); err != nil {
			u.log.Error("record instance movement", zap.Int64("instance_id", inst.ID), zap.Error(err))
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := audit(ctx, r, actor, model.AuditActionUpdateInstanceStatus, model.AuditResourceInstance, inst.ID,
			map[string]string{"status": string(inst.Status)}, map[string]string{"status": string(t.to)}, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		inst.Status = t.to
		if maintainedAt != nil {
			inst.LastMaintenanceAt = maintainedAt
		}
		out = inst
		return nil
	})
	if err != nil {
		return model.ProductInstance{}, err
	}
	return out, nil
}
