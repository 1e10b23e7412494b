package usecase

import (
	"context"
	"encoding/json"
	"time"

	"rental/internal/domain/model"
	"rental/internal/ledger"
	repo "rental/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// recorder bound to the repositories of the running transaction
func recorderFor(r repo.TxRepos, log *zap.Logger) *ledger.Recorder {
	return ledger.NewRecorder(r.Movements(), r.Reservations(), log)
}

// audit stores one audit row with before/after marshalled as JSON
func audit(ctx context.Context, r repo.TxRepos, actor model.Actor, action model.AuditAction, rt model.AuditResourceType, id int64, before, after interface{}, now time.Time) error {
	b, err := json.Marshal(before)
	if err != nil {
		return err
	}
	a, err := json.Marshal(after)
	if err != nil {
		return err
	}
	return r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actor.ID,
		Action:       action,
		ResourceType: rt,
		ResourceID:   id,
		BeforeJSON:   string(b),
		AfterJSON:    string(a),
		CreatedAt:    now,
	})
}
