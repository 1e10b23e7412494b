package repository

import (
	"context"
	"time"

	"rental/internal/domain/model"
)

// Narrows the admin audit trail. Nil fields are not applied.
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	Since        *time.Time
	Until        *time.Time
	Limit        int
	Offset       int
}

// Written by every workflow that changes stock, reservations or instances,
// always inside the same transaction as the change it describes.
type AuditLogRepository interface {
	Create(ctx context.Context, entry model.AuditLog) error

	//List returns one page newest first together with the unpaged total
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, int64, error)
}
