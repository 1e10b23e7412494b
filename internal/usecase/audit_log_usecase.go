package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"rental/internal/domain/model"
	repo "rental/internal/repository"
	"rental/internal/view"

	"go.uber.org/zap"
)

// Read side of the audit trail written by the stock workflows.
type AuditLogUsecase struct {
	logs repo.AuditLogRepository
	log  *zap.Logger
}

func NewAuditLogUsecase(logs repo.AuditLogRepository, log *zap.Logger) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs, log: log}
}

type ListAuditLogsInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	Since        *time.Time
	Until        *time.Time
	Limit        int
	Offset       int
}

type AuditLogListOutput struct {
	Items  []view.AuditLogView `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

func (u *AuditLogUsecase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) (AuditLogListOutput, error) {
	if in.Limit < 0 || in.Limit > 200 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Limit == 0 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	if in.Since != nil && in.Until != nil && !in.Since.Before(*in.Until) {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "since must be before until")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		Since:       in.Since,
		Until:       in.Until,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if a := strings.ToUpper(strings.TrimSpace(in.Action)); a != "" {
		action, ok := parseAuditAction(a)
		if !ok {
			return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		f.Action = &action
	}
	if rt := strings.ToLower(strings.TrimSpace(in.ResourceType)); rt != "" {
		resource, ok := parseAuditResource(rt)
		if !ok {
			return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
		}
		f.ResourceType = &resource
	}
	if f.ResourceID != nil && f.ResourceType == nil {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "resource_id requires resource_type")
	}

	entries, total, err := u.logs.List(ctx, f)
	if err != nil {
		u.log.Error("list audit logs", zap.Error(err))
		return AuditLogListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AuditLogListOutput{
		Items:  view.ToAuditLogViews(entries),
		Total:  total,
		Limit:  in.Limit,
		Offset: in.Offset,
	}, nil
}

func parseAuditAction(s string) (model.AuditAction, bool) {
	switch a := model.AuditAction(s); a {
	case model.AuditActionCreateProduct, model.AuditActionUpdateStock,
		model.AuditActionUpdateReservationStatus, model.AuditActionShiftReservation,
		model.AuditActionUpdateInstanceStatus:
		return a, true
	}
	return "", false
}

func parseAuditResource(s string) (model.AuditResourceType, bool) {
	switch rt := model.AuditResourceType(s); rt {
	case model.AuditResourceProduct, model.AuditResourceReservation, model.AuditResourceInstance:
		return rt, true
	}
	return "", false
}
