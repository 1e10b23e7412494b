package view

import (
	"encoding/json"
	"time"

	"rental/internal/domain/model"
)

// Before and After are embedded as JSON documents rather than strings.
type AuditLogView struct {
	ID           int64                   `json:"id"`
	ActorUserID  int64                   `json:"actor_user_id"`
	Action       model.AuditAction       `json:"action"`
	ResourceType model.AuditResourceType `json:"resource_type"`
	ResourceID   int64                   `json:"resource_id"`
	Before       json.RawMessage         `json:"before"`
	After        json.RawMessage         `json:"after"`
	CreatedAt    time.Time               `json:"created_at"`
}

func ToAuditLogView(l model.AuditLog) AuditLogView {
	return AuditLogView{
		ID:           l.ID,
		ActorUserID:  l.ActorUserID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		Before:       rawJSON(l.BeforeJSON),
		After:        rawJSON(l.AfterJSON),
		CreatedAt:    l.CreatedAt,
	}
}

func ToAuditLogViews(entries []model.AuditLog) []AuditLogView {
	out := make([]AuditLogView, 0, len(entries))
	for _, l := range entries {
		out = append(out, ToAuditLogView(l))
	}
	return out
}

// unparsable or empty snapshots render as null
func rawJSON(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return nil
	}
	return json.RawMessage(s)
}
