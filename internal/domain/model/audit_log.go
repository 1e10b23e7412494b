package model

import "time"

type AuditAction string

const (
	AuditActionCreateProduct           AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateStock             AuditAction = "UPDATE_STOCK"
	AuditActionUpdateReservationStatus AuditAction = "UPDATE_RESERVATION_STATUS"
	AuditActionShiftReservation        AuditAction = "SHIFT_RESERVATION"
	AuditActionUpdateInstanceStatus    AuditAction = "UPDATE_INSTANCE_STATUS"
)

type AuditResourceType string

const (
	AuditResourceProduct     AuditResourceType = "product"
	AuditResourceReservation AuditResourceType = "reservation"
	AuditResourceInstance    AuditResourceType = "instance"
)

// Who did what to which resource, with before/after snapshots as JSON.
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
