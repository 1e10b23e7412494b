package model

import "time"

type InstanceStatus string

const (
	InstanceStatusAvailable     InstanceStatus = "AVAILABLE"
	InstanceStatusReserved      InstanceStatus = "RESERVED"
	InstanceStatusInMaintenance InstanceStatus = "IN_MAINTENANCE"
	InstanceStatusRetired       InstanceStatus = "RETIRED"
)

type InstanceCondition string

const (
	InstanceConditionNew     InstanceCondition = "NEW"
	InstanceConditionGood    InstanceCondition = "GOOD"
	InstanceConditionWorn    InstanceCondition = "WORN"
	InstanceConditionDamaged InstanceCondition = "DAMAGED"
)

// A physical, serialized unit of a product.
type ProductInstance struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	SerialNumber string            `gorm:"type:varchar(100);not null;uniqueIndex" json:"serial_number"`
	ProductID    int64             `gorm:"not null;index" json:"product_id"`
	Status       InstanceStatus    `gorm:"type:varchar(30);not null;index" json:"status"`
	Condition    InstanceCondition `gorm:"type:varchar(30);not null" json:"condition"`

	AcquiredAt        *time.Time `json:"acquired_at,omitempty"`
	LastMaintenanceAt *time.Time `json:"last_maintenance_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
