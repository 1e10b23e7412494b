package model

import "time"

type MovementType string

const (
	MovementReservation    MovementType = "RESERVATION"
	MovementReturn         MovementType = "RETURN"
	MovementCancellation   MovementType = "CANCELLATION"
	MovementAdjustment     MovementType = "ADJUSTMENT"
	MovementMaintenanceIn  MovementType = "MAINTENANCE_IN"
	MovementMaintenanceOut MovementType = "MAINTENANCE_OUT"
	MovementRetirement     MovementType = "RETIREMENT"
)

// Append-only stock ledger row. Written once, never updated.
type StockMovement struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64        `gorm:"not null;index" json:"product_id"`
	Type      MovementType `gorm:"type:varchar(30);not null;index" json:"type"`

	Quantity       int64 `gorm:"not null" json:"quantity"`
	QuantityBefore int64 `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int64 `gorm:"not null" json:"quantity_after"`

	Reason    string `gorm:"type:varchar(255)" json:"reason"`
	ActorID   int64  `gorm:"not null;index" json:"actor_id"`
	ActorName string `gorm:"type:varchar(255)" json:"actor_name"`

	//Reservation period copied at write time for reporting
	ReservationID    *int64     `gorm:"index" json:"reservation_id,omitempty"`
	ReservationStart *time.Time `gorm:"type:date" json:"reservation_start,omitempty"`
	ReservationEnd   *time.Time `gorm:"type:date" json:"reservation_end,omitempty"`

	InstanceID   *int64 `gorm:"index" json:"instance_id,omitempty"`
	InstanceCode string `gorm:"type:varchar(100)" json:"instance_code,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	Product  Product          `gorm:"foreignKey:ProductID" json:"-"`
	Instance *ProductInstance `gorm:"foreignKey:InstanceID" json:"-"`
}
