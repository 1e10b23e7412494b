package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusReturned  ReservationStatus = "RETURNED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

type Reservation struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference    string            `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	CustomerName string            `gorm:"type:varchar(255);not null" json:"customer_name"`
	Status       ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//Aggregate period over all lines
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	Lines []ReservationLine `gorm:"foreignKey:ReservationID" json:"lines"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type ReservationLine struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID int64           `gorm:"not null;index" json:"reservation_id"`
	ProductID     int64           `gorm:"not null;index" json:"product_id"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	StartDate     time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time       `gorm:"type:date;not null" json:"end_date"`
}

// Inclusive number of rental days for a line.
func (l ReservationLine) Days() int64 {
	return int64(math.Round(l.EndDate.Sub(l.StartDate).Hours()/24)) + 1
}
