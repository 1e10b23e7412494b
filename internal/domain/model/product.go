package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rentable catalog item. Bulk products are tracked by count only,
// serialized ones additionally through ProductInstance rows.
type Product struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code     string `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Category string `gorm:"type:varchar(100);not null;index" json:"category"`

	//Rental price per day
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`

	InitialQuantity   int64 `gorm:"not null;default:0" json:"initial_quantity"`
	AvailableQuantity int64 `gorm:"not null;default:0" json:"available_quantity"`

	//Below this value the product is flagged as critical
	CriticalThreshold int64 `gorm:"not null;default:0" json:"critical_threshold"`

	InMaintenance bool `gorm:"not null;default:false" json:"in_maintenance"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
