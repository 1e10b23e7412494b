// Package view projects persisted entities into the JSON shapes served over HTTP.
// Every function here is pure.
package view

import (
	"time"

	"rental/internal/domain/model"

	"github.com/shopspring/decimal"
)

type ProductView struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	InitialQuantity   int64           `json:"initial_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	CriticalThreshold int64           `json:"critical_threshold"`
	InMaintenance     bool            `json:"in_maintenance"`

	InStock            bool     `json:"in_stock"`
	CriticalStockAlert bool     `json:"critical_stock_alert"`
	OccupancyRate      *float64 `json:"occupancy_rate,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

func ToProductView(p model.Product) ProductView {
	return ProductView{
		ID:                 p.ID,
		Code:               p.Code,
		Name:               p.Name,
		Category:           p.Category,
		UnitPrice:          p.UnitPrice,
		InitialQuantity:    p.InitialQuantity,
		AvailableQuantity:  p.AvailableQuantity,
		CriticalThreshold:  p.CriticalThreshold,
		InMaintenance:      p.InMaintenance,
		InStock:            p.AvailableQuantity > 0,
		CriticalStockAlert: p.AvailableQuantity < p.CriticalThreshold,
		OccupancyRate:      occupancyRate(p.InitialQuantity, p.AvailableQuantity),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func ToProductViews(products []model.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductView(p))
	}
	return out
}

// Share of the initial stock currently out, in percent, rounded half up to
// two decimals. nil when there is no initial stock to compare against.
func occupancyRate(initial, available int64) *float64 {
	if initial <= 0 {
		return nil
	}
	rate := decimal.NewFromInt(initial - available).
		Mul(hundred).
		Div(decimal.NewFromInt(initial))

	//floor(x*100 + 0.5) / 100
	rounded := rate.Shift(2).Add(half).Floor().Shift(-2)
	f := rounded.InexactFloat64()
	return &f
}
