package view

import (
	"time"

	"rental/internal/domain/model"

	"github.com/shopspring/decimal"
)

type ReservationLineView struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Days      int64           `json:"days"`
	Amount    decimal.Decimal `json:"amount"`
}

type ReservationView struct {
	ID           int64                   `json:"id"`
	Reference    string                  `json:"reference"`
	CustomerName string                  `json:"customer_name"`
	Status       model.ReservationStatus `json:"status"`
	StartDate    time.Time               `json:"start_date"`
	EndDate      time.Time               `json:"end_date"`
	TotalAmount  decimal.Decimal         `json:"total_amount"`
	TotalUnits   int64                   `json:"total_units"`
	Lines        []ReservationLineView   `json:"lines"`
	Movements    []*MovementView         `json:"movements,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

func ToReservationView(r model.Reservation) ReservationView {
	lines := make([]ReservationLineView, 0, len(r.Lines))
	var units int64
	for _, l := range r.Lines {
		lines = append(lines, ReservationLineView{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
			Days:      l.Days(),
			Amount:    LineAmount(l),
		})
		units += l.Quantity
	}

	return ReservationView{
		ID:           r.ID,
		Reference:    r.Reference,
		CustomerName: r.CustomerName,
		Status:       r.Status,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		TotalAmount:  r.TotalAmount,
		TotalUnits:   units,
		Lines:        lines,
		CreatedAt:    r.CreatedAt,
	}
}

// unit price x quantity x rental days
func LineAmount(l model.ReservationLine) decimal.Decimal {
	return l.UnitPrice.
		Mul(decimal.NewFromInt(l.Quantity)).
		Mul(decimal.NewFromInt(l.Days()))
}
