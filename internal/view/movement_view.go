package view

import (
	"time"

	"rental/internal/domain/model"
)

type MovementView struct {
	ID   int64              `json:"id"`
	Type model.MovementType `json:"type"`

	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductCode string `json:"product_code"`

	Quantity       int64 `json:"quantity"`
	QuantityBefore int64 `json:"quantity_before"`
	QuantityAfter  int64 `json:"quantity_after"`

	Reason    string    `json:"reason"`
	ActorID   int64     `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	CreatedAt time.Time `json:"created_at"`

	ReservationID    *int64     `json:"reservation_id,omitempty"`
	ReservationStart *time.Time `json:"reservation_start,omitempty"`
	ReservationEnd   *time.Time `json:"reservation_end,omitempty"`

	InstanceID     *int64 `json:"instance_id,omitempty"`
	InstanceSerial string `json:"instance_serial,omitempty"`
	InstanceCode   string `json:"instance_code,omitempty"`
}

// ToMovementView expects m.Product (and m.Instance for instance movements)
// to be preloaded; missing associations leave the denormalized fields empty.
func ToMovementView(m model.StockMovement) MovementView {
	v := MovementView{
		ID:               m.ID,
		Type:             m.Type,
		ProductID:        m.ProductID,
		ProductName:      m.Product.Name,
		ProductCode:      m.Product.Code,
		Quantity:         m.Quantity,
		QuantityBefore:   m.QuantityBefore,
		QuantityAfter:    m.QuantityAfter,
		Reason:           m.Reason,
		ActorID:          m.ActorID,
		ActorName:        m.ActorName,
		CreatedAt:        m.CreatedAt,
		ReservationID:    m.ReservationID,
		ReservationStart: m.ReservationStart,
		ReservationEnd:   m.ReservationEnd,
		InstanceID:       m.InstanceID,
		InstanceCode:     m.InstanceCode,
	}

	if m.Instance != nil {
		v.InstanceSerial = m.Instance.SerialNumber
	} else if m.InstanceID != nil {
		//the code written at record time is the serial
		v.InstanceSerial = m.InstanceCode
	}
	return v
}

// nil entries stay nil
func ToMovementViews(movements []*model.StockMovement) []*MovementView {
	out := make([]*MovementView, 0, len(movements))
	for _, m := range movements {
		if m == nil {
			out = append(out, nil)
			continue
		}
		v := ToMovementView(*m)
		out = append(out, &v)
	}
	return out
}
