package queries

import (
	"context"

	"hotelier/internal/domain/hotel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HotelView struct {
	ID             uuid.UUID
	Slug           string
	Name           string
	City           string
	CommissionRate decimal.Decimal
}

type HotelQueries interface {
	List(ctx context.Context) ([]*HotelView, error)
	GetBySlug(ctx context.Context, slug string) (*HotelView, error)
}

func NewHotelView(h *hotel.Hotel) *HotelView {
	return &HotelView{
		ID:             h.ID(),
		Slug:           h.Slug(),
		Name:           h.Name(),
		City:           h.City(),
		CommissionRate: h.CommissionRate(),
	}
}
