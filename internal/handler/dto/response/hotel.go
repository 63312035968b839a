package response

import (
	"hotelier/internal/usecase/queries"

	"github.com/google/uuid"
)

type HotelResponse struct {
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	City           string    `json:"city"`
	CommissionRate string    `json:"commissionRate"`
}

func FromHotelView(view *queries.HotelView) *HotelResponse {
	return &HotelResponse{
		ID:             view.ID,
		Slug:           view.Slug,
		Name:           view.Name,
		City:           view.City,
		CommissionRate: view.CommissionRate.String(),
	}
}
