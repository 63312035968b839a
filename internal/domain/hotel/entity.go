package hotel

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidSlug = errors.New("hotel slug must not be empty")

// Hotel is a read-mostly catalog entity; reservations reference it by ID.
type Hotel struct {
	id             uuid.UUID
	slug           string
	name           string
	city           string
	commissionRate decimal.Decimal
}

func Reconstruct(id uuid.UUID, slug, name, city string, commissionRate decimal.Decimal) *Hotel {
	return &Hotel{
		id:             id,
		slug:           slug,
		name:           name,
		city:           city,
		commissionRate: commissionRate,
	}
}

func (h *Hotel) ID() uuid.UUID                   { return h.id }
func (h *Hotel) Slug() string                    { return h.slug }
func (h *Hotel) Name() string                    { return h.name }
func (h *Hotel) City() string                    { return h.city }
func (h *Hotel) CommissionRate() decimal.Decimal { return h.commissionRate }

// CommissionFor computes the hotel's commission for a stay total, rounded to
// two fractional digits.
func (h *Hotel) CommissionFor(total decimal.Decimal) decimal.Decimal {
	return total.Mul(h.commissionRate).Round(2)
}
