package commands

import (
	"context"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/pkg/errs"
	"hotelier/internal/pkg/metrics"
)

var ErrAllocationExhausted = errs.New("confirmation number allocation exhausted")

// maxAllocationAttempts bounds the redraw loop. A collision in the 10-digit
// space is a birthday-probability curiosity, not an expected event, so
// exhausting the budget points at a store problem and must fail loudly.
const maxAllocationAttempts = 5

// ConfirmationAllocator draws candidate confirmation numbers and probes the
// store for collisions. The probe is advisory: the insert-time UNIQUE
// constraint is what makes two concurrent allocations safe.
type ConfirmationAllocator struct {
	reservationRepo ReservationRepository
}

func NewConfirmationAllocator(reservationRepo ReservationRepository) *ConfirmationAllocator {
	return &ConfirmationAllocator{reservationRepo: reservationRepo}
}

func (a *ConfirmationAllocator) Allocate(ctx context.Context) (reservation.ConfirmationNumber, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		number, err := reservation.NewRandomConfirmationNumber()
		if err != nil {
			return "", errs.Wrap(err, "failed to draw confirmation number")
		}

		exists, err := a.reservationRepo.ConfirmationNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}

		metrics.ConfirmationNumberRetriesTotal.Inc()
	}

	return "", ErrAllocationExhausted
}
