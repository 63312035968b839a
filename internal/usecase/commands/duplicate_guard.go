package commands

import (
	"context"

	"hotelier/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DuplicateCandidate is the identity fingerprint of a creation request
// before it has a confirmation number to dedupe on.
type DuplicateCandidate struct {
	HotelID     uuid.UUID
	Guest       reservation.GuestIdentity
	Stay        reservation.StayWindow
	Rooms       []reservation.RoomSelection
	TotalAmount decimal.Decimal
	ReservedBy  *uuid.UUID
}

// DuplicateGuard catches client resubmits (network retries, double clicks,
// replayed webhooks). It is a best-effort filter: two creations racing past
// it can both land, which is an accepted gap, not a broken guarantee.
type DuplicateGuard struct {
	reservationRepo ReservationRepository
}

func NewDuplicateGuard(reservationRepo ReservationRepository) *DuplicateGuard {
	return &DuplicateGuard{reservationRepo: reservationRepo}
}

// FindDuplicate returns the first existing reservation matching the
// candidate's normalized identity, or nil when creation may proceed.
func (g *DuplicateGuard) FindDuplicate(ctx context.Context, candidate DuplicateCandidate) (*reservation.Reservation, error) {
	normalized := candidate.Guest.Normalized()

	// The store prefilter compares name and email case-insensitively; phone
	// format and room ordering are too volatile for SQL equality.
	prefiltered, err := g.reservationRepo.FindDuplicateCandidates(ctx, DuplicateFilter{
		HotelID:     candidate.HotelID,
		Checkin:     candidate.Stay.Checkin(),
		Checkout:    candidate.Stay.Checkout(),
		TotalAmount: candidate.TotalAmount,
		GuestName:   candidate.Guest.Name,
		GuestEmail:  candidate.Guest.Email,
	})
	if err != nil {
		return nil, err
	}

	signature := reservation.RoomSignature(candidate.Rooms)

	for _, existing := range prefiltered {
		if reservation.NormalizePhone(existing.Guest().Phone) != normalized.Phone {
			continue
		}
		if existing.RoomSignature() != signature {
			continue
		}
		if !attributionMatches(candidate.ReservedBy, existing.ReservedBy()) {
			continue
		}
		return existing, nil
	}

	return nil, nil
}

// attributionMatches keeps staff-attributed and guest-direct bookings from
// shadowing each other: an unattributed candidate never matches an
// attributed record and vice versa.
func attributionMatches(candidate, existing *uuid.UUID) bool {
	if candidate == nil && existing == nil {
		return true
	}
	if candidate == nil || existing == nil {
		return false
	}
	return *candidate == *existing
}
