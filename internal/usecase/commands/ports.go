package commands

import (
	"context"
	"time"

	"hotelier/internal/domain/hotel"
	"hotelier/internal/domain/reservation"
	"hotelier/internal/domain/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DuplicateFilter is the coarse store-side prefilter for the duplicate
// guard: cheap equality columns that bound the candidate set. Phone format
// and room ordering vary too much for SQL, so the exact comparison happens
// in memory afterwards.
type DuplicateFilter struct {
	HotelID     uuid.UUID
	Checkin     time.Time
	Checkout    time.Time
	TotalAmount decimal.Decimal
	GuestName   string
	GuestEmail  string
}

type ReservationRepository interface {
	Insert(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByConfirmationNumber(ctx context.Context, number reservation.ConfirmationNumber) (*reservation.Reservation, error)
	ConfirmationNumberExists(ctx context.Context, number reservation.ConfirmationNumber) (bool, error)
	FindDuplicateCandidates(ctx context.Context, filter DuplicateFilter) ([]*reservation.Reservation, error)
	UpdatePaymentCaptured(ctx context.Context, res *reservation.Reservation, expectedVersion int64) error
}

type HotelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// CardVault encrypts card fields for persistence and decrypts them at the
// point of use.
type CardVault interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CaptureLocker serializes capture attempts per reservation. Acquire fails
// fast when another attempt holds the lock.
type CaptureLocker interface {
	Acquire(ctx context.Context, reservationID uuid.UUID) (func(), error)
}

// EventPublisher delivers lifecycle events to the notification workers.
// Callers treat failures as log-only.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}
