//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"

	"hotelier/internal/domain/hotel"
	"hotelier/internal/domain/reservation"
	"hotelier/internal/domain/user"
	"hotelier/internal/infra"
	"hotelier/internal/infra/gateway"
	"hotelier/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hand-rolled function-field fakes: the command layer is exercised through
// its ports, and recording call arguments directly keeps the saga tests
// readable.

type fakeReservationRepo struct {
	insertFn         func(ctx context.Context, res *reservation.Reservation) error
	findByNumberFn   func(ctx context.Context, number reservation.ConfirmationNumber) (*reservation.Reservation, error)
	existsFn         func(ctx context.Context, number reservation.ConfirmationNumber) (bool, error)
	findDuplicatesFn func(ctx context.Context, filter commands.DuplicateFilter) ([]*reservation.Reservation, error)
	updateCapturedFn func(ctx context.Context, res *reservation.Reservation, expectedVersion int64) error

	inserted      []*reservation.Reservation
	updateCalls   int
	lastFilter    commands.DuplicateFilter
	filterQueried bool
}

func (f *fakeReservationRepo) Insert(ctx context.Context, res *reservation.Reservation) error {
	f.inserted = append(f.inserted, res)
	if f.insertFn != nil {
		return f.insertFn(ctx, res)
	}
	return nil
}

func (f *fakeReservationRepo) FindByID(_ context.Context, _ uuid.UUID) (*reservation.Reservation, error) {
	return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
}

func (f *fakeReservationRepo) FindByConfirmationNumber(ctx context.Context, number reservation.ConfirmationNumber) (*reservation.Reservation, error) {
	if f.findByNumberFn != nil {
		return f.findByNumberFn(ctx, number)
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
}

func (f *fakeReservationRepo) ConfirmationNumberExists(ctx context.Context, number reservation.ConfirmationNumber) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, number)
	}
	return false, nil
}

func (f *fakeReservationRepo) FindDuplicateCandidates(ctx context.Context, filter commands.DuplicateFilter) ([]*reservation.Reservation, error) {
	f.lastFilter = filter
	f.filterQueried = true
	if f.findDuplicatesFn != nil {
		return f.findDuplicatesFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeReservationRepo) UpdatePaymentCaptured(ctx context.Context, res *reservation.Reservation, expectedVersion int64) error {
	f.updateCalls++
	if f.updateCapturedFn != nil {
		return f.updateCapturedFn(ctx, res, expectedVersion)
	}
	return nil
}

type fakeHotelRepo struct {
	hotels map[uuid.UUID]*hotel.Hotel
}

func (f *fakeHotelRepo) FindByID(_ context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	if h, ok := f.hotels[id]; ok {
		return h, nil
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "hotel not found", nil)
}

type fakeUserRepo struct {
	users map[string]*user.User
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := f.users[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "user not found", nil)
}

type fakeGateway struct {
	authorizeOnlyFn       func(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*gateway.Hold, error)
	captureHoldFn         func(ctx context.Context, holdRef string, amount decimal.Decimal) (*gateway.Settlement, error)
	authorizeAndCaptureFn func(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*gateway.Settlement, error)

	authorizeOnlyCalls       int
	captureHoldCalls         int
	authorizeAndCaptureCalls int
}

func (f *fakeGateway) AuthorizeOnly(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*gateway.Hold, error) {
	f.authorizeOnlyCalls++
	if f.authorizeOnlyFn != nil {
		return f.authorizeOnlyFn(ctx, card, amount)
	}
	return &gateway.Hold{Reference: "hold-abc123"}, nil
}

func (f *fakeGateway) CaptureHold(ctx context.Context, holdRef string, amount decimal.Decimal) (*gateway.Settlement, error) {
	f.captureHoldCalls++
	if f.captureHoldFn != nil {
		return f.captureHoldFn(ctx, holdRef, amount)
	}
	return &gateway.Settlement{Reference: "cap-001"}, nil
}

func (f *fakeGateway) AuthorizeAndCapture(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*gateway.Settlement, error) {
	f.authorizeAndCaptureCalls++
	if f.authorizeAndCaptureFn != nil {
		return f.authorizeAndCaptureFn(ctx, card, amount)
	}
	return &gateway.Settlement{Reference: "direct-001"}, nil
}

// fakeVault prefixes on encrypt and strips on decrypt, so tests can assert
// that persisted card fields are the encrypted form.
type fakeVault struct {
	decryptErr error
}

func (f *fakeVault) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (f *fakeVault) Decrypt(ciphertext string) (string, error) {
	if f.decryptErr != nil {
		return "", f.decryptErr
	}
	plaintext, ok := strings.CutPrefix(ciphertext, "enc:")
	if !ok {
		return "", errors.New("not encrypted by this fake")
	}
	return plaintext, nil
}

type fakeLocker struct {
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeLocker) Acquire(_ context.Context, _ uuid.UUID) (func(), error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	return func() { f.released++ }, nil
}

type publishedEvent struct {
	routingKey string
	event      any
}

type fakePublisher struct {
	publishErr error
	events     []publishedEvent
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, event any) error {
	f.events = append(f.events, publishedEvent{routingKey: routingKey, event: event})
	return f.publishErr
}
