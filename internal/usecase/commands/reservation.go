package commands

import (
	"context"
	"log/slog"
	"time"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/infra"
	"hotelier/internal/infra/gateway"
	"hotelier/internal/infra/notify"
	"hotelier/internal/pkg/clock"
	"hotelier/internal/pkg/errs"
	"hotelier/internal/pkg/metrics"
	"hotelier/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrHotelNotFound         = errs.New("hotel not found")
	ErrDuplicateReservation  = errs.New("duplicate reservation")
	ErrCardIncomplete        = errs.New("card details incomplete")
	ErrAuthorizationDeclined = errs.New("card authorization declined")
	ErrGatewayUnreachable    = errs.New("payment gateway unreachable")
	ErrDomainValidation      = errs.New("domain validation error")
	ErrEncryptionFailed      = errs.New("card encryption failed")
)

// maxInsertAttempts bounds the allocate-then-insert loop around the
// confirmation number UNIQUE constraint.
const maxInsertAttempts = 3

type CreateReservationParams struct {
	HotelID     uuid.UUID
	Guest       reservation.GuestIdentity
	Checkin     time.Time
	Checkout    time.Time
	Rooms       []reservation.RoomSelection
	TotalAmount decimal.Decimal
	Card        reservation.CardDetails
	Mode        reservation.PaymentMode
	ReservedBy  *uuid.UUID
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, params CreateReservationParams) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	reservationRepo ReservationRepository
	hotelRepo       HotelRepository
	guard           *DuplicateGuard
	allocator       *ConfirmationAllocator
	paymentGateway  gateway.PaymentGateway
	vault           CardVault
	publisher       EventPublisher
	clock           clock.Clock
	verification    decimal.Decimal
}

func NewReservationCommands(
	reservationRepo ReservationRepository,
	hotelRepo HotelRepository,
	guard *DuplicateGuard,
	allocator *ConfirmationAllocator,
	paymentGateway gateway.PaymentGateway,
	vault CardVault,
	publisher EventPublisher,
	clk clock.Clock,
	verificationAmount decimal.Decimal,
) ReservationCommands {
	return &reservationCommandsImpl{
		reservationRepo: reservationRepo,
		hotelRepo:       hotelRepo,
		guard:           guard,
		allocator:       allocator,
		paymentGateway:  paymentGateway,
		vault:           vault,
		publisher:       publisher,
		clock:           clk,
		verification:    verificationAmount,
	}
}

// CreateReservation runs the creation leg of the payment saga: duplicate
// guard, confirmation number allocation, a non-committing authorization
// hold, then a single insert. A declined or unreachable gateway aborts the
// whole creation with nothing persisted.
func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, params CreateReservationParams) (*queries.ReservationView, error) {
	stay, err := reservation.NewStayWindow(params.Checkin, params.Checkout)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if err := reservation.ValidateRooms(params.Rooms); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if !params.Card.Complete() {
		return nil, ErrCardIncomplete
	}

	hotelEntity, err := c.hotelRepo.FindByID(ctx, params.HotelID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, errs.Wrap(err, "failed to find hotel")
	}

	existing, err := c.guard.FindDuplicate(ctx, DuplicateCandidate{
		HotelID:     params.HotelID,
		Guest:       params.Guest,
		Stay:        stay,
		Rooms:       params.Rooms,
		TotalAmount: params.TotalAmount,
		ReservedBy:  params.ReservedBy,
	})
	if err != nil {
		return nil, errs.Wrap(err, "duplicate guard failed")
	}
	if existing != nil {
		metrics.DuplicateReservationsTotal.Inc()
		slog.Info("duplicate reservation rejected",
			"confirmation_number", existing.ConfirmationNumber().String(),
			"hotel_id", params.HotelID,
		)
		return nil, ErrDuplicateReservation
	}

	// Card-validity check only: the verification amount is fixed and small,
	// the real total is collected later by the capture stage.
	hold, err := c.paymentGateway.AuthorizeOnly(ctx, params.Card, c.verification)
	if err != nil {
		return nil, c.mapGatewayError(err, ErrAuthorizationDeclined)
	}

	encryptedCard, err := c.encryptCard(params.Card)
	if err != nil {
		return nil, errs.Mark(err, ErrEncryptionFailed)
	}

	res, err := c.insertWithFreshNumber(ctx, params, stay, hotelEntity.CommissionFor(params.TotalAmount), encryptedCard, hold.Reference)
	if err != nil {
		return nil, err
	}

	c.publishConfirmed(ctx, res)

	return queries.NewReservationView(res), nil
}

func (c *reservationCommandsImpl) insertWithFreshNumber(
	ctx context.Context,
	params CreateReservationParams,
	stay reservation.StayWindow,
	commission decimal.Decimal,
	card reservation.EncryptedCard,
	holdRef string,
) (*reservation.Reservation, error) {
	var lastErr error

	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		number, err := c.allocator.Allocate(ctx)
		if err != nil {
			return nil, err
		}

		res, err := reservation.NewReservation(reservation.NewReservationParams{
			HotelID:            params.HotelID,
			ConfirmationNumber: number,
			Guest:              params.Guest,
			Stay:               stay,
			Rooms:              params.Rooms,
			TotalAmount:        params.TotalAmount,
			Commission:         commission,
			Card:               card,
			HoldReference:      holdRef,
			Mode:               params.Mode,
			ReservedBy:         params.ReservedBy,
			CreatedAt:          c.clock.Now(),
		})
		if err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}

		err = c.reservationRepo.Insert(ctx, res)
		if err == nil {
			return res, nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Wrap(err, "failed to insert reservation")
		}

		// Lost the constraint race to a concurrent creation; redraw.
		metrics.ConfirmationNumberRetriesTotal.Inc()
		lastErr = err
	}

	return nil, errs.Mark(lastErr, ErrAllocationExhausted)
}

func (c *reservationCommandsImpl) encryptCard(card reservation.CardDetails) (reservation.EncryptedCard, error) {
	var encrypted reservation.EncryptedCard
	var err error

	if encrypted.Number, err = c.vault.Encrypt(card.Number); err != nil {
		return reservation.EncryptedCard{}, err
	}
	if encrypted.Expiry, err = c.vault.Encrypt(card.Expiry); err != nil {
		return reservation.EncryptedCard{}, err
	}
	if encrypted.CVV, err = c.vault.Encrypt(card.CVV); err != nil {
		return reservation.EncryptedCard{}, err
	}
	if encrypted.Holder, err = c.vault.Encrypt(card.Holder); err != nil {
		return reservation.EncryptedCard{}, err
	}
	return encrypted, nil
}

func (c *reservationCommandsImpl) mapGatewayError(err error, declineMark error) error {
	if gateway.IsDeclined(err) {
		return errs.Mark(err, declineMark)
	}
	return errs.Mark(err, ErrGatewayUnreachable)
}

func (c *reservationCommandsImpl) publishConfirmed(ctx context.Context, res *reservation.Reservation) {
	event := map[string]any{
		"confirmation_number": res.ConfirmationNumber().String(),
		"hotel_id":            res.HotelID(),
		"guest_name":          res.Guest().Name,
		"guest_email":         res.Guest().Email,
		"checkin_date":        res.Stay().Checkin().Format(time.DateOnly),
		"checkout_date":       res.Stay().Checkout().Format(time.DateOnly),
		"total_amount":        res.TotalAmount().StringFixed(2),
	}

	// Fire and forget: the notification workers catch up on their own.
	if err := c.publisher.Publish(ctx, notify.RoutingKeyReservationConfirmed, event); err != nil {
		slog.Warn("failed to publish reservation.confirmed",
			"confirmation_number", res.ConfirmationNumber().String(),
			"error", err,
		)
	}
}
