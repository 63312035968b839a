package commands

import (
	"context"
	"errors"
	"log/slog"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/infra"
	"hotelier/internal/infra/gateway"
	"hotelier/internal/infra/lock"
	"hotelier/internal/infra/notify"
	"hotelier/internal/pkg/errs"
	"hotelier/internal/pkg/metrics"
	"hotelier/internal/usecase/queries"

	"github.com/shopspring/decimal"
)

var (
	ErrReservationNotFound  = errs.New("reservation not found")
	ErrCaptureInProgress    = errs.New("capture already in progress")
	ErrCaptureDeclined      = errs.New("capture declined")
	ErrCaptureConflict      = errs.New("reservation changed during capture")
	ErrCardDataCorrupted    = errs.New("stored card data corrupted")
	ErrInvalidCaptureAmount = errs.New("capture amount must be positive")
)

type CaptureParams struct {
	ConfirmationNumber reservation.ConfirmationNumber
	Amount             decimal.Decimal
}

type CaptureCommands interface {
	Capture(ctx context.Context, params CaptureParams) (*queries.ReservationView, error)
}

type captureCommandsImpl struct {
	reservationRepo ReservationRepository
	paymentGateway  gateway.PaymentGateway
	vault           CardVault
	locker          CaptureLocker
	publisher       EventPublisher
}

func NewCaptureCommands(
	reservationRepo ReservationRepository,
	paymentGateway gateway.PaymentGateway,
	vault CardVault,
	locker CaptureLocker,
	publisher EventPublisher,
) CaptureCommands {
	return &captureCommandsImpl{
		reservationRepo: reservationRepo,
		paymentGateway:  paymentGateway,
		vault:           vault,
		locker:          locker,
		publisher:       publisher,
	}
}

// Capture collects money against a reservation's stored card. Per
// reservation at most one capture runs at a time; a second caller gets
// ErrCaptureInProgress rather than queueing. The gateway charge happens
// before the store write, so a store failure after a successful charge is
// surfaced loudly instead of silently retried.
func (c *captureCommandsImpl) Capture(ctx context.Context, params CaptureParams) (*queries.ReservationView, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidCaptureAmount
	}

	res, err := c.reservationRepo.FindByConfirmationNumber(ctx, params.ConfirmationNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Wrap(err, "failed to load reservation")
	}

	release, err := c.locker.Acquire(ctx, res.ID())
	if err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return nil, ErrCaptureInProgress
		}
		return nil, errs.Wrap(err, "failed to acquire capture lock")
	}
	defer release()

	// Reload under the lock; the first read only resolved the ID.
	res, err = c.reservationRepo.FindByConfirmationNumber(ctx, params.ConfirmationNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Wrap(err, "failed to reload reservation")
	}
	version := res.Version()

	// Decrypt everything up front. A corrupt vault entry must fail before
	// the gateway sees any request, not between charge and record.
	card, err := c.decryptCard(res.Payment().Card)
	if err != nil {
		metrics.CapturesTotal.WithLabelValues("corrupted").Inc()
		return nil, errs.Mark(err, ErrCardDataCorrupted)
	}

	if res.WouldExceedTotal(params.Amount) {
		slog.Warn("capture exceeds reservation total",
			"confirmation_number", res.ConfirmationNumber().String(),
			"paid_amount", res.PaidAmount().StringFixed(2),
			"capture_amount", params.Amount.StringFixed(2),
			"total_amount", res.TotalAmount().StringFixed(2),
		)
	}

	settlement, err := c.charge(ctx, res, card, params.Amount)
	if err != nil {
		return nil, err
	}

	if err := res.RecordCapture(params.Amount, settlement.Reference); err != nil {
		return nil, errs.Wrap(err, "failed to record capture")
	}

	if err := c.reservationRepo.UpdatePaymentCaptured(ctx, res, version); err != nil {
		metrics.CapturesTotal.WithLabelValues("store_failure").Inc()
		switch {
		case infra.IsKind(err, infra.KindConflict):
			return nil, errs.Mark(err, ErrCaptureConflict)
		case infra.IsKind(err, infra.KindNotFound):
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Wrap(err, "failed to persist capture")
	}

	metrics.CapturesTotal.WithLabelValues("captured").Inc()
	c.publishCaptured(ctx, res, params.Amount, settlement.Reference)

	return queries.NewReservationView(res), nil
}

// charge settles against the existing hold when one is present, falling
// back exactly once to a fresh authorize-and-capture when the gateway has
// already expired the hold.
func (c *captureCommandsImpl) charge(ctx context.Context, res *reservation.Reservation, card reservation.CardDetails, amount decimal.Decimal) (*gateway.Settlement, error) {
	if res.Payment().HasHold() {
		settlement, err := c.paymentGateway.CaptureHold(ctx, res.Payment().TransactionID, amount)
		if err == nil {
			return settlement, nil
		}
		if !errors.Is(err, gateway.ErrHoldNotFound) {
			return nil, c.mapChargeError(err)
		}
		slog.Info("authorization hold expired, charging card directly",
			"confirmation_number", res.ConfirmationNumber().String(),
			"hold_reference", res.Payment().TransactionID,
		)
	}

	settlement, err := c.paymentGateway.AuthorizeAndCapture(ctx, card, amount)
	if err != nil {
		return nil, c.mapChargeError(err)
	}
	return settlement, nil
}

func (c *captureCommandsImpl) mapChargeError(err error) error {
	if gateway.IsDeclined(err) {
		metrics.CapturesTotal.WithLabelValues("declined").Inc()
		return errs.Mark(err, ErrCaptureDeclined)
	}
	metrics.CapturesTotal.WithLabelValues("unreachable").Inc()
	return errs.Mark(err, ErrGatewayUnreachable)
}

func (c *captureCommandsImpl) decryptCard(encrypted reservation.EncryptedCard) (reservation.CardDetails, error) {
	var card reservation.CardDetails
	var err error

	if card.Number, err = c.vault.Decrypt(encrypted.Number); err != nil {
		return reservation.CardDetails{}, err
	}
	if card.Expiry, err = c.vault.Decrypt(encrypted.Expiry); err != nil {
		return reservation.CardDetails{}, err
	}
	if card.CVV, err = c.vault.Decrypt(encrypted.CVV); err != nil {
		return reservation.CardDetails{}, err
	}
	if card.Holder, err = c.vault.Decrypt(encrypted.Holder); err != nil {
		return reservation.CardDetails{}, err
	}
	return card, nil
}

func (c *captureCommandsImpl) publishCaptured(ctx context.Context, res *reservation.Reservation, amount decimal.Decimal, gatewayRef string) {
	event := map[string]any{
		"confirmation_number": res.ConfirmationNumber().String(),
		"hotel_id":            res.HotelID(),
		"amount":              amount.StringFixed(2),
		"paid_amount":         res.PaidAmount().StringFixed(2),
		"gateway_reference":   gatewayRef,
		"charge_count":        res.Payment().ChargeCount,
	}

	if err := c.publisher.Publish(ctx, notify.RoutingKeyPaymentCaptured, event); err != nil {
		slog.Warn("failed to publish payment.captured",
			"confirmation_number", res.ConfirmationNumber().String(),
			"error", err,
		)
	}
}
