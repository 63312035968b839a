//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/infra"
	"hotelier/internal/infra/gateway"
	"hotelier/internal/infra/lock"
	"hotelier/internal/usecase/commands"
	"hotelier/tests/common/builder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureFixture struct {
	repo      *fakeReservationRepo
	gateway   *fakeGateway
	vault     *fakeVault
	locker    *fakeLocker
	publisher *fakePublisher
	commands  commands.CaptureCommands
}

func newCaptureFixture(stored *reservation.Reservation) *captureFixture {
	repo := &fakeReservationRepo{}
	if stored != nil {
		repo.findByNumberFn = func(_ context.Context, number reservation.ConfirmationNumber) (*reservation.Reservation, error) {
			if number == stored.ConfirmationNumber() {
				return stored, nil
			}
			return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
		}
	}
	gw := &fakeGateway{}
	vault := &fakeVault{}
	locker := &fakeLocker{}
	publisher := &fakePublisher{}

	return &captureFixture{
		repo:      repo,
		gateway:   gw,
		vault:     vault,
		locker:    locker,
		publisher: publisher,
		commands:  commands.NewCaptureCommands(repo, gw, vault, locker, publisher),
	}
}

func captureParams(number string, amount string) commands.CaptureParams {
	return commands.CaptureParams{
		ConfirmationNumber: reservation.ConfirmationNumber(number),
		Amount:             decimal.RequireFromString(amount),
	}
}

func TestCapture(t *testing.T) {
	ctx := context.Background()

	t.Run("settles against the live hold", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)

		var heldRef string
		var heldAmount decimal.Decimal
		f.gateway.captureHoldFn = func(_ context.Context, holdRef string, amount decimal.Decimal) (*gateway.Settlement, error) {
			heldRef = holdRef
			heldAmount = amount
			return &gateway.Settlement{Reference: "cap-001"}, nil
		}

		view, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.NoError(t, err)
		require.NotNil(t, view)

		assert.Equal(t, "hold-abc123", heldRef)
		assert.True(t, heldAmount.Equal(decimal.RequireFromString("100.00")))
		assert.Equal(t, 1, f.gateway.captureHoldCalls)
		assert.Zero(t, f.gateway.authorizeAndCaptureCalls)

		assert.True(t, stored.PaidAmount().Equal(decimal.RequireFromString("100.00")))
		assert.True(t, stored.Payment().Captured)
		assert.Equal(t, 1, stored.Payment().ChargeCount)
		assert.Equal(t, "cap-001", stored.Payment().FinalCaptureTransactionID)

		assert.Equal(t, 1, f.repo.updateCalls)
		assert.Equal(t, 1, f.locker.acquired)
		assert.Equal(t, 1, f.locker.released)

		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, "payment.captured", f.publisher.events[0].routingKey)
	})

	t.Run("repeat captures accumulate the paid total", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.NoError(t, err)
		_, err = f.commands.Capture(ctx, captureParams("4820173659", "50.00"))
		require.NoError(t, err)

		assert.True(t, stored.PaidAmount().Equal(decimal.RequireFromString("150.00")))
		assert.Equal(t, 2, stored.Payment().ChargeCount)
		assert.Equal(t, 2, f.repo.updateCalls)
	})

	t.Run("expired hold falls back to a direct charge exactly once", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)

		f.gateway.captureHoldFn = func(_ context.Context, _ string, _ decimal.Decimal) (*gateway.Settlement, error) {
			return nil, gateway.ErrHoldNotFound
		}
		var chargedCard reservation.CardDetails
		f.gateway.authorizeAndCaptureFn = func(_ context.Context, card reservation.CardDetails, _ decimal.Decimal) (*gateway.Settlement, error) {
			chargedCard = card
			return &gateway.Settlement{Reference: "direct-001"}, nil
		}

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.NoError(t, err)

		assert.Equal(t, 1, f.gateway.captureHoldCalls)
		assert.Equal(t, 1, f.gateway.authorizeAndCaptureCalls)
		assert.Equal(t, "number", chargedCard.Number, "fallback must charge the decrypted card")
		assert.Equal(t, "direct-001", stored.Payment().FinalCaptureTransactionID)
	})

	t.Run("a reservation without a hold charges directly", func(t *testing.T) {
		stored := storedReservation(t, func(b *builder.ReservationBuilder) {
			b.WithHoldReference("")
		})
		f := newCaptureFixture(stored)

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.NoError(t, err)

		assert.Zero(t, f.gateway.captureHoldCalls)
		assert.Equal(t, 1, f.gateway.authorizeAndCaptureCalls)
	})

	t.Run("a decline leaves the reservation untouched", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)
		f.gateway.captureHoldFn = func(_ context.Context, _ string, _ decimal.Decimal) (*gateway.Settlement, error) {
			return nil, &gateway.DeclinedError{Operation: "capture", Reason: "card expired"}
		}

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.ErrorIs(t, err, commands.ErrCaptureDeclined)
		assert.Contains(t, err.Error(), "card expired")

		assert.True(t, stored.PaidAmount().IsZero())
		assert.False(t, stored.Payment().Captured)
		assert.Zero(t, stored.Payment().ChargeCount)
		assert.Zero(t, f.repo.updateCalls)
		assert.Empty(t, f.publisher.events)
		assert.Equal(t, 1, f.locker.released)
	})

	t.Run("a decline during the fallback is not retried", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)
		f.gateway.captureHoldFn = func(_ context.Context, _ string, _ decimal.Decimal) (*gateway.Settlement, error) {
			return nil, gateway.ErrHoldNotFound
		}
		f.gateway.authorizeAndCaptureFn = func(_ context.Context, _ reservation.CardDetails, _ decimal.Decimal) (*gateway.Settlement, error) {
			return nil, &gateway.DeclinedError{Operation: "sale", Reason: "do not honor"}
		}

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.ErrorIs(t, err, commands.ErrCaptureDeclined)
		assert.Equal(t, 1, f.gateway.authorizeAndCaptureCalls)
	})

	t.Run("a concurrent capture attempt is turned away", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)
		f.locker.acquireErr = lock.ErrAlreadyLocked

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.ErrorIs(t, err, commands.ErrCaptureInProgress)
		assert.Zero(t, f.gateway.captureHoldCalls)
		assert.Zero(t, f.repo.updateCalls)
	})

	t.Run("unknown confirmation number", func(t *testing.T) {
		f := newCaptureFixture(nil)

		_, err := f.commands.Capture(ctx, captureParams("0000000000", "100.00"))
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})

	t.Run("corrupt card ciphertext fails before the gateway sees anything", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)
		f.vault.decryptErr = errors.New("cipher: message authentication failed")

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.ErrorIs(t, err, commands.ErrCardDataCorrupted)
		assert.Zero(t, f.gateway.captureHoldCalls)
		assert.Zero(t, f.gateway.authorizeAndCaptureCalls)
	})

	t.Run("version conflict surfaces after the charge", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)
		f.repo.updateCapturedFn = func(_ context.Context, _ *reservation.Reservation, _ int64) error {
			return infra.WrapRepoErr(infra.KindConflict, "reservation version changed", nil)
		}

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "100.00"))
		require.ErrorIs(t, err, commands.ErrCaptureConflict)
	})

	t.Run("non-positive amounts never reach the store", func(t *testing.T) {
		f := newCaptureFixture(nil)

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "0.00"))
		require.ErrorIs(t, err, commands.ErrInvalidCaptureAmount)

		_, err = f.commands.Capture(ctx, commands.CaptureParams{
			ConfirmationNumber: reservation.ConfirmationNumber("4820173659"),
			Amount:             decimal.RequireFromString("-10.00"),
		})
		require.ErrorIs(t, err, commands.ErrInvalidCaptureAmount)
	})

	t.Run("capturing past the stay total is allowed", func(t *testing.T) {
		stored := storedReservation(t, nil)
		f := newCaptureFixture(stored)

		_, err := f.commands.Capture(ctx, captureParams("4820173659", "400.00"))
		require.NoError(t, err)
		assert.True(t, stored.PaidAmount().Equal(decimal.RequireFromString("400.00")))
	})
}
