//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"hotelier/internal/domain/reservation"
	"hotelier/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "4820173659", actual.ConfirmationNumber().String())
		assert.True(t, actual.PaidAmount().IsZero())
		assert.False(t, actual.Payment().Captured)
		assert.Equal(t, 0, actual.Payment().ChargeCount)
		assert.Equal(t, "hold-abc123", actual.Payment().TransactionID)
		assert.Equal(t, 3, actual.Stay().Nights())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.ReservationBuilder)
			errIs  error
		}{
			{
				name:   "missing guest name",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuestName("") },
				errIs:  reservation.ErrGuestIncomplete,
			},
			{
				name:   "missing guest phone",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuestPhone("") },
				errIs:  reservation.ErrGuestIncomplete,
			},
			{
				name:   "empty room selection",
				mutate: func(b *builder.ReservationBuilder) { b.WithRooms(nil) },
				errIs:  reservation.ErrEmptyRoomSelection,
			},
			{
				name: "zero room count",
				mutate: func(b *builder.ReservationBuilder) {
					b.WithRooms([]reservation.RoomSelection{{RoomType: "double", DisplayName: "Double Room", Count: 0}})
				},
				errIs: reservation.ErrInvalidRoomCount,
			},
			{
				name:   "zero-value stay window",
				mutate: func(b *builder.ReservationBuilder) { b.WithZeroStay() },
				errIs:  reservation.ErrInvalidStayWindow,
			},
			{
				name:   "zero total amount",
				mutate: func(b *builder.ReservationBuilder) { b.WithTotalAmount("0.00") },
				errIs:  reservation.ErrInvalidTotalAmount,
			},
			{
				name:   "negative commission",
				mutate: func(b *builder.ReservationBuilder) { b.WithCommission("-1.00") },
				errIs:  reservation.ErrNegativeCommission,
			},
			{
				name:   "malformed confirmation number",
				mutate: func(b *builder.ReservationBuilder) { b.WithConfirmationNumber("12ab") },
				errIs:  reservation.ErrInvalidConfirmationNumber,
			},
			{
				name:   "unknown payment mode",
				mutate: func(b *builder.ReservationBuilder) { b.WithMode("paid_maybe") },
				errIs:  reservation.ErrInvalidPaymentMode,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewReservationBuilder()
				tc.mutate(b)
				_, err := b.BuildDomain()
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestStayWindow(t *testing.T) {
	t.Run("checkout must follow checkin", func(t *testing.T) {
		day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		_, err := reservation.NewStayWindow(day, day)
		assert.ErrorIs(t, err, reservation.ErrInvalidStayWindow)

		_, err = reservation.NewStayWindow(day, day.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, reservation.ErrInvalidStayWindow)
	})

	t.Run("times of day are dropped", func(t *testing.T) {
		a, err := reservation.NewStayWindow(
			time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC),
			time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		b, err := reservation.NewStayWindow(
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 4, 23, 59, 0, 0, time.UTC),
		)
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
	})
}

func TestRecordCapture(t *testing.T) {
	t.Run("captures accumulate", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.RecordCapture(decimal.RequireFromString("100.00"), "txn-1"))
		require.NoError(t, res.RecordCapture(decimal.RequireFromString("50.00"), "txn-2"))

		assert.True(t, res.PaidAmount().Equal(decimal.RequireFromString("150.00")))
		assert.Equal(t, 2, res.Payment().ChargeCount)
		assert.True(t, res.Payment().Captured)
		assert.Equal(t, "txn-2", res.Payment().FinalCaptureTransactionID)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		err = res.RecordCapture(decimal.Zero, "txn-1")
		assert.ErrorIs(t, err, reservation.ErrNonPositiveCharge)
		assert.True(t, res.PaidAmount().IsZero())
		assert.Equal(t, 0, res.Payment().ChargeCount)
	})

	t.Run("rejects empty gateway reference", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		err = res.RecordCapture(decimal.RequireFromString("10.00"), "")
		assert.ErrorIs(t, err, reservation.ErrMissingCaptureRef)
		assert.False(t, res.Payment().Captured)
	})

	t.Run("paid total may pass stay total", func(t *testing.T) {
		res, err := builder.NewReservationBuilder().WithTotalAmount("300.00").BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.RecordCapture(decimal.RequireFromString("300.00"), "txn-1"))
		assert.True(t, res.WouldExceedTotal(decimal.RequireFromString("0.01")))

		require.NoError(t, res.RecordCapture(decimal.RequireFromString("25.00"), "txn-2"))
		assert.True(t, res.PaidAmount().Equal(decimal.RequireFromString("325.00")))
	})
}

func TestCheckPaymentInvariants(t *testing.T) {
	res, err := builder.NewReservationBuilder().BuildDomain()
	require.NoError(t, err)
	assert.NoError(t, res.CheckPaymentInvariants())

	require.NoError(t, res.RecordCapture(decimal.RequireFromString("150.00"), "txn-1"))
	assert.NoError(t, res.CheckPaymentInvariants())

	// captured flag without any gateway reference is a corrupt record
	bad := reservation.Reconstruct(
		res.ID(), res.HotelID(), res.ConfirmationNumber(), res.Guest(), res.Stay(), res.Rooms(),
		res.TotalAmount(), res.PaidAmount(), res.Commission(),
		reservation.PaymentRecord{Captured: true},
		res.Mode(), nil, res.CreatedAt(), 1,
	)
	assert.ErrorIs(t, bad.CheckPaymentInvariants(), reservation.ErrCapturedWithoutRef)
}
