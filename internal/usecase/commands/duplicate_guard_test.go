//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/usecase/commands"
	"hotelier/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedReservation(t *testing.T, mutate func(*builder.ReservationBuilder)) *reservation.Reservation {
	t.Helper()
	b := builder.NewReservationBuilder()
	if mutate != nil {
		mutate(b)
	}
	res, err := b.BuildDomain()
	require.NoError(t, err)
	return res
}

func candidateFrom(res *reservation.Reservation) commands.DuplicateCandidate {
	return commands.DuplicateCandidate{
		HotelID:     res.HotelID(),
		Guest:       res.Guest(),
		Stay:        res.Stay(),
		Rooms:       res.Rooms(),
		TotalAmount: res.TotalAmount(),
		ReservedBy:  res.ReservedBy(),
	}
}

func TestDuplicateGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("identical resubmit matches the stored reservation", func(t *testing.T) {
		stored := storedReservation(t, nil)
		repo := &fakeReservationRepo{
			findDuplicatesFn: func(_ context.Context, _ commands.DuplicateFilter) ([]*reservation.Reservation, error) {
				return []*reservation.Reservation{stored}, nil
			},
		}
		guard := commands.NewDuplicateGuard(repo)

		found, err := guard.FindDuplicate(ctx, candidateFrom(stored))
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, stored.ConfirmationNumber(), found.ConfirmationNumber())
	})

	t.Run("prefilter carries the identity columns verbatim", func(t *testing.T) {
		stored := storedReservation(t, nil)
		repo := &fakeReservationRepo{}
		guard := commands.NewDuplicateGuard(repo)

		_, err := guard.FindDuplicate(ctx, candidateFrom(stored))
		require.NoError(t, err)
		require.True(t, repo.filterQueried)

		want := commands.DuplicateFilter{
			HotelID:     stored.HotelID(),
			Checkin:     stored.Stay().Checkin(),
			Checkout:    stored.Stay().Checkout(),
			TotalAmount: stored.TotalAmount(),
			GuestName:   "John Smith",
			GuestEmail:  "john.smith@example.com",
		}
		decimalEq := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
		if diff := cmp.Diff(want, repo.lastFilter, decimalEq); diff != "" {
			t.Errorf("filter mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("phone formatting does not defeat the guard", func(t *testing.T) {
		stored := storedReservation(t, func(b *builder.ReservationBuilder) {
			b.WithGuestPhone("+1 (555) 010-2030")
		})
		repo := &fakeReservationRepo{
			findDuplicatesFn: func(_ context.Context, _ commands.DuplicateFilter) ([]*reservation.Reservation, error) {
				return []*reservation.Reservation{stored}, nil
			},
		}
		guard := commands.NewDuplicateGuard(repo)

		candidate := candidateFrom(stored)
		candidate.Guest.Phone = "15550102030"

		found, err := guard.FindDuplicate(ctx, candidate)
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("room order does not defeat the guard", func(t *testing.T) {
		stored := storedReservation(t, func(b *builder.ReservationBuilder) {
			b.WithRooms([]reservation.RoomSelection{
				{RoomType: "double", DisplayName: "Double Room", Count: 1},
				{RoomType: "single", DisplayName: "Single Room", Count: 2},
			})
		})
		repo := &fakeReservationRepo{
			findDuplicatesFn: func(_ context.Context, _ commands.DuplicateFilter) ([]*reservation.Reservation, error) {
				return []*reservation.Reservation{stored}, nil
			},
		}
		guard := commands.NewDuplicateGuard(repo)

		candidate := candidateFrom(stored)
		candidate.Rooms = []reservation.RoomSelection{
			{RoomType: "single", DisplayName: "Single Room", Count: 2},
			{RoomType: "double", DisplayName: "Double Room", Count: 1},
		}

		found, err := guard.FindDuplicate(ctx, candidate)
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("different phone digits pass the guard", func(t *testing.T) {
		stored := storedReservation(t, nil)
		repo := &fakeReservationRepo{
			findDuplicatesFn: func(_ context.Context, _ commands.DuplicateFilter) ([]*reservation.Reservation, error) {
				return []*reservation.Reservation{stored}, nil
			},
		}
		guard := commands.NewDuplicateGuard(repo)

		candidate := candidateFrom(stored)
		candidate.Guest.Phone = "+1 (555) 010-9999"

		found, err := guard.FindDuplicate(ctx, candidate)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("different room counts pass the guard", func(t *testing.T) {
		stored := storedReservation(t, nil)
		repo := &fakeReservationRepo{
			findDuplicatesFn: func(_ context.Context, _ commands.DuplicateFilter) ([]*reservation.Reservation, error) {
				return []*reservation.Reservation{stored}, nil
			},
		}
		guard := commands.NewDuplicateGuard(repo)

		candidate := candidateFrom(stored)
		candidate.Rooms = []reservation.RoomSelection{
			{RoomType: "double", DisplayName: "Double Room", Count: 3},
		}

		found, err := guard.FindDuplicate(ctx, candidate)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("staff attribution must match exactly", func(t *testing.T) {
		staffID := uuid.New()
		stored := storedReservation(t, func(b *builder.ReservationBuilder) {
			b.WithReservedBy(staffID)
		})
		repo := &fakeReservationRepo{
			findDuplicatesFn: func(_ context.Context, _ commands.DuplicateFilter) ([]*reservation.Reservation, error) {
				return []*reservation.Reservation{stored}, nil
			},
		}
		guard := commands.NewDuplicateGuard(repo)

		candidate := candidateFrom(stored)
		candidate.ReservedBy = nil
		found, err := guard.FindDuplicate(ctx, candidate)
		require.NoError(t, err)
		assert.Nil(t, found, "guest-direct resubmit must not match a staff booking")

		otherStaff := uuid.New()
		candidate.ReservedBy = &otherStaff
		found, err = guard.FindDuplicate(ctx, candidate)
		require.NoError(t, err)
		assert.Nil(t, found, "a different staff member is a different booking")

		candidate.ReservedBy = &staffID
		found, err = guard.FindDuplicate(ctx, candidate)
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("empty prefilter means no duplicate", func(t *testing.T) {
		repo := &fakeReservationRepo{}
		guard := commands.NewDuplicateGuard(repo)

		found, err := guard.FindDuplicate(ctx, commands.DuplicateCandidate{
			HotelID: uuid.New(),
			Guest: reservation.GuestIdentity{
				Name:  "Jane Doe",
				Email: "jane@example.com",
				Phone: "+44 20 7946 0000",
			},
			Stay:        mustStay(t, "2025-07-01", "2025-07-03"),
			Rooms:       []reservation.RoomSelection{{RoomType: "single", DisplayName: "Single", Count: 1}},
			TotalAmount: decimal.RequireFromString("120.00"),
		})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func mustStay(t *testing.T, checkin, checkout string) reservation.StayWindow {
	t.Helper()
	in, err := time.Parse(time.DateOnly, checkin)
	require.NoError(t, err)
	out, err := time.Parse(time.DateOnly, checkout)
	require.NoError(t, err)
	stay, err := reservation.NewStayWindow(in, out)
	require.NoError(t, err)
	return stay
}
