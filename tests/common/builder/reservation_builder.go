package builder

import (
	"time"

	"hotelier/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationBuilder produces valid reservation inputs that individual tests
// mutate into the shape they need.
type ReservationBuilder struct {
	params reservation.NewReservationParams
}

func NewReservationBuilder() *ReservationBuilder {
	stay, err := reservation.NewStayWindow(
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		panic(err)
	}

	return &ReservationBuilder{
		params: reservation.NewReservationParams{
			HotelID:            uuid.MustParse("6b3f8c1a-9a74-4a8e-b3a1-2f8e4f1c0d42"),
			ConfirmationNumber: reservation.ConfirmationNumber("4820173659"),
			Guest: reservation.GuestIdentity{
				Name:        "John Smith",
				Email:       "john.smith@example.com",
				Phone:       "+1 (555) 010-2030",
				Nationality: "US",
			},
			Stay: stay,
			Rooms: []reservation.RoomSelection{
				{RoomType: "double", DisplayName: "Double Room", Count: 2},
			},
			TotalAmount: decimal.RequireFromString("300.00"),
			Commission:  decimal.RequireFromString("30.00"),
			Card: reservation.EncryptedCard{
				Number: "enc:number",
				Expiry: "enc:expiry",
				CVV:    "enc:cvv",
				Holder: "enc:holder",
			},
			HoldReference: "hold-abc123",
			Mode:          reservation.PaymentModeNotPaid,
			CreatedAt:     time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC),
		},
	}
}

func (b *ReservationBuilder) WithConfirmationNumber(n string) *ReservationBuilder {
	b.params.ConfirmationNumber = reservation.ConfirmationNumber(n)
	return b
}

func (b *ReservationBuilder) WithGuest(g reservation.GuestIdentity) *ReservationBuilder {
	b.params.Guest = g
	return b
}

func (b *ReservationBuilder) WithGuestName(name string) *ReservationBuilder {
	b.params.Guest.Name = name
	return b
}

func (b *ReservationBuilder) WithGuestPhone(phone string) *ReservationBuilder {
	b.params.Guest.Phone = phone
	return b
}

func (b *ReservationBuilder) WithStay(checkin, checkout time.Time) *ReservationBuilder {
	stay, err := reservation.NewStayWindow(checkin, checkout)
	if err != nil {
		panic(err)
	}
	b.params.Stay = stay
	return b
}

func (b *ReservationBuilder) WithZeroStay() *ReservationBuilder {
	b.params.Stay = reservation.StayWindow{}
	return b
}

func (b *ReservationBuilder) WithRooms(rooms []reservation.RoomSelection) *ReservationBuilder {
	b.params.Rooms = rooms
	return b
}

func (b *ReservationBuilder) WithTotalAmount(amount string) *ReservationBuilder {
	b.params.TotalAmount = decimal.RequireFromString(amount)
	return b
}

func (b *ReservationBuilder) WithCommission(amount string) *ReservationBuilder {
	b.params.Commission = decimal.RequireFromString(amount)
	return b
}

func (b *ReservationBuilder) WithHoldReference(ref string) *ReservationBuilder {
	b.params.HoldReference = ref
	return b
}

func (b *ReservationBuilder) WithMode(mode reservation.PaymentMode) *ReservationBuilder {
	b.params.Mode = mode
	return b
}

func (b *ReservationBuilder) WithReservedBy(staffID uuid.UUID) *ReservationBuilder {
	b.params.ReservedBy = &staffID
	return b
}

func (b *ReservationBuilder) BuildParams() reservation.NewReservationParams {
	return b.params
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	return reservation.NewReservation(b.params)
}
