package queries

import (
	"context"
	"time"

	"hotelier/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationView is the full read model handed to API callers. Card
// ciphertexts never leave the store through a view.
type ReservationView struct {
	ID                 uuid.UUID
	HotelID            uuid.UUID
	ConfirmationNumber string
	GuestName          string
	GuestEmail         string
	GuestPhone         string
	GuestNationality   string
	Checkin            time.Time
	Checkout           time.Time
	Rooms              []RoomView
	TotalAmount        decimal.Decimal
	PaidAmount         decimal.Decimal
	Commission         decimal.Decimal
	PaymentMode        string
	Captured           bool
	ChargeCount        int
	ReservedBy         *uuid.UUID
	CreatedAt          time.Time
}

type RoomView struct {
	RoomType    string
	DisplayName string
	Count       int
}

type ReservationListItem struct {
	ID                 uuid.UUID
	ConfirmationNumber string
	GuestName          string
	Checkin            time.Time
	Checkout           time.Time
	TotalAmount        decimal.Decimal
	PaidAmount         decimal.Decimal
	Captured           bool
	CreatedAt          time.Time
}

type ReservationQueries interface {
	GetByConfirmationNumber(ctx context.Context, number string) (*ReservationView, error)
	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*ReservationListItem, error)
}

func NewReservationView(res *reservation.Reservation) *ReservationView {
	rooms := make([]RoomView, 0, len(res.Rooms()))
	for _, room := range res.Rooms() {
		rooms = append(rooms, RoomView{
			RoomType:    room.RoomType,
			DisplayName: room.DisplayName,
			Count:       room.Count,
		})
	}

	return &ReservationView{
		ID:                 res.ID(),
		HotelID:            res.HotelID(),
		ConfirmationNumber: res.ConfirmationNumber().String(),
		GuestName:          res.Guest().Name,
		GuestEmail:         res.Guest().Email,
		GuestPhone:         res.Guest().Phone,
		GuestNationality:   res.Guest().Nationality,
		Checkin:            res.Stay().Checkin(),
		Checkout:           res.Stay().Checkout(),
		Rooms:              rooms,
		TotalAmount:        res.TotalAmount(),
		PaidAmount:         res.PaidAmount(),
		Commission:         res.Commission(),
		PaymentMode:        res.Mode().String(),
		Captured:           res.Payment().Captured,
		ChargeCount:        res.Payment().ChargeCount,
		ReservedBy:         res.ReservedBy(),
		CreatedAt:          res.CreatedAt(),
	}
}

func NewReservationListItem(res *reservation.Reservation) *ReservationListItem {
	return &ReservationListItem{
		ID:                 res.ID(),
		ConfirmationNumber: res.ConfirmationNumber().String(),
		GuestName:          res.Guest().Name,
		Checkin:            res.Stay().Checkin(),
		Checkout:           res.Stay().Checkout(),
		TotalAmount:        res.TotalAmount(),
		PaidAmount:         res.PaidAmount(),
		Captured:           res.Payment().Captured,
		CreatedAt:          res.CreatedAt(),
	}
}
