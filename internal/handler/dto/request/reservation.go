package request

import (
	"strings"
	"time"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RoomSelectionRequest struct {
	RoomType    string `json:"room_type" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Count       int    `json:"count" binding:"required,min=1"`
}

type GuestRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Nationality string `json:"nationality,omitempty"`
}

type CardRequest struct {
	Number string `json:"number" binding:"required"`
	Expiry string `json:"expiry" binding:"required"`
	CVV    string `json:"cvv" binding:"required"`
	Holder string `json:"holder" binding:"required"`
}

type CreateReservationRequest struct {
	HotelID     uuid.UUID              `json:"hotel_id" binding:"required"`
	Guest       GuestRequest           `json:"guest" binding:"required"`
	Checkin     time.Time              `json:"checkin_date" binding:"required" time_format:"2006-01-02"`
	Checkout    time.Time              `json:"checkout_date" binding:"required" time_format:"2006-01-02"`
	Rooms       []RoomSelectionRequest `json:"rooms" binding:"required,min=1,dive"`
	TotalAmount string                 `json:"total_amount" binding:"required"`
	Card        CardRequest            `json:"card" binding:"required"`
	PaymentMode string                 `json:"payment_mode,omitempty"`
}

// ToParams converts the wire request into command input. Amount and payment
// mode parsing happen here so the command layer only sees typed values.
func (r CreateReservationRequest) ToParams(reservedBy *uuid.UUID) (commands.CreateReservationParams, error) {
	total, err := decimal.NewFromString(strings.TrimSpace(r.TotalAmount))
	if err != nil {
		return commands.CreateReservationParams{}, err
	}

	mode := reservation.PaymentModeNotPaid
	if r.PaymentMode != "" {
		mode, err = reservation.ParsePaymentMode(r.PaymentMode)
		if err != nil {
			return commands.CreateReservationParams{}, err
		}
	}

	rooms := make([]reservation.RoomSelection, len(r.Rooms))
	for i, room := range r.Rooms {
		rooms[i] = reservation.RoomSelection{
			RoomType:    room.RoomType,
			DisplayName: room.DisplayName,
			Count:       room.Count,
		}
	}

	return commands.CreateReservationParams{
		HotelID: r.HotelID,
		Guest: reservation.GuestIdentity{
			Name:        strings.TrimSpace(r.Guest.Name),
			Email:       strings.TrimSpace(r.Guest.Email),
			Phone:       strings.TrimSpace(r.Guest.Phone),
			Nationality: strings.TrimSpace(r.Guest.Nationality),
		},
		Checkin:     r.Checkin,
		Checkout:    r.Checkout,
		Rooms:       rooms,
		TotalAmount: total,
		Card: reservation.CardDetails{
			Number: strings.TrimSpace(r.Card.Number),
			Expiry: strings.TrimSpace(r.Card.Expiry),
			CVV:    strings.TrimSpace(r.Card.CVV),
			Holder: strings.TrimSpace(r.Card.Holder),
		},
		Mode:       mode,
		ReservedBy: reservedBy,
	}, nil
}

type CaptureRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (r CaptureRequest) ParseAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(r.Amount))
}
