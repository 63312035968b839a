package response

import (
	"time"

	"hotelier/internal/usecase/queries"

	"github.com/google/uuid"
)

type RoomResponse struct {
	RoomType    string `json:"roomType"`
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
}

type ReservationResponse struct {
	ID                 uuid.UUID      `json:"id"`
	HotelID            uuid.UUID      `json:"hotelId"`
	ConfirmationNumber string         `json:"confirmationNumber"`
	GuestName          string         `json:"guestName"`
	GuestEmail         string         `json:"guestEmail"`
	GuestPhone         string         `json:"guestPhone"`
	GuestNationality   string         `json:"guestNationality,omitempty"`
	CheckinDate        string         `json:"checkinDate"`
	CheckoutDate       string         `json:"checkoutDate"`
	Rooms              []RoomResponse `json:"rooms"`
	TotalAmount        string         `json:"totalAmount"`
	PaidAmount         string         `json:"paidAmount"`
	Commission         string         `json:"commission"`
	PaymentMode        string         `json:"paymentMode"`
	Captured           bool           `json:"captured"`
	ChargeCount        int            `json:"chargeCount"`
	ReservedBy         *uuid.UUID     `json:"reservedBy,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
}

type ReservationListResponse struct {
	ID                 uuid.UUID `json:"id"`
	ConfirmationNumber string    `json:"confirmationNumber"`
	GuestName          string    `json:"guestName"`
	CheckinDate        string    `json:"checkinDate"`
	CheckoutDate       string    `json:"checkoutDate"`
	TotalAmount        string    `json:"totalAmount"`
	PaidAmount         string    `json:"paidAmount"`
	Captured           bool      `json:"captured"`
	CreatedAt          time.Time `json:"createdAt"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	rooms := make([]RoomResponse, len(view.Rooms))
	for i, room := range view.Rooms {
		rooms[i] = RoomResponse{
			RoomType:    room.RoomType,
			DisplayName: room.DisplayName,
			Count:       room.Count,
		}
	}

	return &ReservationResponse{
		ID:                 view.ID,
		HotelID:            view.HotelID,
		ConfirmationNumber: view.ConfirmationNumber,
		GuestName:          view.GuestName,
		GuestEmail:         view.GuestEmail,
		GuestPhone:         view.GuestPhone,
		GuestNationality:   view.GuestNationality,
		CheckinDate:        view.Checkin.Format(time.DateOnly),
		CheckoutDate:       view.Checkout.Format(time.DateOnly),
		Rooms:              rooms,
		TotalAmount:        view.TotalAmount.StringFixed(2),
		PaidAmount:         view.PaidAmount.StringFixed(2),
		Commission:         view.Commission.StringFixed(2),
		PaymentMode:        view.PaymentMode,
		Captured:           view.Captured,
		ChargeCount:        view.ChargeCount,
		ReservedBy:         view.ReservedBy,
		CreatedAt:          view.CreatedAt,
	}
}

func FromReservationListItem(item *queries.ReservationListItem) *ReservationListResponse {
	return &ReservationListResponse{
		ID:                 item.ID,
		ConfirmationNumber: item.ConfirmationNumber,
		GuestName:          item.GuestName,
		CheckinDate:        item.Checkin.Format(time.DateOnly),
		CheckoutDate:       item.Checkout.Format(time.DateOnly),
		TotalAmount:        item.TotalAmount.StringFixed(2),
		PaidAmount:         item.PaidAmount.StringFixed(2),
		Captured:           item.Captured,
		CreatedAt:          item.CreatedAt,
	}
}
