package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrGuestIncomplete       = errors.New("guest name, email and phone are required")
	ErrInvalidTotalAmount    = errors.New("total amount must be positive")
	ErrNegativeCommission    = errors.New("commission must not be negative")
	ErrNonPositiveCharge     = errors.New("charge amount must be positive")
	ErrMissingCaptureRef     = errors.New("capture requires a gateway reference")
	ErrCapturedWithoutRef    = errors.New("captured reservation has no gateway reference")
	ErrConfirmationImmutable = errors.New("confirmation number is already assigned")
)

// Reservation is the aggregate root of the booking saga. All stages read or
// mutate it; the payment sub-record is populated once at creation and
// mutated thereafter only by capture attempts.
type Reservation struct {
	id                 uuid.UUID
	hotelID            uuid.UUID
	confirmationNumber ConfirmationNumber
	guest              GuestIdentity
	stay               StayWindow
	rooms              []RoomSelection
	totalAmount        decimal.Decimal
	paidAmount         decimal.Decimal
	commission         decimal.Decimal
	payment            PaymentRecord
	mode               PaymentMode
	reservedBy         *uuid.UUID
	createdAt          time.Time
	version            int64
}

type NewReservationParams struct {
	HotelID            uuid.UUID
	ConfirmationNumber ConfirmationNumber
	Guest              GuestIdentity
	Stay               StayWindow
	Rooms              []RoomSelection
	TotalAmount        decimal.Decimal
	Commission         decimal.Decimal
	Card               EncryptedCard
	HoldReference      string
	Mode               PaymentMode
	ReservedBy         *uuid.UUID
	CreatedAt          time.Time
}

func NewReservation(p NewReservationParams) (*Reservation, error) {
	if p.Guest.Name == "" || p.Guest.Email == "" || p.Guest.Phone == "" {
		return nil, ErrGuestIncomplete
	}
	if err := ValidateRooms(p.Rooms); err != nil {
		return nil, err
	}
	// A zero-value StayWindow never went through NewStayWindow.
	if !p.Stay.Checkout().After(p.Stay.Checkin()) {
		return nil, ErrInvalidStayWindow
	}
	if !p.TotalAmount.IsPositive() {
		return nil, ErrInvalidTotalAmount
	}
	if p.Commission.IsNegative() {
		return nil, ErrNegativeCommission
	}
	if _, err := ParseConfirmationNumber(p.ConfirmationNumber.String()); err != nil {
		return nil, err
	}
	if _, err := ParsePaymentMode(p.Mode.String()); err != nil {
		return nil, err
	}

	rooms := make([]RoomSelection, len(p.Rooms))
	copy(rooms, p.Rooms)

	return &Reservation{
		id:                 uuid.New(),
		hotelID:            p.HotelID,
		confirmationNumber: p.ConfirmationNumber,
		guest:              p.Guest,
		stay:               p.Stay,
		rooms:              rooms,
		totalAmount:        p.TotalAmount,
		paidAmount:         decimal.Zero,
		commission:         p.Commission,
		payment: PaymentRecord{
			Card:          p.Card,
			TransactionID: p.HoldReference,
		},
		mode:       p.Mode,
		reservedBy: p.ReservedBy,
		createdAt:  p.CreatedAt,
	}, nil
}

// Reconstruct rehydrates a reservation from persisted state, bypassing
// creation-time validation.
func Reconstruct(
	id, hotelID uuid.UUID,
	confirmationNumber ConfirmationNumber,
	guest GuestIdentity,
	stay StayWindow,
	rooms []RoomSelection,
	totalAmount, paidAmount, commission decimal.Decimal,
	payment PaymentRecord,
	mode PaymentMode,
	reservedBy *uuid.UUID,
	createdAt time.Time,
	version int64,
) *Reservation {
	return &Reservation{
		id:                 id,
		hotelID:            hotelID,
		confirmationNumber: confirmationNumber,
		guest:              guest,
		stay:               stay,
		rooms:              rooms,
		totalAmount:        totalAmount,
		paidAmount:         paidAmount,
		commission:         commission,
		payment:            payment,
		mode:               mode,
		reservedBy:         reservedBy,
		createdAt:          createdAt,
		version:            version,
	}
}

// RecordCapture applies one settled charge: the paid total accumulates, the
// attempt counter increments, and the settlement reference is recorded.
// Repeat captures are additive by design (deposit-then-balance flows); the
// paid total is allowed to pass the stay total, which callers log.
func (r *Reservation) RecordCapture(amount decimal.Decimal, gatewayRef string) error {
	if !amount.IsPositive() {
		return ErrNonPositiveCharge
	}
	if gatewayRef == "" {
		return ErrMissingCaptureRef
	}

	r.paidAmount = r.paidAmount.Add(amount)
	r.payment.Captured = true
	r.payment.Capturing = true
	r.payment.ChargeCount++
	r.payment.FinalCaptureTransactionID = gatewayRef
	return nil
}

// WouldExceedTotal reports whether settling amount would push the paid total
// past the stay total.
func (r *Reservation) WouldExceedTotal(amount decimal.Decimal) bool {
	return r.paidAmount.Add(amount).GreaterThan(r.totalAmount)
}

// CheckPaymentInvariants verifies the persisted-state rules: a captured
// record must carry a gateway reference and the paid total never goes
// negative.
func (r *Reservation) CheckPaymentInvariants() error {
	if r.payment.Captured && r.payment.TransactionID == "" && r.payment.FinalCaptureTransactionID == "" {
		return ErrCapturedWithoutRef
	}
	if r.paidAmount.IsNegative() {
		return errors.New("paid amount is negative")
	}
	return nil
}

func (r *Reservation) ID() uuid.UUID                          { return r.id }
func (r *Reservation) HotelID() uuid.UUID                     { return r.hotelID }
func (r *Reservation) ConfirmationNumber() ConfirmationNumber { return r.confirmationNumber }
func (r *Reservation) Guest() GuestIdentity                   { return r.guest }
func (r *Reservation) Stay() StayWindow                       { return r.stay }
func (r *Reservation) TotalAmount() decimal.Decimal           { return r.totalAmount }
func (r *Reservation) PaidAmount() decimal.Decimal            { return r.paidAmount }
func (r *Reservation) Commission() decimal.Decimal            { return r.commission }
func (r *Reservation) Payment() PaymentRecord                 { return r.payment }
func (r *Reservation) Mode() PaymentMode                      { return r.mode }
func (r *Reservation) ReservedBy() *uuid.UUID                 { return r.reservedBy }
func (r *Reservation) CreatedAt() time.Time                   { return r.createdAt }
func (r *Reservation) Version() int64                         { return r.version }

func (r *Reservation) Rooms() []RoomSelection {
	rooms := make([]RoomSelection, len(r.rooms))
	copy(rooms, r.rooms)
	return rooms
}

func (r *Reservation) RoomSignature() string {
	return RoomSignature(r.rooms)
}
