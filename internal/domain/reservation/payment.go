package reservation

import "errors"

var ErrInvalidPaymentMode = errors.New("invalid payment mode")

type PaymentMode string

const (
	PaymentModeNotPaid     PaymentMode = "not_paid"
	PaymentModeDepositPaid PaymentMode = "deposit_paid"
	PaymentModePaidOnline  PaymentMode = "paid_online"
	PaymentModePaidOffline PaymentMode = "paid_offline"
)

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch PaymentMode(s) {
	case PaymentModeNotPaid, PaymentModeDepositPaid, PaymentModePaidOnline, PaymentModePaidOffline:
		return PaymentMode(s), nil
	}
	return "", ErrInvalidPaymentMode
}

func (m PaymentMode) String() string { return string(m) }

// CardDetails is the plaintext card data. It exists only transiently: at
// creation before encryption and inside a capture call after decryption.
type CardDetails struct {
	Number string
	Expiry string
	CVV    string
	Holder string
}

func (c CardDetails) Complete() bool {
	return c.Number != "" && c.Expiry != "" && c.CVV != "" && c.Holder != ""
}

// EncryptedCard holds the ciphertexts persisted with the reservation.
// Write-once at creation.
type EncryptedCard struct {
	Number string
	Expiry string
	CVV    string
	Holder string
}

// PaymentRecord is the payment sub-record of a reservation.
//
// TransactionID is the gateway hold reference from the authorization stage.
// FinalCaptureTransactionID is the reference of the most recent settlement,
// whether against the hold or via the fallback charge.
type PaymentRecord struct {
	Card                      EncryptedCard
	TransactionID             string
	Captured                  bool
	Capturing                 bool
	ChargeCount               int
	FinalCaptureTransactionID string
}

// HasHold reports whether an authorization hold reference is on file.
func (p PaymentRecord) HasHold() bool {
	return p.TransactionID != ""
}
