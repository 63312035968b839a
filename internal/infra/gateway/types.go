package gateway

import (
	"context"
	"errors"

	"hotelier/internal/domain/reservation"

	"github.com/shopspring/decimal"
)

var (
	// ErrHoldNotFound is the "transaction cannot be found" class of gateway
	// response: the authorization hold expired or was purged. It triggers the
	// fallback charge and is never surfaced to API callers.
	ErrHoldNotFound = errors.New("authorization hold not found at gateway")

	// ErrUnreachable covers transport failures and timeouts after the single
	// bounded retry.
	ErrUnreachable = errors.New("payment gateway unreachable")
)

// DeclinedError is a business decline from the gateway. The reason is
// preserved verbatim for the caller and never retried.
type DeclinedError struct {
	Operation string
	Reason    string
}

func (e *DeclinedError) Error() string {
	return "gateway declined " + e.Operation + ": " + e.Reason
}

func IsDeclined(err error) bool {
	var d *DeclinedError
	return errors.As(err, &d)
}

// Hold is the result of an authorize-only call: capacity reserved on the
// card, no funds moved.
type Hold struct {
	Reference string
}

// Settlement is the result of a funds-moving call.
type Settlement struct {
	Reference string
}

// PaymentGateway is the outbound payment protocol the saga depends on:
// authorize-only, capture-against-hold, and the direct authorize-and-capture
// fallback. Amounts are decimal with two fractional digits in the merchant's
// settlement currency.
type PaymentGateway interface {
	AuthorizeOnly(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*Hold, error)
	CaptureHold(ctx context.Context, holdRef string, amount decimal.Decimal) (*Settlement, error)
	AuthorizeAndCapture(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*Settlement, error)
}
