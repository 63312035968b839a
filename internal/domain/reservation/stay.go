package reservation

import (
	"errors"
	"time"
)

var ErrInvalidStayWindow = errors.New("checkout must be after checkin")

// StayWindow is the guest's stay as calendar dates. Times of day never
// participate in identity or duplicate comparison.
type StayWindow struct {
	checkin  time.Time
	checkout time.Time
}

func NewStayWindow(checkin, checkout time.Time) (StayWindow, error) {
	ci := truncateToDate(checkin)
	co := truncateToDate(checkout)
	if !co.After(ci) {
		return StayWindow{}, ErrInvalidStayWindow
	}
	return StayWindow{checkin: ci, checkout: co}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s StayWindow) Checkin() time.Time  { return s.checkin }
func (s StayWindow) Checkout() time.Time { return s.checkout }

func (s StayWindow) Nights() int {
	return int(s.checkout.Sub(s.checkin) / (24 * time.Hour))
}

func (s StayWindow) Equal(other StayWindow) bool {
	return s.checkin.Equal(other.checkin) && s.checkout.Equal(other.checkout)
}
