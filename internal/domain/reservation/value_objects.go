package reservation

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrInvalidConfirmationNumber = errors.New("confirmation number must be 10 digits")
	ErrEmptyRoomSelection        = errors.New("room selection must not be empty")
	ErrInvalidRoomCount          = errors.New("room count must be positive")
)

// ConfirmationNumber is the unique human-facing reservation identifier,
// a fixed-width numeric string. Immutable once assigned.
type ConfirmationNumber string

const ConfirmationNumberLength = 10

var confirmationSpace = func() *big.Int {
	n := big.NewInt(10)
	return n.Exp(n, big.NewInt(ConfirmationNumberLength), nil)
}()

// NewRandomConfirmationNumber draws a uniformly random value from the
// 10-digit space, zero-padded. Uniqueness against the store is the
// allocator's job, not this function's.
func NewRandomConfirmationNumber() (ConfirmationNumber, error) {
	n, err := rand.Int(rand.Reader, confirmationSpace)
	if err != nil {
		return "", err
	}

	s := n.String()
	if pad := ConfirmationNumberLength - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return ConfirmationNumber(s), nil
}

func ParseConfirmationNumber(s string) (ConfirmationNumber, error) {
	if len(s) != ConfirmationNumberLength {
		return "", ErrInvalidConfirmationNumber
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidConfirmationNumber
		}
	}
	return ConfirmationNumber(s), nil
}

func (c ConfirmationNumber) String() string { return string(c) }

// GuestIdentity carries the guest fields used for duplicate fingerprinting
// and display. Never a primary key.
type GuestIdentity struct {
	Name        string
	Email       string
	Phone       string
	Nationality string
}

func (g GuestIdentity) Normalized() GuestIdentity {
	return GuestIdentity{
		Name:        NormalizeName(g.Name),
		Email:       NormalizeEmail(g.Email),
		Phone:       NormalizePhone(g.Phone),
		Nationality: NormalizeNationality(g.Nationality),
	}
}

// NormalizeName lowercases and collapses interior whitespace runs to a
// single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeNationality(nationality string) string {
	return strings.ToLower(strings.TrimSpace(nationality))
}

// NormalizePhone folds any decimal digit rune to its ASCII form and strips
// everything else. Idempotent: the output contains only ASCII digits, which
// pass through unchanged on a second call.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))

	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune('0' + digitValue(r))
		}
	}

	return b.String()
}

// digitValue maps a decimal digit rune to its 0..9 offset. Decimal digits
// occupy contiguous runs of ten with the zero glyph first, so the offset is
// the distance to the start of the run.
func digitValue(r rune) rune {
	zero := r
	for unicode.IsDigit(zero - 1) {
		zero--
	}
	return r - zero
}

// RoomSelection is one requested room line. Order of lines never matters for
// identity; only the aggregated multiset does.
type RoomSelection struct {
	RoomType    string
	DisplayName string
	Count       int
}

func ValidateRooms(rooms []RoomSelection) error {
	if len(rooms) == 0 {
		return ErrEmptyRoomSelection
	}
	for _, r := range rooms {
		if r.Count <= 0 {
			return ErrInvalidRoomCount
		}
	}
	return nil
}

// RoomSignature builds the canonical order-independent encoding of a room
// selection: counts aggregated per lowercased (type, display name) key, keys
// sorted, joined as "type|name=count;...".
func RoomSignature(rooms []RoomSelection) string {
	counts := make(map[string]int, len(rooms))
	for _, r := range rooms {
		key := strings.ToLower(strings.TrimSpace(r.RoomType)) + "|" + strings.ToLower(strings.TrimSpace(r.DisplayName))
		counts[key] += r.Count
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.Itoa(counts[k])
	}
	return strings.Join(parts, ";")
}
