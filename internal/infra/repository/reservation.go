package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/infra"
	"hotelier/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const pgUniqueViolation = "23505"

type ReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type roomRow struct {
	RoomType    string `json:"room_type"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

const reservationColumns = `
	id, hotel_id, confirmation_number,
	guest_name, guest_email, guest_phone, guest_nationality,
	checkin_date, checkout_date, rooms,
	total_amount::text, paid_amount::text, commission::text,
	card_number_enc, card_expiry_enc, card_cvv_enc, card_holder_enc,
	transaction_id, captured, capturing, charge_count, final_capture_transaction_id,
	payment_mode, reserved_by, created_at, version`

// Insert persists a new reservation. The UNIQUE constraint on
// confirmation_number is the authoritative uniqueness check; a collision
// surfaces as KindDuplicateKey and the allocator redraws.
func (r *ReservationRepository) Insert(ctx context.Context, res *reservation.Reservation) error {
	rooms, err := marshalRooms(res.Rooms())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode rooms", err)
	}

	card := res.Payment().Card
	_, err = r.db.Exec(ctx, `
		INSERT INTO reservations (
			id, hotel_id, confirmation_number,
			guest_name, guest_email, guest_phone, guest_phone_normalized, guest_nationality,
			checkin_date, checkout_date, rooms, room_signature,
			total_amount, paid_amount, commission,
			card_number_enc, card_expiry_enc, card_cvv_enc, card_holder_enc,
			transaction_id, captured, capturing, charge_count, final_capture_transaction_id,
			payment_mode, reserved_by, created_at, version
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, $23, $24,
			$25, $26, $27, 1
		)`,
		res.ID(), res.HotelID(), res.ConfirmationNumber().String(),
		res.Guest().Name, res.Guest().Email, res.Guest().Phone,
		reservation.NormalizePhone(res.Guest().Phone), res.Guest().Nationality,
		res.Stay().Checkin(), res.Stay().Checkout(), rooms, res.RoomSignature(),
		res.TotalAmount(), res.PaidAmount(), res.Commission(),
		card.Number, card.Expiry, card.CVV, card.Holder,
		res.Payment().TransactionID, res.Payment().Captured, res.Payment().Capturing,
		res.Payment().ChargeCount, res.Payment().FinalCaptureTransactionID,
		res.Mode().String(), res.ReservedBy(), res.CreatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "confirmation number collision", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	return scanReservation(row)
}

func (r *ReservationRepository) FindByConfirmationNumber(ctx context.Context, number reservation.ConfirmationNumber) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE confirmation_number = $1`, number.String())
	return scanReservation(row)
}

// ConfirmationNumberExists is the allocator's advisory pre-check; the insert
// constraint remains the hard guarantee.
func (r *ReservationRepository) ConfirmationNumberExists(ctx context.Context, number reservation.ConfirmationNumber) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE confirmation_number = $1)`,
		number.String(),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to probe confirmation number", err)
	}
	return exists, nil
}

func (r *ReservationRepository) FindDuplicateCandidates(ctx context.Context, filter commands.DuplicateFilter) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE hotel_id = $1
		  AND checkin_date = $2
		  AND checkout_date = $3
		  AND total_amount = $4
		  AND lower(guest_email) = lower($5)
		  AND lower(guest_name) = lower($6)
		ORDER BY created_at DESC
		LIMIT 50`,
		filter.HotelID, filter.Checkin, filter.Checkout,
		filter.TotalAmount, filter.GuestEmail, filter.GuestName,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query duplicate candidates", err)
	}
	defer rows.Close()

	var candidates []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read duplicate candidates", err)
	}
	return candidates, nil
}

// UpdatePaymentCaptured is the read-modify-write tail of a capture: it only
// lands when the row still carries the version the saga read, otherwise the
// caller gets KindConflict and retries against fresh state.
func (r *ReservationRepository) UpdatePaymentCaptured(ctx context.Context, res *reservation.Reservation, expectedVersion int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations SET
			paid_amount = $2,
			captured = $3,
			capturing = $4,
			charge_count = $5,
			final_capture_transaction_id = $6,
			version = version + 1
		WHERE id = $1 AND version = $7`,
		res.ID(), res.PaidAmount(), res.Payment().Captured, res.Payment().Capturing,
		res.Payment().ChargeCount, res.Payment().FinalCaptureTransactionID,
		expectedVersion,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if probeErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)`, res.ID()).Scan(&exists); probeErr != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to probe reservation", probeErr)
		}
		if !exists {
			return infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
		}
		return infra.WrapRepoErr(infra.KindConflict, "reservation version changed", nil)
	}
	return nil
}

func marshalRooms(rooms []reservation.RoomSelection) ([]byte, error) {
	out := make([]roomRow, len(rooms))
	for i, room := range rooms {
		out[i] = roomRow{RoomType: room.RoomType, DisplayName: room.DisplayName, Count: room.Count}
	}
	return json.Marshal(out)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*reservation.Reservation, error) {
	var (
		id, hotelID        uuid.UUID
		confirmationNumber string
		guest              reservation.GuestIdentity
		checkin, checkout  time.Time
		roomsJSON          []byte
		totalStr, paidStr  string
		commissionStr      string
		card               reservation.EncryptedCard
		payment            reservation.PaymentRecord
		mode               string
		reservedBy         *uuid.UUID
		createdAt          time.Time
		version            int64
	)

	err := row.Scan(
		&id, &hotelID, &confirmationNumber,
		&guest.Name, &guest.Email, &guest.Phone, &guest.Nationality,
		&checkin, &checkout, &roomsJSON,
		&totalStr, &paidStr, &commissionStr,
		&card.Number, &card.Expiry, &card.CVV, &card.Holder,
		&payment.TransactionID, &payment.Captured, &payment.Capturing,
		&payment.ChargeCount, &payment.FinalCaptureTransactionID,
		&mode, &reservedBy, &createdAt, &version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan reservation", err)
	}

	var roomRows []roomRow
	if err := json.Unmarshal(roomsJSON, &roomRows); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode rooms", err)
	}
	rooms := make([]reservation.RoomSelection, len(roomRows))
	for i, room := range roomRows {
		rooms[i] = reservation.RoomSelection{RoomType: room.RoomType, DisplayName: room.DisplayName, Count: room.Count}
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid total amount", err)
	}
	paid, err := decimal.NewFromString(paidStr)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid paid amount", err)
	}
	commission, err := decimal.NewFromString(commissionStr)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid commission", err)
	}

	stay, err := reservation.NewStayWindow(checkin, checkout)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid stay window", err)
	}

	payment.Card = card

	return reservation.Reconstruct(
		id, hotelID,
		reservation.ConfirmationNumber(confirmationNumber),
		guest, stay, rooms,
		total, paid, commission,
		payment,
		reservation.PaymentMode(mode),
		reservedBy, createdAt, version,
	), nil
}
