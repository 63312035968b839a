package repository

import (
	"context"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/infra"
	"hotelier/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationReadStore serves the read side: domain rows mapped into view
// structs, card ciphertexts left behind.
type ReservationReadStore struct {
	db *pgxpool.Pool
}

func NewReservationReadStore(db *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (s *ReservationReadStore) GetByConfirmationNumber(ctx context.Context, number string) (*queries.ReservationView, error) {
	parsed, err := reservation.ParseConfirmationNumber(number)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "malformed confirmation number", err)
	}

	row := s.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE confirmation_number = $1`, parsed.String())
	res, err := scanReservation(row)
	if err != nil {
		return nil, err
	}
	return queries.NewReservationView(res), nil
}

func (s *ReservationReadStore) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*queries.ReservationListItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE hotel_id = $1
		ORDER BY created_at DESC
		LIMIT 200`, hotelID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list reservations", err)
	}
	defer rows.Close()

	var items []*queries.ReservationListItem
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, queries.NewReservationListItem(res))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read reservations", err)
	}
	return items, nil
}

// HotelReadStore adapts the hotel repository to the query interfaces.
type HotelReadStore struct {
	repo *HotelRepository
}

func NewHotelReadStore(repo *HotelRepository) *HotelReadStore {
	return &HotelReadStore{repo: repo}
}

func (s *HotelReadStore) List(ctx context.Context) ([]*queries.HotelView, error) {
	hotels, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*queries.HotelView, len(hotels))
	for i, h := range hotels {
		views[i] = queries.NewHotelView(h)
	}
	return views, nil
}

func (s *HotelReadStore) GetBySlug(ctx context.Context, slug string) (*queries.HotelView, error) {
	h, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return queries.NewHotelView(h), nil
}
