package repository

import (
	"context"
	"errors"

	"hotelier/internal/domain/hotel"
	"hotelier/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type HotelRepository struct {
	db *pgxpool.Pool
}

func NewHotelRepository(db *pgxpool.Pool) *HotelRepository {
	return &HotelRepository{db: db}
}

func (r *HotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, slug, name, city, commission_rate::text FROM hotels WHERE id = $1`, id)
	return scanHotel(row)
}

func (r *HotelRepository) FindBySlug(ctx context.Context, slug string) (*hotel.Hotel, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, slug, name, city, commission_rate::text FROM hotels WHERE slug = $1`, slug)
	return scanHotel(row)
}

func (r *HotelRepository) List(ctx context.Context) ([]*hotel.Hotel, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, slug, name, city, commission_rate::text FROM hotels ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list hotels", err)
	}
	defer rows.Close()

	var hotels []*hotel.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read hotels", err)
	}
	return hotels, nil
}

func scanHotel(row rowScanner) (*hotel.Hotel, error) {
	var (
		id                uuid.UUID
		slug, name, city  string
		commissionRateStr string
	)

	if err := row.Scan(&id, &slug, &name, &city, &commissionRateStr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "hotel not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan hotel", err)
	}

	rate, err := decimal.NewFromString(commissionRateStr)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid commission rate", err)
	}

	return hotel.Reconstruct(id, slug, name, city, rate), nil
}
