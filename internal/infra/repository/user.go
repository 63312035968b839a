package repository

import (
	"context"
	"errors"

	"hotelier/internal/domain/user"
	"hotelier/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var (
		id           uuid.UUID
		storedEmail  string
		passwordHash string
		role         string
	)

	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role FROM users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&id, &storedEmail, &passwordHash, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find user", err)
	}

	parsedRole, err := user.ParseRole(role)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid user role", err)
	}

	return user.Reconstruct(id, storedEmail, passwordHash, parsedRole), nil
}
