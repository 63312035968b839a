package commands

import (
	"context"

	"hotelier/internal/infra"
	"hotelier/internal/pkg/errs"
	"hotelier/internal/pkg/jwt"
	"hotelier/internal/pkg/password"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errs.New("invalid email or password")

type LoginResult struct {
	Token  string
	UserID uuid.UUID
	Role   string
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	userRepo   UserRepository
	jwtService *jwt.Service
}

func NewAuthCommands(userRepo UserRepository, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{userRepo: userRepo, jwtService: jwtService}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	staff, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Wrap(err, "failed to find user")
	}

	if err := password.ComparePassword(staff.PasswordHash(), rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(staff.ID(), staff.Role().String())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	return &LoginResult{Token: token, UserID: staff.ID(), Role: staff.Role().String()}, nil
}
