package response

import "github.com/google/uuid"

type LoginResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
}
