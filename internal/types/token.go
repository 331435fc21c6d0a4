package types

import (
	"github.com/google/uuid"
)

// TokenClaims is the application-level view of a validated JWT.
type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}
