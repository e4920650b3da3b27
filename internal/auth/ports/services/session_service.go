package services

import (
	"context"
	"time"

	"tagnote/internal/auth/domain/services"
)

// SessionService определяет интерфейс для операций с сессионными токенами.
type SessionService interface {
	Issue(ctx context.Context, userID, username string) (string, time.Time, error)

	Validate(ctx context.Context, token string) (*services.SessionClaims, error)
}
