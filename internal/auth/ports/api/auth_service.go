// Package api определяет прикладные интерфейсы сервиса аутентификации.
package api

import (
	"context"

	"tagnote/internal/auth/domain/entities"
	"tagnote/internal/auth/domain/services"
)

// AuthUseCase определяет операции регистрации и входа пользователей.
type AuthUseCase interface {
	SignUp(ctx context.Context, email, username, password, confirmPassword string) (*services.Session, error)

	Login(ctx context.Context, email, password string) (*services.Session, error)

	Profile(ctx context.Context, userID string) (*entities.User, error)
}
