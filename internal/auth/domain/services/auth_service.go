package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailAlreadyExists   = errors.New("user with this email already exists")
	ErrInvalidSessionToken  = errors.New("invalid session token")
	ErrExpiredSessionToken  = errors.New("session token has expired")
	ErrGeneratingSessionJWT = errors.New("failed to generate session JWT")
)

// Session представляет установленную сессию пользователя.
type Session struct {
	UserID    string
	Username  string
	Token     string
	ExpiresAt time.Time
}

// SessionClaims определяет данные, переносимые сессионным токеном.
type SessionClaims struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// SessionConfig содержит настройки для сессионного сервиса.
type SessionConfig struct {
	SecretKey []byte
	TTL       time.Duration
}
