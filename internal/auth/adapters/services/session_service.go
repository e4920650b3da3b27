package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"tagnote/internal/auth/domain/services"
	svc "tagnote/internal/auth/ports/services"
	"tagnote/pkg/logger"
)

// Константы для работы с сессионными токенами.
const (
	methodIssue    = "Issue"
	methodValidate = "Validate"

	msgIssuingSession   = "issuing session token"
	msgValidatingToken  = "validating session token"
	msgSessionIssued    = "session token issued successfully"
	msgSessionValidated = "session token validated successfully"
	msgInvalidToken     = "invalid session token format"
	msgTokenExpired     = "session token has expired"

	errCtxIssuingToken    = "issuing session token"
	errCtxParsingToken    = "parsing session token"
	errCtxValidatingToken = "validating session token"
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims используется для адаптации между доменной моделью и библиотекой JWT.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ServiceSession реализует интерфейс SessionService поверх JWT HS256.
type ServiceSession struct {
	config services.SessionConfig
}

// NewSession создает новый экземпляр сессионного сервиса.
func NewSession(secretKey string, ttl time.Duration) svc.SessionService {
	return &ServiceSession{
		config: services.SessionConfig{
			SecretKey: []byte(secretKey),
			TTL:       ttl,
		},
	}
}

// Issue выпускает подписанный сессионный токен для пользователя.
func (s *ServiceSession) Issue(ctx context.Context, userID, username string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssue),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgIssuingSession)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxIssuingToken, services.ErrGeneratingSessionJWT)
	}

	now := time.Now()
	expiresAt := now.Add(s.config.TTL)

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, "error signing session token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxIssuingToken, services.ErrGeneratingSessionJWT)
	}

	log.Debug(ctx, msgSessionIssued)
	return signed, expiresAt, nil
}

// Validate проверяет сессионный токен и возвращает его claims.
func (s *ServiceSession) Validate(ctx context.Context, tokenString string) (*services.SessionClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidate))
	log.Debug(ctx, msgValidatingToken)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, t.Header["alg"])
		}
		return s.config.SecretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrExpiredSessionToken)
		}
		log.Debug(ctx, msgInvalidToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxParsingToken, services.ErrInvalidSessionToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		log.Debug(ctx, msgInvalidToken)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrInvalidSessionToken)
	}

	var issuedAt, expiresAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	log.Debug(ctx, msgSessionValidated, zap.String("userID", claims.UserID))

	return &services.SessionClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
