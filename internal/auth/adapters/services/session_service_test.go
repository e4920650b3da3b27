package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapters "tagnote/internal/auth/adapters/services"
	"tagnote/internal/auth/domain/services"
	"tagnote/pkg/logger"
)

const testSecret = "test-secret-key"

func sessionTestContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestServiceSession_IssueAndValidate(t *testing.T) {
	ctx := sessionTestContext(t)
	svc := adapters.NewSession(testSecret, time.Hour)

	t.Run("Выпущенный токен проходит проверку", func(t *testing.T) {
		token, expiresAt, err := svc.Issue(ctx, "user-1", "alice")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := svc.Validate(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
	})

	t.Run("Пустой секретный ключ не позволяет выпустить токен", func(t *testing.T) {
		emptySvc := adapters.NewSession("", time.Hour)

		token, _, err := emptySvc.Issue(ctx, "user-1", "alice")

		assert.Empty(t, token)
		assert.ErrorIs(t, err, services.ErrGeneratingSessionJWT)
	})
}

func TestServiceSession_Validate(t *testing.T) {
	ctx := sessionTestContext(t)
	svc := adapters.NewSession(testSecret, time.Hour)

	t.Run("Мусорная строка не проходит проверку", func(t *testing.T) {
		claims, err := svc.Validate(ctx, "not-a-token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, services.ErrInvalidSessionToken)
	})

	t.Run("Просроченный токен дает отдельную ошибку", func(t *testing.T) {
		expiredSvc := adapters.NewSession(testSecret, -time.Hour)

		token, _, err := expiredSvc.Issue(ctx, "user-1", "alice")
		require.NoError(t, err)

		claims, err := svc.Validate(ctx, token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, services.ErrExpiredSessionToken)
	})

	t.Run("Токен с чужим ключом не проходит проверку", func(t *testing.T) {
		otherSvc := adapters.NewSession("other-secret", time.Hour)

		token, _, err := otherSvc.Issue(ctx, "user-1", "alice")
		require.NoError(t, err)

		claims, err := svc.Validate(ctx, token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, services.ErrInvalidSessionToken)
	})

	t.Run("Токен с другим алгоритмом подписи отклоняется", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": "user-1",
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := svc.Validate(ctx, token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, services.ErrInvalidSessionToken)
	})

	t.Run("Токен без идентификатора пользователя отклоняется", func(t *testing.T) {
		empty := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		token, err := empty.SignedString([]byte(testSecret))
		require.NoError(t, err)

		claims, err := svc.Validate(ctx, token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, services.ErrInvalidSessionToken)
	})
}
