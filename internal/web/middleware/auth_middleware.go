package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/internal/auth/ports/api"
	svc "tagnote/internal/auth/ports/services"
	"tagnote/internal/web/ports/cache"
	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoSessionCookie = "no session cookie provided"
	ErrorInvalidSession  = "invalid or expired session token"

	profileKeyPrefix = "profile:"
)

// NewAuthMiddleware создает промежуточное ПО, пропускающее только
// аутентифицированные запросы. Сессия читается из cookie; запрос без
// действующей сессии перенаправляется на страницу входа.
// Имя пользователя разрешается через кэш профилей, чтобы не ходить
// в базу на каждый запрос.
func NewAuthMiddleware(
	sessionSvc svc.SessionService,
	authUseCase api.AuthUseCase,
	profiles cache.Cache,
	cookieName string,
) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		token := strings.TrimSpace(ctx.Cookies(cookieName))
		if token == "" {
			log.Debug(requestCtx, ErrorNoSessionCookie)
			return ctx.Redirect().Status(fiber.StatusSeeOther).To("/login")
		}

		claims, err := sessionSvc.Validate(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidSession, zap.Error(err))
			ctx.ClearCookie(cookieName)
			return ctx.Redirect().Status(fiber.StatusSeeOther).To("/login")
		}

		username := resolveUsername(ctx, claims.UserID, claims.Username, authUseCase, profiles)

		ctx.Locals(LocalsSession, &SessionContext{
			UserID:   claims.UserID,
			Username: username,
		})

		return ctx.Next()
	}
}

// resolveUsername возвращает имя пользователя из кэша профилей,
// при промахе подогревает кэш из хранилища. Ошибки кэша и хранилища
// не фатальны: именем остается значение из токена.
func resolveUsername(ctx fiber.Ctx, userID, fallback string, authUseCase api.AuthUseCase, profiles cache.Cache) string {
	requestCtx := RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))

	key := profileKeyPrefix + userID

	cached, err := profiles.Get(requestCtx, key)
	if err == nil && cached != "" {
		return cached
	}
	if err != nil {
		log.Warn(requestCtx, "profile cache lookup failed", zap.Error(err))
		return fallback
	}

	user, err := authUseCase.Profile(requestCtx, userID)
	if err != nil {
		log.Warn(requestCtx, "failed to load profile for cache", zap.Error(err))
		return fallback
	}

	if err := profiles.Set(requestCtx, key, user.Username, 0); err != nil {
		log.Warn(requestCtx, "failed to cache profile", zap.Error(err))
	}

	return user.Username
}
