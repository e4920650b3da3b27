// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Ключи значений запроса в fiber.Locals.
const (
	LocalsSession        = "session"
	LocalsRequestContext = "requestContext"
)

// SessionContext описывает аутентифицированного пользователя текущего запроса.
type SessionContext struct {
	UserID   string
	Username string
}

// CurrentSession возвращает сессию текущего запроса, если она установлена.
func CurrentSession(ctx fiber.Ctx) (*SessionContext, bool) {
	session, ok := ctx.Locals(LocalsSession).(*SessionContext)
	return session, ok && session != nil
}

// RequestContext возвращает контекст запроса с логгером и идентификатором запроса.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(LocalsRequestContext).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}
