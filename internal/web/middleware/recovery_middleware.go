package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// NewRecoveryMiddleware создает промежуточное ПО для восстановления после паники.
// Пользователю отдается страница 500, детали остаются в логе.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx)

		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				log.Error(requestCtx, "Server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(stack)),
				)

				if err := ctx.Status(fiber.StatusInternalServerError).Render("500.html", fiber.Map{}); err != nil {
					log.Error(requestCtx, "Failed to render error page after panic", zap.Error(err))
				}
			}
		}()

		return ctx.Next()
	}
}
