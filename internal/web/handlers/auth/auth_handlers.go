// Package auth содержит HTTP обработчики регистрации, входа и выхода.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/internal/auth/domain/entities"
	"tagnote/internal/auth/domain/services"
	"tagnote/internal/auth/ports/api"
	"tagnote/internal/config"
	"tagnote/internal/web/dto"
	"tagnote/internal/web/middleware"
	"tagnote/internal/web/ports/cache"
	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerSignUp = "auth handler: sign up"
	LogHandlerLogin  = "auth handler: login"
	LogHandlerLogout = "auth handler: logout"

	ErrorInvalidRequest = "invalid request"

	TemplateSignUp = "signup.html"
	TemplateLogin  = "login.html"
)

// Сообщения об ошибках, показываемые пользователю.
const (
	MsgFieldsRequired    = "All fields are required and must be valid."
	MsgPasswordTooShort  = "Password must be at least 8 characters long and contain a letter and a digit."
	MsgPasswordMismatch  = "Passwords do not match."
	MsgEmailTaken        = "An account with this email already exists."
	MsgInvalidCredential = "Invalid email or password."
	MsgInternalError     = "Something went wrong. Please try again."
)

// Handler содержит HTTP обработчики аутентификации.
type Handler struct {
	authUseCase api.AuthUseCase
	profiles    cache.Cache
	sessionCfg  *config.SessionConfig
}

// NewHandler создает новый обработчик аутентификации.
func NewHandler(authUseCase api.AuthUseCase, profiles cache.Cache, sessionCfg *config.SessionConfig) *Handler {
	return &Handler{
		authUseCase: authUseCase,
		profiles:    profiles,
		sessionCfg:  sessionCfg,
	}
}

// SignUpPage отображает форму регистрации.
func (h *Handler) SignUpPage(ctx fiber.Ctx) error {
	if err := ctx.Render(TemplateSignUp, fiber.Map{
		"Name":  "",
		"Email": "",
	}); err != nil {
		return fmt.Errorf("rendering sign up page: %w", err)
	}
	return nil
}

// SignUp обрабатывает отправку формы регистрации. При успехе устанавливает
// сессионную cookie и перенаправляет на главную страницу; при ошибке форма
// отображается снова с сообщением и очищенными полями паролей.
func (h *Handler) SignUp(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSignUp)

	var form dto.SignUpForm
	if err := ctx.Bind().Form(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderSignUpError(ctx, MsgFieldsRequired, &form)
	}
	if err := dto.Validate(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderSignUpError(ctx, MsgFieldsRequired, &form)
	}

	session, err := h.authUseCase.SignUp(requestCtx, form.Email, form.Name, form.Password, form.ConfirmPassword)
	if err != nil {
		log.Debug(requestCtx, "sign up rejected", zap.Error(err))
		return h.renderSignUpError(ctx, signUpErrorMessage(err), &form)
	}

	h.setSessionCookie(ctx, session.Token, session.ExpiresAt)
	return ctx.Redirect().Status(fiber.StatusSeeOther).To("/")
}

// LoginPage отображает форму входа.
func (h *Handler) LoginPage(ctx fiber.Ctx) error {
	if err := ctx.Render(TemplateLogin, fiber.Map{
		"Email": "",
	}); err != nil {
		return fmt.Errorf("rendering login page: %w", err)
	}
	return nil
}

// Login обрабатывает отправку формы входа.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var form dto.LoginForm
	if err := ctx.Bind().Form(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderLoginError(ctx, MsgFieldsRequired, &form)
	}
	if err := dto.Validate(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderLoginError(ctx, MsgFieldsRequired, &form)
	}

	session, err := h.authUseCase.Login(requestCtx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Debug(requestCtx, "login rejected")
			return h.renderLoginError(ctx, MsgInvalidCredential, &form)
		}
		log.Error(requestCtx, "login failed", zap.Error(err))
		return h.renderLoginError(ctx, MsgInternalError, &form)
	}

	h.setSessionCookie(ctx, session.Token, session.ExpiresAt)
	return ctx.Redirect().Status(fiber.StatusSeeOther).To("/")
}

// Logout завершает сессию и перенаправляет на страницу входа.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogout)

	if session, ok := middleware.CurrentSession(ctx); ok {
		if err := h.profiles.Delete(requestCtx, "profile:"+session.UserID); err != nil {
			log.Warn(requestCtx, "failed to evict cached profile", zap.Error(err))
		}
	}

	ctx.ClearCookie(h.sessionCfg.CookieName)
	return ctx.Redirect().Status(fiber.StatusSeeOther).To("/login")
}

// setSessionCookie устанавливает сессионную cookie.
func (h *Handler) setSessionCookie(ctx fiber.Ctx, token string, expiresAt time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    token,
		Expires:  expiresAt,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// renderSignUpError отображает форму регистрации с сообщением об ошибке.
// Поля паролей не возвращаются в форму.
func (h *Handler) renderSignUpError(ctx fiber.Ctx, message string, form *dto.SignUpForm) error {
	if err := ctx.Status(fiber.StatusBadRequest).Render(TemplateSignUp, fiber.Map{
		"Error": message,
		"Name":  form.Name,
		"Email": form.Email,
	}); err != nil {
		return fmt.Errorf("rendering sign up error: %w", err)
	}
	return nil
}

// renderLoginError отображает форму входа с сообщением об ошибке.
func (h *Handler) renderLoginError(ctx fiber.Ctx, message string, form *dto.LoginForm) error {
	if err := ctx.Status(fiber.StatusUnauthorized).Render(TemplateLogin, fiber.Map{
		"Error": message,
		"Email": form.Email,
	}); err != nil {
		return fmt.Errorf("rendering login error: %w", err)
	}
	return nil
}

// signUpErrorMessage подбирает пользовательское сообщение для ошибки регистрации.
func signUpErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrEmailAlreadyExists):
		return MsgEmailTaken
	case errors.Is(err, entities.ErrPasswordMismatch):
		return MsgPasswordMismatch
	case errors.Is(err, entities.ErrPasswordTooShort), errors.Is(err, entities.ErrPasswordTooWeak):
		return MsgPasswordTooShort
	case errors.Is(err, entities.ErrInvalidEmail), errors.Is(err, entities.ErrEmptyUsername):
		return MsgFieldsRequired
	default:
		return MsgInternalError
	}
}
