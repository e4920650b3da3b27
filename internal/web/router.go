// Package web содержит компоненты HTTP сервера.
package web

import (
	"github.com/gofiber/fiber/v3"

	authapi "tagnote/internal/auth/ports/api"
	svc "tagnote/internal/auth/ports/services"
	"tagnote/internal/config"
	notesapi "tagnote/internal/notes/ports/api"
	"tagnote/internal/web/handlers/auth"
	"tagnote/internal/web/handlers/notes"
	"tagnote/internal/web/middleware"
	"tagnote/internal/web/ports/cache"
)

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(
	app *fiber.App,
	authUseCase authapi.AuthUseCase,
	noteUseCase notesapi.NoteUseCase,
	tagUseCase notesapi.TagUseCase,
	sessionSvc svc.SessionService,
	profiles cache.Cache,
	sessionCfg *config.SessionConfig,
) {
	authHandler := auth.NewHandler(authUseCase, profiles, sessionCfg)
	notesHandler := notes.NewHandler(noteUseCase, tagUseCase)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// Публичные маршруты.
	app.Get("/sign-up", authHandler.SignUpPage)
	app.Post("/sign-up", authHandler.SignUp)
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Get("/aboutus", notesHandler.AboutUs)

	// Защищенные маршруты: без действующей сессии перенаправляют на /login.
	authMiddleware := middleware.NewAuthMiddleware(sessionSvc, authUseCase, profiles, sessionCfg.CookieName)
	protected := app.Group("", authMiddleware)

	protected.Get("/logout", authHandler.Logout)

	protected.Get("/", notesHandler.Home)
	protected.Post("/", notesHandler.HomePost)
	protected.Post("/delete-note", notesHandler.DeleteNote)
	protected.Post("/delete-tag", notesHandler.DeleteTag)

	protected.Get("/tags", notesHandler.TagsPage)
	protected.Get("/tags/:tag_id/edit", notesHandler.EditTagPage)
	protected.Post("/tags/:tag_id/edit", notesHandler.EditTagPost)
	protected.Get("/tags/:tag_name/", notesHandler.TagNotes)

	protected.Get("/notes/:note_id", notesHandler.NoteDetail)

	protected.Get("/search", notesHandler.SearchPage)
	protected.Post("/search", notesHandler.SearchPost)

	// Регистрируется после статических путей, чтобы не перехватывать их.
	protected.Get("/:note_id/edit", notesHandler.EditNotePage)
	protected.Post("/:note_id/edit", notesHandler.EditNotePost)

	// Обработчик для несуществующих маршрутов.
	app.Use(notesHandler.NotFound)
}
