// Package notes содержит HTTP обработчики страниц заметок и меток.
package notes

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tagnote/internal/notes/domain/entities"
	"tagnote/internal/notes/ports/api"
	"tagnote/internal/web/dto"
	"tagnote/internal/web/middleware"
	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerHome       = "notes handler: home"
	LogHandlerHomePost   = "notes handler: home post"
	LogHandlerDeleteNote = "notes handler: delete note"
	LogHandlerDeleteTag  = "notes handler: delete tag"
	LogHandlerEditNote   = "notes handler: edit note"
	LogHandlerEditTag    = "notes handler: edit tag"
	LogHandlerSearch     = "notes handler: search"

	ErrorInvalidRequest = "invalid request"

	TemplateIndex      = "index.html"
	TemplateEditNote   = "edit_note.html"
	TemplateEditTag    = "edit_tag.html"
	TemplateTags       = "tags.html"
	TemplateNoteDetail = "note_detail.html"
	TemplateSearch     = "search.html"
	TemplateTagNotes   = "tag_notes.html"
	TemplateAboutUs    = "aboutus.html"
	TemplateNotFound   = "404.html"
)

// Сообщения об ошибках, показываемые пользователю.
const (
	MsgTitleRequired   = "Note title is required."
	MsgTagNameRequired = "Tag name is required."
	MsgTagNameTaken    = "A tag with this name already exists."
	MsgInternalError   = "Something went wrong. Please try again."
)

// Handler содержит HTTP обработчики заметок и меток.
type Handler struct {
	noteUseCase api.NoteUseCase
	tagUseCase  api.TagUseCase
}

// NewHandler создает новый обработчик заметок и меток.
func NewHandler(noteUseCase api.NoteUseCase, tagUseCase api.TagUseCase) *Handler {
	return &Handler{
		noteUseCase: noteUseCase,
		tagUseCase:  tagUseCase,
	}
}

// Home отображает главную страницу со всеми заметками, метками
// и встроенными формами создания заметки и метки.
func (h *Handler) Home(ctx fiber.Ctx) error {
	return h.renderHome(ctx, fiber.StatusOK, "")
}

// HomePost обрабатывает отправку одной из двух встроенных форм главной
// страницы. Скрытое поле form_type определяет, создается заметка или метка.
func (h *Handler) HomePost(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerHomePost)

	switch ctx.FormValue("form_type") {
	case dto.FormTypeNote:
		return h.createNote(ctx)
	case dto.FormTypeTag:
		return h.createTag(ctx)
	default:
		log.Debug(requestCtx, ErrorInvalidRequest, zap.String("form_type", ctx.FormValue("form_type")))
		return h.renderHome(ctx, fiber.StatusBadRequest, MsgInternalError)
	}
}

// createNote создает заметку из формы главной страницы.
func (h *Handler) createNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)

	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		return ctx.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	var form dto.NoteForm
	if err := ctx.Bind().Form(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderHome(ctx, fiber.StatusBadRequest, MsgTitleRequired)
	}
	if err := dto.Validate(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderHome(ctx, fiber.StatusBadRequest, MsgTitleRequired)
	}

	if _, err := h.noteUseCase.CreateNote(requestCtx, session.UserID, form.Title, form.Body, form.TagIDs); err != nil {
		if errors.Is(err, entities.ErrEmptyTitle) {
			return h.renderHome(ctx, fiber.StatusBadRequest, MsgTitleRequired)
		}
		log.Error(requestCtx, "failed to create note", zap.Error(err))
		return h.renderHome(ctx, fiber.StatusInternalServerError, MsgInternalError)
	}

	return ctx.Redirect().Status(fiber.StatusSeeOther).To("/")
}

// createTag создает метку из формы главной страницы.
func (h *Handler) createTag(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)

	var form dto.TagForm
	if err := ctx.Bind().Form(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderHome(ctx, fiber.StatusBadRequest, MsgTagNameRequired)
	}
	if err := dto.Validate(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderHome(ctx, fiber.StatusBadRequest, MsgTagNameRequired)
	}

	if _, err := h.tagUseCase.CreateTag(requestCtx, form.Name); err != nil {
		switch {
		case errors.Is(err, entities.ErrTagAlreadyExists):
			return h.renderHome(ctx, fiber.StatusBadRequest, MsgTagNameTaken)
		case errors.Is(err, entities.ErrEmptyTagName):
			return h.renderHome(ctx, fiber.StatusBadRequest, MsgTagNameRequired)
		default:
			log.Error(requestCtx, "failed to create tag", zap.Error(err))
			return h.renderHome(ctx, fiber.StatusInternalServerError, MsgInternalError)
		}
	}

	return ctx.Redirect().Status(fiber.StatusSeeOther).To("/")
}

// DeleteNote обрабатывает JSON запрос на удаление заметки. Удаляет только
// заметку владельца; чужая или несуществующая заметка молча игнорируется.
// В обоих случаях возвращается пустой JSON объект.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteNote)

	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		return sendJSONError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var req dto.DeleteNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendJSONError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	if err := dto.Validate(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendJSONError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := h.noteUseCase.DeleteNote(requestCtx, req.NoteID, session.UserID); err != nil {
		if !errors.Is(err, entities.ErrNoteNotFound) && !errors.Is(err, entities.ErrNotOwner) {
			log.Error(requestCtx, "failed to delete note", zap.Error(err))
			return sendJSONError(ctx, fiber.StatusInternalServerError, MsgInternalError)
		}
		log.Debug(requestCtx, "delete note ignored", zap.Error(err))
	}

	if err := ctx.Status(fiber.StatusOK).JSON(fiber.Map{}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// DeleteTag обрабатывает JSON запрос на удаление метки. Метка снимается
// со всех заметок; сами заметки не затрагиваются. Возвращает пустой JSON объект.
func (h *Handler) DeleteTag(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteTag)

	var req dto.DeleteTagRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendJSONError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	if err := dto.Validate(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendJSONError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := h.tagUseCase.DeleteTag(requestCtx, req.TagID); err != nil {
		if !errors.Is(err, entities.ErrTagNotFound) {
			log.Error(requestCtx, "failed to delete tag", zap.Error(err))
			return sendJSONError(ctx, fiber.StatusInternalServerError, MsgInternalError)
		}
		log.Debug(requestCtx, "delete tag ignored", zap.Error(err))
	}

	if err := ctx.Status(fiber.StatusOK).JSON(fiber.Map{}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// EditNotePage отображает форму редактирования заметки. Чужая заметка
// недоступна для редактирования и отвечает страницей 404.
func (h *Handler) EditNotePage(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerEditNote)

	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		return ctx.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	note, err := h.noteUseCase.GetNote(requestCtx, ctx.Params("note_id"))
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return h.NotFound(ctx)
		}
		log.Error(requestCtx, "failed to load note", zap.Error(err))
		return fmt.Errorf("loading note: %w", err)
	}
	if note.UserID != session.UserID {
		return h.NotFound(ctx)
	}

	tags, err := h.tagUseCase.ListTags(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to list tags", zap.Error(err))
		return fmt.Errorf("listing tags: %w", err)
	}

	selected := make(map[string]bool, len(note.Tags))
	for _, tag := range note.Tags {
		selected[tag.ID] = true
	}

	if err := ctx.Render(TemplateEditNote, fiber.Map{
		"Session":  session,
		"Note":     note,
		"Tags":     tags,
		"Selected": selected,
	}); err != nil {
		return fmt.Errorf("rendering edit note page: %w", err)
	}
	return nil
}

// EditNotePost обрабатывает отправку формы редактирования заметки.
// Набор меток заметки полностью заменяется отмеченным набором.
func (h *Handler) EditNotePost(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerEditNote)

	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		return ctx.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	noteID := ctx.Params("note_id")

	var form dto.NoteForm
	if err := ctx.Bind().Form(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.NotFound(ctx)
	}
	if err := dto.Validate(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return ctx.Redirect().Status(fiber.StatusSeeOther).To("/" + noteID + "/edit")
	}

	err := h.noteUseCase.UpdateNote(requestCtx, session.UserID, noteID, form.Title, form.Body, form.TagIDs)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return h.NotFound(ctx)
		}
		log.Error(requestCtx, "failed to update note", zap.Error(err))
		return fmt.Errorf("updating note: %w", err)
	}

	return ctx.Redirect().Status(fiber.StatusSeeOther).To("/notes/" + noteID)
}

// EditTagPage отображает форму переименования метки.
func (h *Handler) EditTagPage(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerEditTag)

	tag, err := h.tagUseCase.GetTag(requestCtx, ctx.Params("tag_id"))
	if err != nil {
		if errors.Is(err, entities.ErrTagNotFound) {
			return h.NotFound(ctx)
		}
		log.Error(requestCtx, "failed to load tag", zap.Error(err))
		return fmt.Errorf("loading tag: %w", err)
	}

	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Render(TemplateEditTag, fiber.Map{
		"Session": session,
		"Tag":     tag,
	}); err != nil {
		return fmt.Errorf("rendering edit tag page: %w", err)
	}
	return nil
}

// EditTagPost обрабатывает отправку формы переименования метки.
func (h *Handler) EditTagPost(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerEditTag)

	tagID := ctx.Params("tag_id")

	var form dto.TagForm
	if err := ctx.Bind().Form(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderEditTagError(ctx, tagID, MsgTagNameRequired)
	}
	if err := dto.Validate(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.renderEditTagError(ctx, tagID, MsgTagNameRequired)
	}

	if err := h.tagUseCase.RenameTag(requestCtx, tagID, form.Name); err != nil {
		switch {
		case errors.Is(err, entities.ErrTagNotFound):
			return h.NotFound(ctx)
		case errors.Is(err, entities.ErrTagAlreadyExists):
			return h.renderEditTagError(ctx, tagID, MsgTagNameTaken)
		case errors.Is(err, entities.ErrEmptyTagName):
			return h.renderEditTagError(ctx, tagID, MsgTagNameRequired)
		default:
			log.Error(requestCtx, "failed to rename tag", zap.Error(err))
			return fmt.Errorf("renaming tag: %w", err)
		}
	}

	return ctx.Redirect().Status(fiber.StatusSeeOther).To("/tags")
}

// TagsPage отображает список всех меток.
func (h *Handler) TagsPage(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)

	tags, err := h.tagUseCase.ListTags(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to list tags", zap.Error(err))
		return fmt.Errorf("listing tags: %w", err)
	}

	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Render(TemplateTags, fiber.Map{
		"Session": session,
		"Tags":    tags,
	}); err != nil {
		return fmt.Errorf("rendering tags page: %w", err)
	}
	return nil
}

// NoteDetail отображает страницу одной заметки.
func (h *Handler) NoteDetail(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)

	note, err := h.noteUseCase.GetNote(requestCtx, ctx.Params("note_id"))
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return h.NotFound(ctx)
		}
		log.Error(requestCtx, "failed to load note", zap.Error(err))
		return fmt.Errorf("loading note: %w", err)
	}

	authorNotes, err := h.noteUseCase.ListUserNotes(requestCtx, note.UserID)
	if err != nil {
		log.Error(requestCtx, "failed to load author notes", zap.Error(err))
		authorNotes = nil
	}
	others := make([]*entities.Note, 0, len(authorNotes))
	for _, other := range authorNotes {
		if other.ID != note.ID {
			others = append(others, other)
		}
	}

	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Render(TemplateNoteDetail, fiber.Map{
		"Session":     session,
		"Note":        note,
		"IsOwner":     session != nil && session.UserID == note.UserID,
		"AuthorNotes": others,
	}); err != nil {
		return fmt.Errorf("rendering note detail page: %w", err)
	}
	return nil
}

// SearchPage отображает форму поиска по заголовкам.
func (h *Handler) SearchPage(ctx fiber.Ctx) error {
	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Render(TemplateSearch, fiber.Map{
		"Session": session,
		"Query":   "",
	}); err != nil {
		return fmt.Errorf("rendering search page: %w", err)
	}
	return nil
}

// SearchPost выполняет поиск заметок по подстроке заголовка.
// Результаты отсортированы по заголовку по возрастанию.
func (h *Handler) SearchPost(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSearch)

	var form dto.SearchForm
	if err := ctx.Bind().Form(&form); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return h.SearchPage(ctx)
	}

	notes, err := h.noteUseCase.SearchNotes(requestCtx, form.Query)
	if err != nil {
		log.Error(requestCtx, "failed to search notes", zap.Error(err))
		return fmt.Errorf("searching notes: %w", err)
	}

	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Render(TemplateSearch, fiber.Map{
		"Session": session,
		"Query":   form.Query,
		"Notes":   notes,
		"Posted":  true,
	}); err != nil {
		return fmt.Errorf("rendering search results: %w", err)
	}
	return nil
}

// TagNotes отображает заметки, помеченные меткой с данным именем.
func (h *Handler) TagNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)

	name := ctx.Params("tag_name")

	tag, notes, err := h.tagUseCase.NotesByTag(requestCtx, name)
	if err != nil {
		if errors.Is(err, entities.ErrTagNotFound) {
			return h.NotFound(ctx)
		}
		log.Error(requestCtx, "failed to list notes by tag", zap.Error(err))
		return fmt.Errorf("listing notes by tag: %w", err)
	}

	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Render(TemplateTagNotes, fiber.Map{
		"Session": session,
		"Tag":     tag,
		"Notes":   notes,
	}); err != nil {
		return fmt.Errorf("rendering tag notes page: %w", err)
	}
	return nil
}

// AboutUs отображает страницу о проекте.
func (h *Handler) AboutUs(ctx fiber.Ctx) error {
	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Render(TemplateAboutUs, fiber.Map{
		"Session": session,
	}); err != nil {
		return fmt.Errorf("rendering about page: %w", err)
	}
	return nil
}

// NotFound отображает страницу 404.
func (h *Handler) NotFound(ctx fiber.Ctx) error {
	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Status(fiber.StatusNotFound).Render(TemplateNotFound, fiber.Map{
		"Session": session,
	}); err != nil {
		return fmt.Errorf("rendering not found page: %w", err)
	}
	return nil
}

// renderHome отображает главную страницу с заметками, метками и формами.
func (h *Handler) renderHome(ctx fiber.Ctx, status int, errorMessage string) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerHome)

	notes, err := h.noteUseCase.ListNotes(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to list notes", zap.Error(err))
		return fmt.Errorf("listing notes: %w", err)
	}

	tags, err := h.tagUseCase.ListTags(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to list tags", zap.Error(err))
		return fmt.Errorf("listing tags: %w", err)
	}

	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Status(status).Render(TemplateIndex, fiber.Map{
		"Session": session,
		"Notes":   notes,
		"Tags":    tags,
		"Error":   errorMessage,
	}); err != nil {
		return fmt.Errorf("rendering home page: %w", err)
	}
	return nil
}

// renderEditTagError отображает форму переименования метки с сообщением об ошибке.
func (h *Handler) renderEditTagError(ctx fiber.Ctx, tagID, message string) error {
	requestCtx := middleware.RequestContext(ctx)

	tag, err := h.tagUseCase.GetTag(requestCtx, tagID)
	if err != nil {
		return h.NotFound(ctx)
	}

	session, _ := middleware.CurrentSession(ctx)
	if err := ctx.Status(fiber.StatusBadRequest).Render(TemplateEditTag, fiber.Map{
		"Session": session,
		"Tag":     tag,
		"Error":   message,
	}); err != nil {
		return fmt.Errorf("rendering edit tag error: %w", err)
	}
	return nil
}

// sendJSONError отправляет JSON ответ с сообщением об ошибке.
func sendJSONError(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
