// Package app реализует бизнес-логику работы с заметками и метками.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tagnote/internal/notes/domain/entities"
	"tagnote/internal/notes/ports/api"
	"tagnote/internal/notes/ports/repositories"
	"tagnote/pkg/logger"
)

const (
	methodCreateNote = "CreateNote"
	methodGetNote    = "GetNote"
	methodListNotes  = "ListNotes"
	methodUserNotes  = "ListUserNotes"
	methodUpdateNote = "UpdateNote"
	methodDeleteNote = "DeleteNote"
	methodSearch     = "SearchNotes"

	msgCreatingNote  = "creating note"
	msgNoteCreated   = "note created"
	msgGettingNote   = "getting note"
	msgListingNotes  = "listing notes"
	msgUpdatingNote  = "updating note"
	msgNoteUpdated   = "note updated"
	msgDeletingNote  = "deleting note"
	msgNoteDeleted   = "note deleted"
	msgSearchingNote = "searching notes by title"

	msgErrCreateNote  = "failed to create note"
	msgErrGetNote     = "failed to get note"
	msgErrListNotes   = "failed to list notes"
	msgErrUpdateNote  = "failed to update note"
	msgErrDeleteNote  = "failed to delete note"
	msgErrSearchNotes = "failed to search notes"

	errCtxValidatingNote = "validating note"
	errCtxCreatingNote   = "creating note"
	errCtxGettingNote    = "getting note"
	errCtxListingNotes   = "listing notes"
	errCtxUpdatingNote   = "updating note"
	errCtxDeletingNote   = "deleting note"
	errCtxSearchingNotes = "searching notes"
)

// NoteUseCaseImpl реализует интерфейс NoteUseCase.
type NoteUseCaseImpl struct {
	noteRepo repositories.NoteRepository
}

// NewNoteUseCase создает новый сервис заметок.
func NewNoteUseCase(noteRepo repositories.NoteRepository) api.NoteUseCase {
	return &NoteUseCaseImpl{noteRepo: noteRepo}
}

// CreateNote создает заметку от имени пользователя и привязывает метки.
func (n *NoteUseCaseImpl) CreateNote(ctx context.Context, userID, title, content string, tagIDs []string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateNote), zap.String("userID", userID))
	log.Debug(ctx, msgCreatingNote)

	if userID == "" {
		return "", fmt.Errorf("%s: %w", errCtxValidatingNote, entities.ErrEmptyOwner)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%s: %w", errCtxValidatingNote, entities.ErrEmptyTitle)
	}

	noteID, err := n.noteRepo.Create(ctx, entities.NewNote(userID, title, content), tagIDs)
	if err != nil {
		log.Error(ctx, msgErrCreateNote, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.String("noteID", noteID))
	return noteID, nil
}

// GetNote возвращает заметку вместе с ее метками.
func (n *NoteUseCaseImpl) GetNote(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetNote), zap.String("noteID", noteID))
	log.Debug(ctx, msgGettingNote)

	note, err := n.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrGetNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	return note, nil
}

// ListNotes возвращает все заметки для главной страницы, новые первыми.
func (n *NoteUseCaseImpl) ListNotes(ctx context.Context) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListNotes))
	log.Debug(ctx, msgListingNotes)

	notes, err := n.noteRepo.ListAll(ctx)
	if err != nil {
		log.Error(ctx, msgErrListNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}

	return notes, nil
}

// ListUserNotes возвращает заметки одного пользователя, новые первыми.
func (n *NoteUseCaseImpl) ListUserNotes(ctx context.Context, userID string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUserNotes), zap.String("userID", userID))
	log.Debug(ctx, msgListingNotes)

	notes, err := n.noteRepo.ListByUserID(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrListNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}

	return notes, nil
}

// UpdateNote обновляет заметку владельца и полностью заменяет набор ее меток.
func (n *NoteUseCaseImpl) UpdateNote(ctx context.Context, userID, noteID, title, content string, tagIDs []string) error {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateNote),
		zap.String("noteID", noteID), zap.String("userID", userID))
	log.Debug(ctx, msgUpdatingNote)

	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%s: %w", errCtxValidatingNote, entities.ErrEmptyTitle)
	}

	note := &entities.Note{
		ID:      noteID,
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	if err := n.noteRepo.Update(ctx, note, tagIDs); err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrUpdateNote, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxUpdatingNote, err)
	}

	log.Info(ctx, msgNoteUpdated)
	return nil
}

// DeleteNote удаляет заметку, если запрашивающий является ее владельцем.
func (n *NoteUseCaseImpl) DeleteNote(ctx context.Context, noteID, requesterID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteNote),
		zap.String("noteID", noteID), zap.String("requesterID", requesterID))
	log.Debug(ctx, msgDeletingNote)

	if err := n.noteRepo.Delete(ctx, noteID, requesterID); err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) || errors.Is(err, entities.ErrNotOwner) {
			return err
		}
		log.Error(ctx, msgErrDeleteNote, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingNote, err)
	}

	log.Info(ctx, msgNoteDeleted)
	return nil
}

// SearchNotes ищет заметки по подстроке заголовка.
func (n *NoteUseCaseImpl) SearchNotes(ctx context.Context, substring string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodSearch))
	log.Debug(ctx, msgSearchingNote, zap.String("substring", substring))

	notes, err := n.noteRepo.SearchByTitle(ctx, substring)
	if err != nil {
		log.Error(ctx, msgErrSearchNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxSearchingNotes, err)
	}

	return notes, nil
}
