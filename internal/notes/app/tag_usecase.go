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
	methodCreateTag  = "CreateTag"
	methodGetTag     = "GetTag"
	methodListTags   = "ListTags"
	methodRenameTag  = "RenameTag"
	methodDeleteTag  = "DeleteTag"
	methodNotesByTag = "NotesByTag"

	msgCreatingTag   = "creating tag"
	msgTagCreated    = "tag created"
	msgGettingTag    = "getting tag"
	msgListingTags   = "listing tags"
	msgRenamingTag   = "renaming tag"
	msgTagRenamed    = "tag renamed"
	msgDeletingTag   = "deleting tag"
	msgTagDeleted    = "tag deleted"
	msgNotesByTag    = "listing notes by tag"
	msgErrCreateTag  = "failed to create tag"
	msgErrGetTag     = "failed to get tag"
	msgErrListTags   = "failed to list tags"
	msgErrRenameTag  = "failed to rename tag"
	msgErrDeleteTag  = "failed to delete tag"
	msgErrNotesByTag = "failed to list notes by tag"

	errCtxValidatingTag = "validating tag"
	errCtxCreatingTag   = "creating tag"
	errCtxGettingTag    = "getting tag"
	errCtxListingTags   = "listing tags"
	errCtxRenamingTag   = "renaming tag"
	errCtxDeletingTag   = "deleting tag"
	errCtxNotesByTag    = "listing notes by tag"
)

// TagUseCaseImpl реализует интерфейс TagUseCase.
type TagUseCaseImpl struct {
	tagRepo repositories.TagRepository
}

// NewTagUseCase создает новый сервис меток.
func NewTagUseCase(tagRepo repositories.TagRepository) api.TagUseCase {
	return &TagUseCaseImpl{tagRepo: tagRepo}
}

// CreateTag создает метку с глобально уникальным именем.
func (t *TagUseCaseImpl) CreateTag(ctx context.Context, name string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateTag), zap.String("name", name))
	log.Debug(ctx, msgCreatingTag)

	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%s: %w", errCtxValidatingTag, entities.ErrEmptyTagName)
	}

	tagID, err := t.tagRepo.Create(ctx, name)
	if err != nil {
		if errors.Is(err, entities.ErrTagAlreadyExists) {
			return "", entities.ErrTagAlreadyExists
		}
		log.Error(ctx, msgErrCreateTag, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxCreatingTag, err)
	}

	log.Info(ctx, msgTagCreated, zap.String("tagID", tagID))
	return tagID, nil
}

// GetTag возвращает метку по ID.
func (t *TagUseCaseImpl) GetTag(ctx context.Context, tagID string) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetTag), zap.String("tagID", tagID))
	log.Debug(ctx, msgGettingTag)

	tag, err := t.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, entities.ErrTagNotFound) {
			return nil, entities.ErrTagNotFound
		}
		log.Error(ctx, msgErrGetTag, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingTag, err)
	}

	return tag, nil
}

// ListTags возвращает все метки в порядке создания.
func (t *TagUseCaseImpl) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListTags))
	log.Debug(ctx, msgListingTags)

	tags, err := t.tagRepo.ListAll(ctx)
	if err != nil {
		log.Error(ctx, msgErrListTags, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingTags, err)
	}

	return tags, nil
}

// RenameTag переименовывает метку.
func (t *TagUseCaseImpl) RenameTag(ctx context.Context, tagID, newName string) error {
	log := logger.Log(ctx).With(zap.String("method", methodRenameTag), zap.String("tagID", tagID))
	log.Debug(ctx, msgRenamingTag)

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%s: %w", errCtxValidatingTag, entities.ErrEmptyTagName)
	}

	if err := t.tagRepo.Update(ctx, tagID, newName); err != nil {
		if errors.Is(err, entities.ErrTagNotFound) || errors.Is(err, entities.ErrTagAlreadyExists) {
			return err
		}
		log.Error(ctx, msgErrRenameTag, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRenamingTag, err)
	}

	log.Info(ctx, msgTagRenamed)
	return nil
}

// DeleteTag удаляет метку и снимает ее со всех заметок.
func (t *TagUseCaseImpl) DeleteTag(ctx context.Context, tagID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteTag), zap.String("tagID", tagID))
	log.Debug(ctx, msgDeletingTag)

	if err := t.tagRepo.Delete(ctx, tagID); err != nil {
		if errors.Is(err, entities.ErrTagNotFound) {
			return entities.ErrTagNotFound
		}
		log.Error(ctx, msgErrDeleteTag, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingTag, err)
	}

	log.Info(ctx, msgTagDeleted)
	return nil
}

// NotesByTag возвращает метку и заметки, помеченные ею.
func (t *TagUseCaseImpl) NotesByTag(ctx context.Context, name string) (*entities.Tag, []*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodNotesByTag), zap.String("name", name))
	log.Debug(ctx, msgNotesByTag)

	tag, notes, err := t.tagRepo.NotesByTagName(ctx, name)
	if err != nil {
		if errors.Is(err, entities.ErrTagNotFound) {
			return nil, nil, entities.ErrTagNotFound
		}
		log.Error(ctx, msgErrNotesByTag, zap.Error(err))
		return nil, nil, fmt.Errorf("%s: %w", errCtxNotesByTag, err)
	}

	return tag, notes, nil
}
