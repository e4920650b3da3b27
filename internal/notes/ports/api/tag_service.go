package api

import (
	"context"

	"tagnote/internal/notes/domain/entities"
)

// TagUseCase определяет сценарии работы с метками.
type TagUseCase interface {
	// CreateTag создает метку с глобально уникальным именем.
	CreateTag(ctx context.Context, name string) (string, error)

	// GetTag возвращает метку по ID.
	GetTag(ctx context.Context, tagID string) (*entities.Tag, error)

	// ListTags возвращает все метки в порядке создания.
	ListTags(ctx context.Context) ([]*entities.Tag, error)

	// RenameTag переименовывает метку.
	RenameTag(ctx context.Context, tagID, newName string) error

	// DeleteTag удаляет метку и снимает ее со всех заметок.
	DeleteTag(ctx context.Context, tagID string) error

	// NotesByTag возвращает метку и заметки, помеченные ею.
	NotesByTag(ctx context.Context, name string) (*entities.Tag, []*entities.Note, error)
}
