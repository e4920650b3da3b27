// Package api определяет интерфейсы сценариев использования заметок и меток.
package api

import (
	"context"

	"tagnote/internal/notes/domain/entities"
)

// NoteUseCase определяет сценарии работы с заметками.
type NoteUseCase interface {
	// CreateNote создает заметку от имени пользователя и привязывает метки.
	CreateNote(ctx context.Context, userID, title, content string, tagIDs []string) (string, error)

	// GetNote возвращает заметку вместе с ее метками.
	GetNote(ctx context.Context, noteID string) (*entities.Note, error)

	// ListNotes возвращает все заметки для главной страницы, новые первыми.
	ListNotes(ctx context.Context) ([]*entities.Note, error)

	// ListUserNotes возвращает заметки одного пользователя, новые первыми.
	ListUserNotes(ctx context.Context, userID string) ([]*entities.Note, error)

	// UpdateNote обновляет заметку владельца и полностью заменяет набор ее меток.
	UpdateNote(ctx context.Context, userID, noteID, title, content string, tagIDs []string) error

	// DeleteNote удаляет заметку, если запрашивающий является ее владельцем.
	DeleteNote(ctx context.Context, noteID, requesterID string) error

	// SearchNotes ищет заметки по подстроке заголовка.
	SearchNotes(ctx context.Context, substring string) ([]*entities.Note, error)
}
