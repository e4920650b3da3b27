// Package repositories определяет интерфейсы репозиториев заметок и меток.
package repositories

import (
	"context"

	"tagnote/internal/notes/domain/entities"
)

// NoteRepository определяет интерфейс для работы с репозиторием заметок.
//
// Create и Update принимают множество идентификаторов меток: несуществующие
// идентификаторы молча отбрасываются, итоговый набор связей заметки всегда
// становится в точности разрешенным подмножеством tagIDs (полная замена,
// а не слияние).
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note, tagIDs []string) (string, error)

	GetByID(ctx context.Context, noteID string) (*entities.Note, error)

	ListAll(ctx context.Context) ([]*entities.Note, error)

	ListByUserID(ctx context.Context, userID string) ([]*entities.Note, error)

	Update(ctx context.Context, note *entities.Note, tagIDs []string) error

	Delete(ctx context.Context, noteID, requesterID string) error

	SearchByTitle(ctx context.Context, substring string) ([]*entities.Note, error)
}
