package repositories

import (
	"context"

	"tagnote/internal/notes/domain/entities"
)

// TagRepository определяет интерфейс для работы с репозиторием меток.
type TagRepository interface {
	Create(ctx context.Context, name string) (string, error)

	GetByID(ctx context.Context, tagID string) (*entities.Tag, error)

	FindByName(ctx context.Context, name string) (*entities.Tag, error)

	ListAll(ctx context.Context) ([]*entities.Tag, error)

	Update(ctx context.Context, tagID, newName string) error

	Delete(ctx context.Context, tagID string) error

	NotesByTagName(ctx context.Context, name string) (*entities.Tag, []*entities.Note, error)
}
