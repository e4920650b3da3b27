package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"tagnote/internal/notes/domain/entities"
	"tagnote/internal/notes/ports/repositories"
	"tagnote/pkg/logger"
)

// TagRepository реализует интерфейс repositories.TagRepository.
type TagRepository struct {
	pool PgxPoolInterface
}

// NewTagRepository создает новый репозиторий меток.
func NewTagRepository(pool PgxPoolInterface) repositories.TagRepository {
	return &TagRepository{pool: pool}
}

// Create сохраняет новую метку. Имена меток глобально уникальны.
func (r *TagRepository) Create(ctx context.Context, name string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.Create"))
	log.Debug(ctx, "creating new tag", zap.String("name", name))

	var tagID string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tags (name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&tagID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			log.Debug(ctx, "tag name already taken", zap.String("name", name))
			return "", entities.ErrTagAlreadyExists
		}
		log.Error(ctx, "failed to create tag", zap.Error(err))
		return "", fmt.Errorf("failed to create tag: %w", err)
	}

	log.Debug(ctx, "tag created", zap.String("tagID", tagID))
	return tagID, nil
}

// GetByID получает метку по ID.
func (r *TagRepository) GetByID(ctx context.Context, tagID string) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.GetByID"))

	var tag entities.Tag
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM tags WHERE id = $1`,
		tagID,
	).Scan(&tag.ID, &tag.Name, &tag.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "tag not found", zap.String("tagID", tagID))
			return nil, entities.ErrTagNotFound
		}
		log.Error(ctx, "failed to get tag", zap.Error(err))
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &tag, nil
}

// FindByName получает метку по точному имени.
func (r *TagRepository) FindByName(ctx context.Context, name string) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.FindByName"))

	var tag entities.Tag
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM tags WHERE name = $1`,
		name,
	).Scan(&tag.ID, &tag.Name, &tag.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "tag not found", zap.String("name", name))
			return nil, entities.ErrTagNotFound
		}
		log.Error(ctx, "failed to find tag", zap.Error(err))
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}

	return &tag, nil
}

// ListAll получает все метки в порядке создания.
func (r *TagRepository) ListAll(ctx context.Context) ([]*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.ListAll"))

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM tags ORDER BY created_at, id`)
	if err != nil {
		log.Error(ctx, "failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*entities.Tag, 0)
	for rows.Next() {
		var tag entities.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			log.Error(ctx, "failed to scan tag", zap.Error(err))
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tags, nil
}

// Update переименовывает метку. Новое имя подчиняется глобальной уникальности.
func (r *TagRepository) Update(ctx context.Context, tagID, newName string) error {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.Update"))
	log.Debug(ctx, "renaming tag", zap.String("tagID", tagID))

	result, err := r.pool.Exec(ctx,
		`UPDATE tags SET name = $1 WHERE id = $2`,
		newName, tagID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			log.Debug(ctx, "tag name already taken", zap.String("name", newName))
			return entities.ErrTagAlreadyExists
		}
		log.Error(ctx, "failed to update tag", zap.Error(err))
		return fmt.Errorf("failed to update tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		log.Debug(ctx, "tag not found", zap.String("tagID", tagID))
		return entities.ErrTagNotFound
	}

	return nil
}

// Delete удаляет метку. Связи с заметками снимаются каскадом на уровне схемы.
func (r *TagRepository) Delete(ctx context.Context, tagID string) error {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.Delete"))
	log.Debug(ctx, "deleting tag", zap.String("tagID", tagID))

	result, err := r.pool.Exec(ctx,
		`DELETE FROM tags WHERE id = $1`,
		tagID,
	)
	if err != nil {
		log.Error(ctx, "failed to delete tag", zap.Error(err))
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		log.Debug(ctx, "tag not found", zap.String("tagID", tagID))
		return entities.ErrTagNotFound
	}

	return nil
}

// NotesByTagName получает заметки, помеченные меткой с данным именем,
// в порядке заголовков. Для несуществующей метки возвращает entities.ErrTagNotFound.
func (r *TagRepository) NotesByTagName(ctx context.Context, name string) (*entities.Tag, []*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "TagRepository.NotesByTagName"))
	log.Debug(ctx, "listing notes by tag", zap.String("name", name))

	tag, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.user_id, n.title, n.content, n.created_at
         FROM notes n
         JOIN notes_tags nt ON nt.note_id = n.id
         WHERE nt.tag_id = $1
         ORDER BY n.title ASC, n.id`,
		tag.ID)
	if err != nil {
		log.Error(ctx, "failed to query tagged notes", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to query tagged notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		var note entities.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt); err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tag, notes, nil
}
