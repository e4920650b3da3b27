// Package postgres содержит реализации репозиториев заметок и меток для PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"tagnote/internal/notes/domain/entities"
	"tagnote/internal/notes/ports/repositories"
	"tagnote/pkg/logger"
)

// Код ошибки PostgreSQL для нарушения уникальности.
const pgUniqueViolation = "23505"

// PgxPoolInterface описывает операции пула соединений, используемые репозиториями.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новую заметку и привязывает к ней разрешимые метки
// в рамках одной транзакции. Несуществующие идентификаторы меток отбрасываются.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note, tagIDs []string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("userID", note.UserID), zap.Int("tags", len(tagIDs)))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "failed to begin transaction", zap.Error(err))
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var noteID string
	err = tx.QueryRow(ctx,
		`INSERT INTO notes (user_id, title, content) VALUES ($1, $2, $3) RETURNING id`,
		note.UserID, note.Title, note.Content,
	).Scan(&noteID)
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return "", fmt.Errorf("failed to create note: %w", err)
	}

	if err := replaceTagSet(ctx, tx, noteID, tagIDs); err != nil {
		log.Error(ctx, "failed to attach tags", zap.Error(err))
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "failed to commit transaction", zap.Error(err))
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", noteID))
	return noteID, nil
}

// GetByID получает заметку по ID вместе с ее метками.
func (r *NoteRepository) GetByID(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.String("noteID", noteID))

	var note entities.Note
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, created_at
         FROM notes
         WHERE id = $1`,
		noteID,
	).Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	tags, err := r.loadTags(ctx, note.ID)
	if err != nil {
		log.Error(ctx, "failed to load note tags", zap.Error(err))
		return nil, err
	}
	note.Tags = tags

	return &note, nil
}

// ListAll получает все заметки для главной страницы, новые первыми.
// Пагинации нет: система рассчитана на небольшой набор данных.
func (r *NoteRepository) ListAll(ctx context.Context) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListAll"))

	notes, err := r.queryNotes(ctx,
		`SELECT id, user_id, title, content, created_at
         FROM notes
         ORDER BY created_at DESC, id`)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, err
	}

	for _, note := range notes {
		tags, err := r.loadTags(ctx, note.ID)
		if err != nil {
			log.Error(ctx, "failed to load note tags", zap.Error(err))
			return nil, err
		}
		note.Tags = tags
	}

	return notes, nil
}

// ListByUserID получает заметки пользователя, новые первыми.
func (r *NoteRepository) ListByUserID(ctx context.Context, userID string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListByUserID"))

	notes, err := r.queryNotes(ctx,
		`SELECT id, user_id, title, content, created_at
         FROM notes
         WHERE user_id = $1
         ORDER BY created_at DESC, id`,
		userID)
	if err != nil {
		log.Error(ctx, "failed to list user notes", zap.Error(err))
		return nil, err
	}

	return notes, nil
}

// Update обновляет заголовок и содержимое заметки и полностью заменяет
// ее набор меток на разрешимое подмножество tagIDs в одной транзакции.
// Обновление ограничено владельцем: чужая или несуществующая заметка
// дает entities.ErrNoteNotFound.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note, tagIDs []string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", note.ID), zap.Int("tags", len(tagIDs)))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx,
		`UPDATE notes SET title = $1, content = $2 WHERE id = $3 AND user_id = $4`,
		note.Title, note.Content, note.ID, note.UserID,
	)
	if err != nil {
		log.Error(ctx, "failed to update note", zap.Error(err))
		return fmt.Errorf("failed to update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user")
		return entities.ErrNoteNotFound
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM notes_tags WHERE note_id = $1`,
		note.ID,
	); err != nil {
		log.Error(ctx, "failed to clear note tags", zap.Error(err))
		return fmt.Errorf("failed to clear note tags: %w", err)
	}

	if err := replaceTagSet(ctx, tx, note.ID, tagIDs); err != nil {
		log.Error(ctx, "failed to attach tags", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete удаляет заметку. Удалять может только владелец; связи с метками
// снимаются каскадом на уровне схемы.
func (r *NoteRepository) Delete(ctx context.Context, noteID, requesterID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	var ownerID string
	err := r.pool.QueryRow(ctx,
		`SELECT user_id FROM notes WHERE id = $1`,
		noteID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to check note owner", zap.Error(err))
		return fmt.Errorf("failed to check note owner: %w", err)
	}

	if ownerID != requesterID {
		log.Debug(ctx, "delete attempt by non-owner",
			zap.String("noteID", noteID), zap.String("requesterID", requesterID))
		return entities.ErrNotOwner
	}

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM notes WHERE id = $1`,
		noteID,
	); err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// SearchByTitle ищет заметки по подстроке заголовка без привязки к началу,
// без учета регистра, с сортировкой по заголовку по возрастанию.
// Символы % и _ в запросе трактуются буквально, а не как шаблоны LIKE.
func (r *NoteRepository) SearchByTitle(ctx context.Context, substring string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.SearchByTitle"))
	log.Debug(ctx, "searching notes by title", zap.String("substring", substring))

	notes, err := r.queryNotes(ctx,
		`SELECT id, user_id, title, content, created_at
         FROM notes
         WHERE title ILIKE '%' || $1 || '%' ESCAPE '\'
         ORDER BY title ASC, id`,
		escapeLikePattern(substring))
	if err != nil {
		log.Error(ctx, "failed to search notes", zap.Error(err))
		return nil, err
	}

	return notes, nil
}

// escapeLikePattern экранирует служебные символы LIKE во вводе пользователя.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// queryNotes выполняет запрос и сканирует строки заметок.
func (r *NoteRepository) queryNotes(ctx context.Context, query string, args ...interface{}) ([]*entities.Note, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		var note entities.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// loadTags загружает метки заметки в порядке имен.
func (r *NoteRepository) loadTags(ctx context.Context, noteID string) ([]*entities.Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.name, t.created_at
         FROM tags t
         JOIN notes_tags nt ON nt.tag_id = t.id
         WHERE nt.note_id = $1
         ORDER BY t.name`,
		noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query note tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*entities.Tag, 0)
	for rows.Next() {
		var tag entities.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tags, nil
}

// replaceTagSet вставляет связи заметки с метками, разрешая tagIDs
// по таблице меток: несуществующие идентификаторы молча пропускаются.
func replaceTagSet(ctx context.Context, tx pgx.Tx, noteID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO notes_tags (note_id, tag_id)
         SELECT $1, t.id FROM tags t WHERE t.id = ANY($2)
         ON CONFLICT DO NOTHING`,
		noteID, tagIDs,
	); err != nil {
		return fmt.Errorf("failed to insert note tags: %w", err)
	}

	return nil
}
