package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagnote/internal/notes/adapters/postgres"
	"tagnote/internal/notes/domain/entities"
	"tagnote/internal/notes/ports/repositories"
	"tagnote/pkg/logger"
)

var _ repositories.NoteRepository = (*postgres.NoteRepository)(nil)

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestNoteRepository_Create(t *testing.T) {
	ctx := testContext(t)

	note := entities.NewNote("owner-1", "Shopping list", "milk, eggs")

	t.Run("Создание заметки с метками в одной транзакции", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tagIDs := []string{"tag-1", "tag-2"}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO notes").
			WithArgs(note.UserID, note.Title, note.Content).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("note-1"))
		mock.ExpectExec("INSERT INTO notes_tags").
			WithArgs("note-1", tagIDs).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))
		mock.ExpectCommit()

		repo := postgres.NewNoteRepository(mock)

		noteID, err := repo.Create(ctx, note, tagIDs)

		require.NoError(t, err)
		assert.Equal(t, "note-1", noteID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Создание заметки без меток не трогает таблицу связей", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO notes").
			WithArgs(note.UserID, note.Title, note.Content).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("note-2"))
		mock.ExpectCommit()

		repo := postgres.NewNoteRepository(mock)

		noteID, err := repo.Create(ctx, note, nil)

		require.NoError(t, err)
		assert.Equal(t, "note-2", noteID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка вставки откатывает транзакцию", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO notes").
			WithArgs(note.UserID, note.Title, note.Content).
			WillReturnError(errors.New("insert failed"))
		mock.ExpectRollback()

		repo := postgres.NewNoteRepository(mock)

		_, err = repo.Create(ctx, note, nil)

		assert.Error(t, err)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_GetByID(t *testing.T) {
	ctx := testContext(t)

	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Заметка возвращается вместе с метками", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, user_id, title, content, created_at").
			WithArgs("note-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}).
				AddRow("note-1", "owner-1", "Title", "Body", now))
		mock.ExpectQuery("SELECT t.id, t.name, t.created_at").
			WithArgs("note-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
				AddRow("tag-1", "go", now).
				AddRow("tag-2", "web", now))

		repo := postgres.NewNoteRepository(mock)

		note, err := repo.GetByID(ctx, "note-1")

		require.NoError(t, err)
		assert.Equal(t, "note-1", note.ID)
		require.Len(t, note.Tags, 2)
		assert.Equal(t, "go", note.Tags[0].Name)
		assert.Equal(t, "web", note.Tags[1].Name)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Несуществующая заметка дает доменную ошибку", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, user_id, title, content, created_at").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewNoteRepository(mock)

		note, err := repo.GetByID(ctx, "missing")

		assert.Nil(t, note)
		assert.ErrorIs(t, err, entities.ErrNoteNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Update(t *testing.T) {
	ctx := testContext(t)

	note := &entities.Note{
		ID:      "note-1",
		UserID:  "owner-1",
		Title:   "Updated",
		Content: "new body",
	}

	t.Run("Полная замена набора меток в одной транзакции", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tagIDs := []string{"tag-2", "tag-3"}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE notes SET").
			WithArgs(note.Title, note.Content, note.ID, note.UserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("DELETE FROM notes_tags").
			WithArgs(note.ID).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mock.ExpectExec("INSERT INTO notes_tags").
			WithArgs(note.ID, tagIDs).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))
		mock.ExpectCommit()

		repo := postgres.NewNoteRepository(mock)

		require.NoError(t, repo.Update(ctx, note, tagIDs))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пустой набор меток снимает все связи", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE notes SET").
			WithArgs(note.Title, note.Content, note.ID, note.UserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("DELETE FROM notes_tags").
			WithArgs(note.ID).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mock.ExpectCommit()

		repo := postgres.NewNoteRepository(mock)

		require.NoError(t, repo.Update(ctx, note, nil))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Чужая или несуществующая заметка не обновляется", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE notes SET").
			WithArgs(note.Title, note.Content, note.ID, note.UserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		repo := postgres.NewNoteRepository(mock)

		err = repo.Update(ctx, note, []string{"tag-1"})

		assert.ErrorIs(t, err, entities.ErrNoteNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("Владелец удаляет заметку", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT user_id FROM notes").
			WithArgs("note-1").
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow("owner-1"))
		mock.ExpectExec("DELETE FROM notes").
			WithArgs("note-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewNoteRepository(mock)

		require.NoError(t, repo.Delete(ctx, "note-1", "owner-1"))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Не владелец получает отказ и заметка не удаляется", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT user_id FROM notes").
			WithArgs("note-1").
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow("owner-1"))

		repo := postgres.NewNoteRepository(mock)

		err = repo.Delete(ctx, "note-1", "intruder")

		assert.ErrorIs(t, err, entities.ErrNotOwner)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Несуществующая заметка дает доменную ошибку", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT user_id FROM notes").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewNoteRepository(mock)

		err = repo.Delete(ctx, "missing", "owner-1")

		assert.ErrorIs(t, err, entities.ErrNoteNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_SearchByTitle(t *testing.T) {
	ctx := testContext(t)

	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Результаты приходят в порядке заголовков", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("ILIKE").
			WithArgs("cat").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}).
				AddRow("n1", "u1", "Category", "", now).
				AddRow("n2", "u1", "Concatenate", "", now))

		repo := postgres.NewNoteRepository(mock)

		notes, err := repo.SearchByTitle(ctx, "cat")

		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "Category", notes[0].Title)
		assert.Equal(t, "Concatenate", notes[1].Title)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Служебные символы LIKE ищутся буквально", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("ILIKE").
			WithArgs(`100\% done\_or\\not`).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}).
				AddRow("n1", "u1", `100% done_or\not`, "", now))

		repo := postgres.NewNoteRepository(mock)

		notes, err := repo.SearchByTitle(ctx, `100% done_or\not`)

		require.NoError(t, err)
		require.Len(t, notes, 1)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пустой результат поиска", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("ILIKE").
			WithArgs("zzz").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "content", "created_at"}))

		repo := postgres.NewNoteRepository(mock)

		notes, err := repo.SearchByTitle(ctx, "zzz")

		require.NoError(t, err)
		assert.Empty(t, notes)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
