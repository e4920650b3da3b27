// Package entities определяет доменные сущности заметок и меток.
package entities

import (
	"errors"
	"time"
)

// Ошибки домена заметок.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrNotOwner     = errors.New("note is owned by another user")
	ErrEmptyTitle   = errors.New("note title cannot be empty")
	ErrEmptyOwner   = errors.New("note owner cannot be empty")
)

// Note представляет собой заметку пользователя.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Tags      []*Tag    `json:"tags,omitempty"`
}

// NewNote создает новую заметку с указанным владельцем, заголовком и содержимым.
func NewNote(userID, title, content string) *Note {
	return &Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// TagIDs возвращает идентификаторы меток заметки.
func (n *Note) TagIDs() []string {
	ids := make([]string, 0, len(n.Tags))
	for _, tag := range n.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
