package entities

import (
	"errors"
	"time"
)

// Ошибки домена меток.
var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagAlreadyExists = errors.New("tag with this name already exists")
	ErrEmptyTagName     = errors.New("tag name cannot be empty")
)

// Tag представляет глобальную метку, доступную всем пользователям.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
