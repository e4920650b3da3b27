package dto

// Значения скрытого поля form_type, различающего формы на главной странице.
const (
	FormTypeNote = "note"
	FormTypeTag  = "tag"
)

// NoteForm содержит поля формы создания и редактирования заметки.
// TagIDs приходит из чекбоксов выбора меток: итоговый набор меток заметки
// полностью заменяется этим списком.
type NoteForm struct {
	Title  string   `form:"title" validate:"required,max=200"`
	Body   string   `form:"body"`
	TagIDs []string `form:"tags"`
}

// TagForm содержит поля формы создания и переименования метки.
type TagForm struct {
	Name string `form:"tag_name" validate:"required,max=50"`
}

// DeleteNoteRequest содержит тело JSON запроса на удаление заметки.
type DeleteNoteRequest struct {
	NoteID string `json:"noteId" validate:"required"`
}

// DeleteTagRequest содержит тело JSON запроса на удаление метки.
type DeleteTagRequest struct {
	TagID string `json:"tagId" validate:"required"`
}

// SearchForm содержит поле формы поиска по заголовкам.
type SearchForm struct {
	Query string `form:"query"`
}
