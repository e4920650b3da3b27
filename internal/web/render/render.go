// Package render содержит отрисовку HTML шаблонов для веб-интерфейса.
package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

const baseTemplate = "templates/base.html"

var (
	ErrNoTemplates      = errors.New("no templates found")
	ErrTemplateNotFound = errors.New("template not found")
)

// Engine отрисовывает HTML шаблоны и реализует интерфейс fiber.Views.
// Каждая страница собирается из базового шаблона и своего файла;
// шаблоны разбираются один раз при загрузке.
type Engine struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	mu        sync.RWMutex
	loaded    bool
}

// NewEngine создает движок отрисовки поверх встроенных шаблонов.
func NewEngine() *Engine {
	return &Engine{
		templates: make(map[string]*template.Template),
		funcMap:   createFuncMap(),
	}
}

// Load разбирает все встроенные шаблоны. Вызывается fiber при старте.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return nil
	}

	baseContent, err := templatesFS.ReadFile(baseTemplate)
	if err != nil {
		return fmt.Errorf("failed to read base template: %w", err)
	}

	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".html") || name == "base.html" {
			continue
		}

		pageContent, err := templatesFS.ReadFile(path.Join("templates", name))
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}

		tmpl := template.New("base").Funcs(e.funcMap)
		tmpl, err = tmpl.Parse(string(baseContent))
		if err != nil {
			return fmt.Errorf("failed to parse base template for %s: %w", name, err)
		}
		tmpl, err = tmpl.Parse(string(pageContent))
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		e.templates[name] = tmpl
	}

	if len(e.templates) == 0 {
		return ErrNoTemplates
	}

	e.loaded = true
	return nil
}

// Render исполняет именованный шаблон и пишет результат в w.
func (e *Engine) Render(w io.Writer, name string, bind any, _ ...string) error {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()

	if !loaded {
		if err := e.Load(); err != nil {
			return err
		}
	}

	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	if err := tmpl.ExecuteTemplate(w, "base", bind); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}

	return nil
}

// createFuncMap возвращает функции, доступные из шаблонов.
func createFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": formatTime,
		"truncate":   truncate,
	}
}

// formatTime форматирует время для отображения на страницах.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

// truncate обрезает строку до n символов, добавляя многоточие.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	if n <= 3 {
		return string(runes[:n])
	}

	return string(runes[:n-3]) + "..."
}
