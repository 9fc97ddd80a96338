package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"todolist/internal/item/model"
)

// ListTitle is the heading shown above the items.
const ListTitle = "ToDo-List"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type ListPage struct {
	ListTitle      string
	ListItems      []model.Item
	MaxTitleLength int
}

// NewListPage fills in the fixed parts of the page around items.
func NewListPage(items []model.Item) ListPage {
	return ListPage{
		ListTitle:      ListTitle,
		ListItems:      items,
		MaxTitleLength: model.MaxTitleLength,
	}
}

type Renderer struct {
	index *template.Template
}

func NewRenderer() (*Renderer, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	return &Renderer{index: index}, nil
}

// Render executes into a buffer first so a failed render writes nothing to w.
func (r *Renderer) Render(w io.Writer, page ListPage) error {
	var buf bytes.Buffer
	if err := r.index.Execute(&buf, page); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded stylesheet; mount it with http.StripPrefix("/static/", ...).
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
