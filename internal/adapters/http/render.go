package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/randomtoy/lifeassist-go/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// historyView is one history row with its response rendered to HTML.
type historyView struct {
	Title    string
	Prompt   string
	Body     template.HTML
	Expanded bool
}

type pageData struct {
	Catalog  domain.Catalog
	Kinds    []KindResp
	Locked   bool
	Theme    domain.Theme
	History  historyData
	Defaults domain.Selection
}

type historyData struct {
	Items []historyView
	Empty string
}

// renderer turns markdown replies into HTML and executes the page templates.
type renderer struct {
	md    goldmark.Markdown
	pages *template.Template
}

func newRenderer() (*renderer, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &renderer{
		// Raw HTML in replies is escaped; goldmark only emits it with html.WithUnsafe.
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		pages: pages,
	}, nil
}

func (r *renderer) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func (r *renderer) history(items []domain.HistoryItem) historyData {
	if len(items) == 0 {
		return historyData{Empty: domain.EmptyHistoryMessage}
	}
	views := make([]historyView, len(items))
	for i, it := range items {
		views[i] = historyView{
			Title:    it.Title,
			Prompt:   it.Prompt,
			Body:     r.markdown(it.Response),
			Expanded: it.Expanded,
		}
	}
	return historyData{Items: views}
}

// Render implements echo.Renderer.
func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.pages.ExecuteTemplate(w, name, data)
}
