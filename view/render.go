package view

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/django/v3"
)

//go:embed views
var viewsFS embed.FS

const layoutName = "layout"

type Renderer struct {
	engine *django.Engine
}

func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, fmt.Errorf("views sub fs: %w", err)
	}
	engine := django.NewFileSystem(http.FS(sub), ".django")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Header(h Header) (string, error) {
	layout := h.Layout()
	out, err := r.render("header", map[string]interface{}{
		"title":         h.Title,
		"subtitle":      h.Subtitle,
		"right_slot":    h.RightSlot,
		"columns":       string(layout.Columns),
		"show_subtitle": layout.ShowSubtitle,
		"show_slot":     layout.ShowSlot,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

type DraftRow struct {
	Id        string
	Name      string
	CreatedAt string
}

type ExercisesPage struct {
	Header Header
	Drafts []DraftRow
}

func (r *Renderer) Exercises(page ExercisesPage) ([]byte, error) {
	header, err := r.Header(page.Header)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]interface{}, len(page.Drafts))
	for i, d := range page.Drafts {
		rows[i] = map[string]interface{}{"id": d.Id, "name": d.Name, "created_at": d.CreatedAt}
	}
	return r.page("exercises", page.Header.Title, map[string]interface{}{
		"header": header,
		"drafts": rows,
	})
}

type DraftFormPage struct {
	Header      Header
	SubmitLabel string
	ReturnTo    string
	Error       string
	Values      map[string]string
}

func (r *Renderer) DraftForm(page DraftFormPage) ([]byte, error) {
	header, err := r.Header(page.Header)
	if err != nil {
		return nil, err
	}
	values := page.Values
	if values == nil {
		values = map[string]string{}
	}
	return r.page("draft_form", page.Header.Title, map[string]interface{}{
		"header":       header,
		"submit_label": page.SubmitLabel,
		"return_to":    page.ReturnTo,
		"error":        page.Error,
		"values":       values,
	})
}

func (r *Renderer) page(name string, title string, binding map[string]interface{}) ([]byte, error) {
	binding["page_title"] = title
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, binding, layoutName); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) render(name string, binding map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, binding); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
