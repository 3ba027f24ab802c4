package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04 PM MST"
)

type templateKind string

const (
	kindScheduled templateKind = "scheduled"
	kindReminder  templateKind = "reminder"
	kindFeedback  templateKind = "feedback"
)

var accents = map[templateKind]string{
	kindScheduled: "#10b981",
	kindReminder:  "#f59e0b",
	kindFeedback:  "#8b5cf6",
}

// emailData is the value every template renders against.
type emailData struct {
	Heading       string
	Accent        string
	CandidateName string
	Title         string
	Date          string
	Time          string
	MeetingLink   string
	Rating        int
}

// Renderer turns events into HTML emails.
type Renderer struct {
	templates map[templateKind]*template.Template
	location  *time.Location
}

// NewRenderer parses the embedded templates. Times are shown in loc, or UTC when nil.
func NewRenderer(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}

	r := &Renderer{templates: make(map[templateKind]*template.Template), location: loc}

	for kind := range accents {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(kind)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}

		r.templates[kind] = tmpl
	}

	return r, nil
}

func (r *Renderer) render(kind templateKind, data emailData) (string, error) {
	data.Accent = accents[kind]

	var buf bytes.Buffer
	if err := r.templates[kind].ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s email: %w", kind, err)
	}

	return buf.String(), nil
}

func (r *Renderer) when(t time.Time) (string, string) {
	local := t.In(r.location)

	return local.Format(dateLayout), local.Format(timeLayout)
}
