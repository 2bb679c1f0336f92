// Package view renders the queue list, item metadata and session info
// fragments displayed by the page.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/osa030/rcplayer/internal/app/playback"
	"github.com/osa030/rcplayer/internal/domain/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Fragment targets.
const (
	TargetList    = "list"
	TargetMeta    = "meta"
	TargetSession = "session"
)

// Renderer renders fragments from the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"join": strings.Join,
		"inc":  func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse view templates")
	}
	return &Renderer{tmpl: tmpl}, nil
}

type listRow struct {
	Index   int
	Title   string
	URL     string
	VideoID string
	Active  bool
}

type metaData struct {
	Present bool
	Title   string
	URL     string
	VideoID string
	Tags    []string
	Note    string
	Score   string
}

type sessionData struct {
	Present   bool
	SessionID string
	SeedURL   string
	Position  int
	Len       int
}

// List renders every item with the current one marked active.
func (r *Renderer) List(s playback.Snapshot) (string, error) {
	var rows []listRow
	if s.Session != nil {
		rows = lo.Map(s.Session.Items, func(it session.Item, i int) listRow {
			return listRow{
				Index:   i,
				Title:   it.DisplayTitle(),
				URL:     it.URL,
				VideoID: it.VideoID,
				Active:  i == s.Index,
			}
		})
	}
	return r.execute("list", rows)
}

// Meta renders the current item's details. Absent fields render empty.
func (r *Renderer) Meta(s playback.Snapshot) (string, error) {
	var d metaData
	if it, ok := s.Current(); ok {
		d = metaData{
			Present: true,
			Title:   it.Title,
			URL:     it.URL,
			VideoID: it.VideoID,
			Tags:    lo.Filter(it.TagList(), func(t string, _ int) bool { return t != "" }),
			Score:   formatScore(it.Score),
		}
		if it.Explain != nil {
			d.Note = it.Explain.Note
		}
	}
	return r.execute("meta", d)
}

// Session renders the session identifier and seed.
func (r *Renderer) Session(s playback.Snapshot) (string, error) {
	var d sessionData
	if s.Session != nil {
		d = sessionData{
			Present:   true,
			SessionID: s.Session.SessionID,
			SeedURL:   s.Session.SeedURL,
			Position:  lo.Ternary(s.Len() > 0, s.Index+1, 0),
			Len:       s.Len(),
		}
	}
	return r.execute("session", d)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", name)
	}
	return buf.String(), nil
}

func formatScore(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 3, 64)
}
