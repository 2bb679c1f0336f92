package remote

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/app/playback"
	"github.com/osa030/rcplayer/internal/app/view"
)

// Views renders playback state into page fragments.
type Views struct {
	page     *Page
	renderer *view.Renderer
}

// NewViews creates views that render through r.
func NewViews(page *Page, r *view.Renderer) *Views {
	return &Views{page: page, renderer: r}
}

// Ensure Views implements the interface.
var _ playback.View = (*Views)(nil)

// RenderList implements playback.View.
func (v *Views) RenderList(s playback.Snapshot) {
	v.render(view.TargetList, v.renderer.List, s)
}

// RenderMeta implements playback.View. Session info is refreshed alongside.
func (v *Views) RenderMeta(s playback.Snapshot) {
	v.render(view.TargetMeta, v.renderer.Meta, s)
	v.render(view.TargetSession, v.renderer.Session, s)
}

func (v *Views) render(target string, fn func(playback.Snapshot) (string, error), s playback.Snapshot) {
	html, err := fn(s)
	if err != nil {
		zlog.Error().Err(err).Msgf("remote: render failed: target=%s", target)
		return
	}
	v.page.Render(target, html)
}
