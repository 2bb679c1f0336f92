package embed

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/domain/session"
)

// Config holds selector dependencies.
type Config struct {
	Container Container
	Factory   ControlFactory
	Loader    *Loader
	Vars      PlayerVars

	// Schedule runs fn on the owner's dispatch loop. Async continuations
	// (player API load completion, end-of-media) re-enter through it.
	Schedule func(fn func())
	// OnEnded is invoked on the dispatch loop when the live player reaches its end.
	OnEnded func()
}

// Selector mounts items, switching between native control objects and plain
// frame loads. Every method except NewSelector must run on the owner's loop.
type Selector struct {
	container Container
	factory   ControlFactory
	loader    *Loader
	vars      PlayerVars
	schedule  func(fn func())
	onEnded   func()

	control ControlObject // At most one live control object
	framed  bool          // Container holds a frame load
	seq     uint64        // Latest mount request
	current Target
}

// NewSelector creates a new selector.
func NewSelector(cfg Config) *Selector {
	return &Selector{
		container: cfg.Container,
		factory:   cfg.Factory,
		loader:    cfg.Loader,
		vars:      cfg.Vars,
		schedule:  cfg.Schedule,
		onEnded:   cfg.OnEnded,
	}
}

// Mount makes it the displayed item. Native mounts that must wait for the
// player API complete asynchronously; a later Mount supersedes them.
func (s *Selector) Mount(it *session.Item) {
	s.seq++
	seq := s.seq
	t := Resolve(it.PlayURL)
	s.current = t

	zlog.Debug().Msgf("embed: mount seq=%d video_id=%s kind=%s url=%s", seq, it.VideoID, t.Kind, t.URL)

	if t.Kind == KindGeneric {
		s.mountGeneric(t)
		return
	}

	if s.control != nil {
		if err := s.control.LoadVideo(t.VideoID); err != nil {
			zlog.Warn().Msgf("embed: load video in place failed: video=%s err=%v", t.VideoID, err)
		}
		return
	}

	// Stop the previous frame now; the player may take a while to arrive.
	s.clearFrame()

	if s.loader.Ready() {
		s.construct(t)
		return
	}

	go func() {
		err := s.loader.Load(context.Background())
		s.schedule(func() {
			s.finishNative(seq, t, err)
		})
	}()
}

// Live returns true while a native control object exists.
func (s *Selector) Live() bool {
	return s.control != nil
}

// Current returns the target of the latest mount request.
func (s *Selector) Current() Target {
	return s.current
}

// finishNative is the continuation of a native mount that waited for the API.
func (s *Selector) finishNative(seq uint64, t Target, err error) {
	if seq != s.seq {
		zlog.Debug().Msgf("embed: discarding superseded mount seq=%d latest=%d", seq, s.seq)
		return
	}
	if err != nil {
		zlog.Warn().Msgf("embed: falling back to frame load: video=%s err=%v", t.VideoID, err)
		s.mountGeneric(t)
		return
	}
	if s.control != nil {
		if err := s.control.LoadVideo(t.VideoID); err != nil {
			zlog.Warn().Msgf("embed: load video in place failed: video=%s err=%v", t.VideoID, err)
		}
		return
	}
	s.construct(t)
}

func (s *Selector) construct(t Target) {
	s.clearFrame()

	var obj ControlObject
	obj, err := s.factory.Create(s.container, t.VideoID, s.vars, func() {
		s.schedule(func() {
			// Ignore end-of-media from a player that has since been destroyed.
			if s.control == nil || s.control != obj {
				return
			}
			s.onEnded()
		})
	})
	if err != nil {
		zlog.Warn().Msgf("embed: create player failed, falling back to frame load: video=%s err=%v", t.VideoID, err)
		s.container.Reset()
		s.container.SetSource(t.URL)
		s.framed = true
		return
	}
	s.control = obj
	zlog.Debug().Msgf("embed: player created: video=%s", t.VideoID)
}

func (s *Selector) mountGeneric(t Target) {
	if s.control != nil {
		s.control.Destroy()
		s.control = nil
		s.container.Reset()
		zlog.Debug().Msg("embed: player destroyed, container recreated")
	}
	s.container.SetSource(t.URL)
	s.framed = true
}

// clearFrame recreates the container when it still holds a frame load.
func (s *Selector) clearFrame() {
	if !s.framed {
		return
	}
	s.container.Reset()
	s.framed = false
	zlog.Debug().Msg("embed: frame removed, container recreated")
}
