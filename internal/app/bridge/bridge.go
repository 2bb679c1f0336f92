// Package bridge translates external signals into navigation transitions.
package bridge

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/app/playback"
)

// EndedMarker identifies an end-of-media message posted by an embedded frame.
const EndedMarker = "VideoEvent: Ended"

// Navigator is the subset of the controller the bridge drives.
type Navigator interface {
	Advance()
	Retreat()
	Snapshot() playback.Snapshot
}

// FeedbackSender reports an action against the current item. Send returns
// false when there was nothing to report.
type FeedbackSender interface {
	Send(action string) bool
}

// Bridge routes inbound messages and keyboard shortcuts.
type Bridge struct {
	nav      Navigator
	feedback FeedbackSender
	keys     bool
}

// New creates a bridge. keys disables keyboard shortcuts when false.
func New(nav Navigator, feedback FeedbackSender, keys bool) *Bridge {
	return &Bridge{nav: nav, feedback: feedback, keys: keys}
}

// endedMessage is the object form of a frame message.
type endedMessage struct {
	Message string `mapstructure:"message"`
}

// IsEndedSignal reports whether payload is a string, or an object with a
// message string, containing EndedMarker. Other shapes are never an error.
func IsEndedSignal(payload any) bool {
	switch v := payload.(type) {
	case nil:
		return false
	case string:
		return strings.Contains(v, EndedMarker)
	}

	var msg endedMessage
	if err := mapstructure.Decode(payload, &msg); err != nil {
		return false
	}
	return strings.Contains(msg.Message, EndedMarker)
}

// HandleMessage advances once when payload is an end-of-media signal.
func (b *Bridge) HandleMessage(payload any) bool {
	if !IsEndedSignal(payload) {
		return false
	}
	zlog.Debug().Msg("bridge: end-of-media message received")
	b.nav.Advance()
	return true
}

// HandleKey applies a keyboard shortcut. It returns true when the key was
// handled and its default behavior should be suppressed.
func (b *Bridge) HandleKey(k Key) bool {
	if !b.keys || !b.nav.Snapshot().Active() {
		return false
	}

	action := Lookup(k)
	switch action {
	case ActionAdvance:
		b.nav.Advance()
	case ActionRetreat:
		b.nav.Retreat()
	case ActionLike:
		b.feedback.Send("like")
	case ActionSkip:
		if b.feedback.Send("skip") {
			b.nav.Advance()
		}
	default:
		return false
	}

	zlog.Debug().Msgf("bridge: key %s -> %s", k, action)
	return true
}

// KeysEnabled reports whether keyboard shortcuts are active.
func (b *Bridge) KeysEnabled() bool {
	return b.keys
}
