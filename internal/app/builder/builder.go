// Package builder requests new sessions from the backend and installs them.
package builder

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/domain/session"
)

// DefaultN is the queue length requested when none is given.
const DefaultN = 25

// Alert messages shown to the user.
const (
	MsgSeedRequired = "Enter a seed URL"
	MsgBuildFailed  = "Failed to build session: "
)

// Errors
var (
	ErrSeedRequired = errors.New("seed URL is required")
	ErrBuilding     = errors.New("a session build is already in progress")
)

// Client fetches a session from the backend.
type Client interface {
	BuildSession(ctx context.Context, seedURL string, n int) (*session.Session, error)
}

// Target receives a successfully built session.
type Target interface {
	Reset(s *session.Session)
}

// UI surfaces build progress to the user.
type UI interface {
	Alert(msg string)
	SetBuildEnabled(enabled bool)
}

// Builder runs one session build at a time.
type Builder struct {
	client   Client
	target   Target
	ui       UI
	defaultN int

	building atomic.Bool
}

// New creates a builder. defaultN replaces missing or invalid counts.
func New(client Client, target Target, ui UI, defaultN int) *Builder {
	if defaultN <= 0 {
		defaultN = DefaultN
	}
	return &Builder{client: client, target: target, ui: ui, defaultN: defaultN}
}

// inFlight reports whether a build is in flight.
func (b *Builder) inFlight() bool {
	return b.building.Load()
}

// ParseN reads the leading integer of the count input ("10abc" is 10),
// falling back to def when the input does not start with a number.
// Zero and negative counts pass through for the backend to judge.
func ParseN(input string, def int) int {
	s := strings.TrimSpace(input)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}

// Build trims seedInput, requests a session of nInput items and installs it.
// The current session is left untouched on failure.
func (b *Builder) Build(ctx context.Context, seedInput, nInput string) error {
	seed := strings.TrimSpace(seedInput)
	n := ParseN(nInput, b.defaultN)
	if seed == "" {
		b.ui.Alert(MsgSeedRequired)
		return ErrSeedRequired
	}

	if !b.building.CompareAndSwap(false, true) {
		return ErrBuilding
	}
	b.ui.SetBuildEnabled(false)
	defer func() {
		b.building.Store(false)
		b.ui.SetBuildEnabled(true)
	}()

	zlog.Info().Msgf("builder: building session: seed_url=%s n=%d", seed, n)
	s, err := b.client.BuildSession(ctx, seed, n)
	if err != nil {
		zlog.Error().Err(err).Msgf("builder: failed to build session: seed_url=%s", seed)
		b.ui.Alert(MsgBuildFailed + err.Error())
		return errors.Wrap(err, "failed to build session")
	}

	b.target.Reset(s)
	return nil
}
