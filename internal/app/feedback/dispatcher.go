// Package feedback reports user actions on the current item to the backend.
package feedback

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/app/playback"
	"github.com/osa030/rcplayer/internal/infra/backend"
)

// Well-known actions. Other strings pass through unchanged.
const (
	ActionLike  = "like"
	ActionSkip  = "skip"
	ActionBlock = "block"
)

// Advances reports whether the action moves the cursor forward after it is sent.
func Advances(action string) bool {
	return action == ActionSkip || action == ActionBlock
}

// Submitter delivers a feedback record.
type Submitter interface {
	SubmitFeedback(ctx context.Context, fb backend.FeedbackRequest) error
}

// Source provides the navigation state at call time.
type Source interface {
	Snapshot() playback.Snapshot
}

// Dispatcher sends feedback in the background.
type Dispatcher struct {
	source    Source
	submitter Submitter
	timeout   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher creates a dispatcher. timeout bounds each submission.
func NewDispatcher(source Source, submitter Submitter, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		source:    source,
		submitter: submitter,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Send captures the current session and item and submits action without
// waiting for the result. It returns false when there is no current item.
func (d *Dispatcher) Send(action string) bool {
	snap := d.source.Snapshot()
	it, ok := snap.Current()
	if !ok {
		return false
	}

	fb := backend.FeedbackRequest{
		SessionID: snap.Session.SessionID,
		VideoID:   it.VideoID,
		Action:    action,
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
		defer cancel()

		if err := d.submitter.SubmitFeedback(ctx, fb); err != nil {
			zlog.Warn().Err(err).Msgf("feedback: failed to send: session_id=%s video_id=%s action=%s",
				fb.SessionID, fb.VideoID, fb.Action)
			return
		}
		zlog.Info().Msgf("feedback: sent: session_id=%s video_id=%s action=%s", fb.SessionID, fb.VideoID, fb.Action)
	}()
	return true
}

// Wait blocks until all in-flight submissions have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels in-flight submissions and waits for them.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
