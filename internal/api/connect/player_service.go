package connect

import (
	"context"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/osa030/rcplayer/internal/app/builder"
	"github.com/osa030/rcplayer/internal/app/notification"
	"github.com/osa030/rcplayer/internal/app/player"
	"github.com/osa030/rcplayer/internal/infra/backend"
)

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	player *player.Manager
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(player *player.Manager) *PlayerService {
	return &PlayerService{player: player}
}

// Ensure PlayerService implements the interface.
var _ PlayerServiceHandler = (*PlayerService)(nil)

// BuildSession builds and installs a new session.
func (s *PlayerService) BuildSession(
	ctx context.Context,
	req *connect.Request[BuildSessionRequest],
) (*connect.Response[StateInfo], error) {
	if err := s.player.BuildSession(ctx, req.Msg.SeedURL, req.Msg.N); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(newStateInfo(s.player.Snapshot())), nil
}

// Select moves to the requested index.
func (s *PlayerService) Select(
	ctx context.Context,
	req *connect.Request[SelectRequest],
) (*connect.Response[StateInfo], error) {
	s.player.Select(req.Msg.Index)
	return s.state(ctx)
}

// Next moves to the next item.
func (s *PlayerService) Next(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[StateInfo], error) {
	s.player.Next()
	return s.state(ctx)
}

// Prev moves to the previous item.
func (s *PlayerService) Prev(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[StateInfo], error) {
	s.player.Prev()
	return s.state(ctx)
}

// Feedback reports an action on the current item.
func (s *PlayerService) Feedback(
	ctx context.Context,
	req *connect.Request[FeedbackRequest],
) (*connect.Response[FeedbackResponse], error) {
	if req.Msg.Action == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("action is required"))
	}
	sent, err := s.player.Feedback(ctx, req.Msg.Action)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.player.Flush(ctx); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&FeedbackResponse{
		Sent:  sent,
		State: newStateInfo(s.player.Snapshot()),
	}), nil
}

// OpenExternal opens the current item's canonical URL on the page.
func (s *PlayerService) OpenExternal(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[OpenExternalResponse], error) {
	url, err := s.player.OpenExternal(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&OpenExternalResponse{URL: url}), nil
}

// Key applies a keyboard shortcut.
func (s *PlayerService) Key(
	ctx context.Context,
	req *connect.Request[KeyRequest],
) (*connect.Response[HandledResponse], error) {
	handled, err := s.player.Key(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&HandledResponse{Handled: handled}), nil
}

// PostMessage handles a message the page received from another browsing context.
// The payload is the message data verbatim.
func (s *PlayerService) PostMessage(
	ctx context.Context,
	req *connect.Request[structpb.Value],
) (*connect.Response[HandledResponse], error) {
	handled := s.player.Message(req.Msg.AsInterface())
	return connect.NewResponse(&HandledResponse{Handled: handled}), nil
}

// PlayerEnded reports end-of-media from a native player.
func (s *PlayerService) PlayerEnded(
	ctx context.Context,
	req *connect.Request[PlayerEndedRequest],
) (*connect.Response[HandledResponse], error) {
	handled := s.player.PlayerEnded(req.Msg.Handle)
	return connect.NewResponse(&HandledResponse{Handled: handled}), nil
}

// APIReady acknowledges that the page loaded the native player API.
func (s *PlayerService) APIReady(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[emptypb.Empty], error) {
	s.player.APIReady()
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// GetState returns the current navigation state.
func (s *PlayerService) GetState(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[StateInfo], error) {
	return s.state(ctx)
}

// Subscribe streams page commands, starting with the initial state.
func (s *PlayerService) Subscribe(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
	stream *connect.ServerStream[notification.Command],
) error {
	adapter := &commandStreamAdapter{stream: stream}

	// Hold the adapter until the initial state is out so broadcasts queue behind it.
	adapter.mu.Lock()
	subscriptionID, initial, err := s.player.Attach(ctx, adapter)
	if err != nil {
		adapter.mu.Unlock()
		return toConnectError(err)
	}
	err = stream.Send(initial)
	adapter.mu.Unlock()
	defer adapter.close()
	defer s.player.Detach(subscriptionID)
	if err != nil {
		return err
	}

	zlog.Info().Msgf("connect: page subscribed: id=%s", subscriptionID)

	// Wait for context cancellation or player shutdown
	select {
	case <-ctx.Done():
	case <-s.player.Done():
	}

	zlog.Info().Msgf("connect: page unsubscribed: id=%s", subscriptionID)
	return nil
}

func (s *PlayerService) state(ctx context.Context) (*connect.Response[StateInfo], error) {
	if err := s.player.Flush(ctx); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(newStateInfo(s.player.Snapshot())), nil
}

// errStreamClosed is returned for commands queued after the page went away.
var errStreamClosed = errors.New("stream closed")

// commandStreamAdapter adapts connect.ServerStream to notification.Stream.
// Sends are serialized with the initial state and stop once the handler returns.
type commandStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[notification.Command]
	closed bool
}

func (a *commandStreamAdapter) Send(cmd *notification.Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errStreamClosed
	}
	return a.stream.Send(cmd)
}

func (a *commandStreamAdapter) close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

// toConnectError maps application errors to Connect codes.
func toConnectError(err error) error {
	var httpErr *backend.HTTPError
	switch {
	case errors.Is(err, builder.ErrSeedRequired):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, builder.ErrBuilding):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, player.ErrClosed):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.As(err, &httpErr):
		return connect.NewError(connect.CodeUnavailable, httpErr)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
