package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/osa030/rcplayer/internal/app/notification"
)

// PlayerClient is a client for the PlayerService.
type PlayerClient struct {
	buildSession *connect.Client[BuildSessionRequest, StateInfo]
	selectIndex  *connect.Client[SelectRequest, StateInfo]
	next         *connect.Client[emptypb.Empty, StateInfo]
	prev         *connect.Client[emptypb.Empty, StateInfo]
	feedback     *connect.Client[FeedbackRequest, FeedbackResponse]
	openExternal *connect.Client[emptypb.Empty, OpenExternalResponse]
	key          *connect.Client[KeyRequest, HandledResponse]
	postMessage  *connect.Client[structpb.Value, HandledResponse]
	playerEnded  *connect.Client[PlayerEndedRequest, HandledResponse]
	apiReady     *connect.Client[emptypb.Empty, emptypb.Empty]
	getState     *connect.Client[emptypb.Empty, StateInfo]
	subscribe    *connect.Client[emptypb.Empty, notification.Command]
}

// NewPlayerClient constructs a client for the PlayerService at baseURL.
func NewPlayerClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &PlayerClient{
		buildSession: connect.NewClient[BuildSessionRequest, StateInfo](httpClient, baseURL+PlayerServiceBuildSessionProcedure, opts...),
		selectIndex:  connect.NewClient[SelectRequest, StateInfo](httpClient, baseURL+PlayerServiceSelectProcedure, opts...),
		next:         connect.NewClient[emptypb.Empty, StateInfo](httpClient, baseURL+PlayerServiceNextProcedure, opts...),
		prev:         connect.NewClient[emptypb.Empty, StateInfo](httpClient, baseURL+PlayerServicePrevProcedure, opts...),
		feedback:     connect.NewClient[FeedbackRequest, FeedbackResponse](httpClient, baseURL+PlayerServiceFeedbackProcedure, opts...),
		openExternal: connect.NewClient[emptypb.Empty, OpenExternalResponse](httpClient, baseURL+PlayerServiceOpenExternalProcedure, opts...),
		key:          connect.NewClient[KeyRequest, HandledResponse](httpClient, baseURL+PlayerServiceKeyProcedure, opts...),
		postMessage:  connect.NewClient[structpb.Value, HandledResponse](httpClient, baseURL+PlayerServicePostMessageProcedure, opts...),
		playerEnded:  connect.NewClient[PlayerEndedRequest, HandledResponse](httpClient, baseURL+PlayerServicePlayerEndedProcedure, opts...),
		apiReady:     connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+PlayerServiceAPIReadyProcedure, opts...),
		getState:     connect.NewClient[emptypb.Empty, StateInfo](httpClient, baseURL+PlayerServiceGetStateProcedure, opts...),
		subscribe:    connect.NewClient[emptypb.Empty, notification.Command](httpClient, baseURL+PlayerServiceSubscribeProcedure, opts...),
	}
}

// BuildSession calls PlayerService.BuildSession.
func (c *PlayerClient) BuildSession(ctx context.Context, seedURL, n string) (*StateInfo, error) {
	resp, err := c.buildSession.CallUnary(ctx, connect.NewRequest(&BuildSessionRequest{SeedURL: seedURL, N: n}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Select calls PlayerService.Select.
func (c *PlayerClient) Select(ctx context.Context, index int) (*StateInfo, error) {
	resp, err := c.selectIndex.CallUnary(ctx, connect.NewRequest(&SelectRequest{Index: index}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Next calls PlayerService.Next.
func (c *PlayerClient) Next(ctx context.Context) (*StateInfo, error) {
	resp, err := c.next.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Prev calls PlayerService.Prev.
func (c *PlayerClient) Prev(ctx context.Context) (*StateInfo, error) {
	resp, err := c.prev.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Feedback calls PlayerService.Feedback.
func (c *PlayerClient) Feedback(ctx context.Context, action string) (*FeedbackResponse, error) {
	resp, err := c.feedback.CallUnary(ctx, connect.NewRequest(&FeedbackRequest{Action: action}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// OpenExternal calls PlayerService.OpenExternal.
func (c *PlayerClient) OpenExternal(ctx context.Context) (string, error) {
	resp, err := c.openExternal.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return "", err
	}
	return resp.Msg.URL, nil
}

// Key calls PlayerService.Key.
func (c *PlayerClient) Key(ctx context.Context, k KeyRequest) (bool, error) {
	resp, err := c.key.CallUnary(ctx, connect.NewRequest(&k))
	if err != nil {
		return false, err
	}
	return resp.Msg.Handled, nil
}

// PostMessage calls PlayerService.PostMessage with an arbitrary JSON-compatible payload.
func (c *PlayerClient) PostMessage(ctx context.Context, payload any) (bool, error) {
	v, err := structpb.NewValue(payload)
	if err != nil {
		return false, err
	}
	resp, err := c.postMessage.CallUnary(ctx, connect.NewRequest(v))
	if err != nil {
		return false, err
	}
	return resp.Msg.Handled, nil
}

// PlayerEnded calls PlayerService.PlayerEnded.
func (c *PlayerClient) PlayerEnded(ctx context.Context, handle string) (bool, error) {
	resp, err := c.playerEnded.CallUnary(ctx, connect.NewRequest(&PlayerEndedRequest{Handle: handle}))
	if err != nil {
		return false, err
	}
	return resp.Msg.Handled, nil
}

// APIReady calls PlayerService.APIReady.
func (c *PlayerClient) APIReady(ctx context.Context) error {
	_, err := c.apiReady.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	return err
}

// GetState calls PlayerService.GetState.
func (c *PlayerClient) GetState(ctx context.Context) (*StateInfo, error) {
	resp, err := c.getState.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Subscribe calls PlayerService.Subscribe.
func (c *PlayerClient) Subscribe(ctx context.Context) (*connect.ServerStreamForClient[notification.Command], error) {
	return c.subscribe.CallServerStream(ctx, connect.NewRequest(&emptypb.Empty{}))
}
