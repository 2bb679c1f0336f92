package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/osa030/rcplayer/internal/app/notification"
)

// PlayerServiceName is the fully-qualified name of the PlayerService service.
const PlayerServiceName = "rcplayer.v1.PlayerService"

// Procedure paths of PlayerService.
const (
	PlayerServiceBuildSessionProcedure = "/rcplayer.v1.PlayerService/BuildSession"
	PlayerServiceSelectProcedure       = "/rcplayer.v1.PlayerService/Select"
	PlayerServiceNextProcedure         = "/rcplayer.v1.PlayerService/Next"
	PlayerServicePrevProcedure         = "/rcplayer.v1.PlayerService/Prev"
	PlayerServiceFeedbackProcedure     = "/rcplayer.v1.PlayerService/Feedback"
	PlayerServiceOpenExternalProcedure = "/rcplayer.v1.PlayerService/OpenExternal"
	PlayerServiceKeyProcedure          = "/rcplayer.v1.PlayerService/Key"
	PlayerServicePostMessageProcedure  = "/rcplayer.v1.PlayerService/PostMessage"
	PlayerServicePlayerEndedProcedure  = "/rcplayer.v1.PlayerService/PlayerEnded"
	PlayerServiceAPIReadyProcedure     = "/rcplayer.v1.PlayerService/APIReady"
	PlayerServiceGetStateProcedure     = "/rcplayer.v1.PlayerService/GetState"
	PlayerServiceSubscribeProcedure    = "/rcplayer.v1.PlayerService/Subscribe"
)

// PlayerServiceHandler is implemented by the player RPC service.
type PlayerServiceHandler interface {
	BuildSession(context.Context, *connect.Request[BuildSessionRequest]) (*connect.Response[StateInfo], error)
	Select(context.Context, *connect.Request[SelectRequest]) (*connect.Response[StateInfo], error)
	Next(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[StateInfo], error)
	Prev(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[StateInfo], error)
	Feedback(context.Context, *connect.Request[FeedbackRequest]) (*connect.Response[FeedbackResponse], error)
	OpenExternal(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[OpenExternalResponse], error)
	Key(context.Context, *connect.Request[KeyRequest]) (*connect.Response[HandledResponse], error)
	PostMessage(context.Context, *connect.Request[structpb.Value]) (*connect.Response[HandledResponse], error)
	PlayerEnded(context.Context, *connect.Request[PlayerEndedRequest]) (*connect.Response[HandledResponse], error)
	APIReady(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	GetState(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[StateInfo], error)
	Subscribe(context.Context, *connect.Request[emptypb.Empty], *connect.ServerStream[notification.Command]) error
}

// NewPlayerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewPlayerServiceHandler(svc PlayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	handlers := map[string]http.Handler{
		PlayerServiceBuildSessionProcedure: connect.NewUnaryHandler(PlayerServiceBuildSessionProcedure, svc.BuildSession, opts...),
		PlayerServiceSelectProcedure:       connect.NewUnaryHandler(PlayerServiceSelectProcedure, svc.Select, opts...),
		PlayerServiceNextProcedure:         connect.NewUnaryHandler(PlayerServiceNextProcedure, svc.Next, opts...),
		PlayerServicePrevProcedure:         connect.NewUnaryHandler(PlayerServicePrevProcedure, svc.Prev, opts...),
		PlayerServiceFeedbackProcedure:     connect.NewUnaryHandler(PlayerServiceFeedbackProcedure, svc.Feedback, opts...),
		PlayerServiceOpenExternalProcedure: connect.NewUnaryHandler(PlayerServiceOpenExternalProcedure, svc.OpenExternal, opts...),
		PlayerServiceKeyProcedure:          connect.NewUnaryHandler(PlayerServiceKeyProcedure, svc.Key, opts...),
		PlayerServicePostMessageProcedure:  connect.NewUnaryHandler(PlayerServicePostMessageProcedure, svc.PostMessage, opts...),
		PlayerServicePlayerEndedProcedure:  connect.NewUnaryHandler(PlayerServicePlayerEndedProcedure, svc.PlayerEnded, opts...),
		PlayerServiceAPIReadyProcedure:     connect.NewUnaryHandler(PlayerServiceAPIReadyProcedure, svc.APIReady, opts...),
		PlayerServiceGetStateProcedure:     connect.NewUnaryHandler(PlayerServiceGetStateProcedure, svc.GetState, opts...),
		PlayerServiceSubscribeProcedure:    connect.NewServerStreamHandler(PlayerServiceSubscribeProcedure, svc.Subscribe, opts...),
	}

	return "/" + PlayerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
