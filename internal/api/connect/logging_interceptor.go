package connect

import (
	"context"
	"time"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"
)

// loggingInterceptor records each RPC at debug level and failures at warn level.
type loggingInterceptor struct{}

// NewLoggingInterceptor creates an interceptor that logs unary calls and streams.
func NewLoggingInterceptor() connect.Interceptor {
	return loggingInterceptor{}
}

func (loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		logCall(req.Spec().Procedure, req.Peer().Addr, start, err)
		return resp, err
	}
}

func (loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		zlog.Debug().Msgf("connect: stream opened: procedure=%s peer=%s", conn.Spec().Procedure, conn.Peer().Addr)
		err := next(ctx, conn)
		logCall(conn.Spec().Procedure, conn.Peer().Addr, start, err)
		return err
	}
}

func logCall(procedure, peer string, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		zlog.Warn().Msgf("connect: %s failed: peer=%s code=%s elapsed=%s err=%v",
			procedure, peer, connect.CodeOf(err), elapsed, err)
		return
	}
	zlog.Debug().Msgf("connect: %s ok: peer=%s elapsed=%s", procedure, peer, elapsed)
}
