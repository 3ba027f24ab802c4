package middleware

import (
	"net"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/videosync-go/internal/handlers"
)

// RequestMeta is a middleware that adds the peer address and user-agent to the request context.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			RemoteAddr: remoteHost(ctx.RemoteAddr()),
			UserAgent:  ctx.Header("User-Agent"),
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return host
}
