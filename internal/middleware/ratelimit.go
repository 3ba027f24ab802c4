package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/videosync-go/internal/auth"
	"github.com/serroba/videosync-go/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// RateLimit returns a Huma middleware that admits or rejects requests against the
// category quota declared in the operation's metadata (see ratelimit.EndpointConfig).
//
// The caller is identified by the authenticated principal when present, otherwise by
// the forwarded client address. Admitted requests carry the identifier in their context.
func RateLimit(
	api huma.API,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
	now func() time.Time,
) func(ctx huma.Context, next func(huma.Context)) {
	if now == nil {
		now = time.Now
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		principal, _ := auth.PrincipalFromContext(ctx.Context())
		identifier := ratelimit.ResolveIdentifier(principal, ctx)
		result := limiter.Check(identifier, ratelimit.CategoryFor(ctx))

		writeLimitHeaders(ctx, result)

		if !result.Allowed {
			retryAfter := retryAfterSeconds(result.ResetAt, now())
			ctx.SetHeader(HeaderRetryAfter, strconv.Itoa(retryAfter))

			logger.Warn("rate limit exceeded",
				zap.String("path", operationPath(ctx)),
				zap.String("method", ctx.Method()),
				zap.String("category", result.Category.String()),
				zap.String("identifier", identifier),
				zap.Int("limit", result.Limit),
				zap.Int("retry_after", retryAfter),
			)

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded for %s, retry in %ds", result.Category, retryAfter))

			return
		}

		next(huma.WithContext(ctx, ratelimit.ContextWithIdentifier(ctx.Context(), identifier)))
	}
}

func writeLimitHeaders(ctx huma.Context, result ratelimit.Result) {
	ctx.SetHeader(HeaderLimit, strconv.Itoa(result.Limit))
	ctx.SetHeader(HeaderRemaining, strconv.Itoa(result.Remaining))

	if !result.ResetAt.IsZero() {
		ctx.SetHeader(HeaderReset, strconv.FormatInt(result.ResetAt.Unix(), 10))
	}
}

// retryAfterSeconds rounds the time until reset up to whole seconds, never below one.
func retryAfterSeconds(resetAt, now time.Time) int {
	wait := resetAt.Sub(now)
	if wait <= 0 {
		return 1
	}

	return max(1, int(math.Ceil(wait.Seconds())))
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
