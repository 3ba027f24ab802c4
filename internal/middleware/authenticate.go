package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/videosync-go/internal/auth"
	"go.uber.org/zap"
)

// TokenVerifier validates a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticate returns a Huma middleware that resolves the caller's principal from an
// optional bearer token. Requests without a token continue anonymously; an invalid
// token is rejected with 401.
func Authenticate(
	api huma.API,
	verifier TokenVerifier,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			next(ctx)

			return
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("rejected bearer token",
				zap.String("path", operationPath(ctx)),
				zap.Error(err),
			)

			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")

			return
		}

		next(huma.WithContext(ctx, auth.ContextWithPrincipal(ctx.Context(), principal)))
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
