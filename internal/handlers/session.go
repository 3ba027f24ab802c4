package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/videosync-go/internal/auth"
	"go.uber.org/zap"
)

// SessionHandler exchanges a user id for a bearer token.
type SessionHandler struct {
	auth   *auth.Authenticator
	logger *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(authenticator *auth.Authenticator, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{auth: authenticator, logger: logger}
}

func (h *SessionHandler) CreateSession(ctx context.Context, req *CreateSessionRequest) (*SessionResponse, error) {
	session, err := h.auth.Login(req.Body.UserID, req.Body.AccessKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			meta := RequestMetaFromContext(ctx)
			h.logger.Info("rejected session request",
				zap.String("user_id", req.Body.UserID),
				zap.String("remote_addr", meta.RemoteAddr),
			)

			return nil, huma.Error401Unauthorized("invalid credentials")
		}

		h.logger.Error("failed to issue session", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to issue session")
	}

	resp := &SessionResponse{}
	resp.Body.Token = session.Token
	resp.Body.UserID = session.Subject
	resp.Body.ExpiresAt = session.ExpiresAt

	return resp, nil
}
