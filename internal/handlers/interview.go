package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/videosync-go/internal/auth"
	"github.com/serroba/videosync-go/internal/interview"
	"github.com/serroba/videosync-go/internal/messaging"
	"github.com/serroba/videosync-go/internal/notification"
	"github.com/serroba/videosync-go/internal/ratelimit"
	"go.uber.org/zap"
)

// Notifications groups the publishers for outbound email events.
type Notifications struct {
	Scheduled messaging.Publish[notification.InterviewScheduledEvent]
	Reminder  messaging.Publish[notification.InterviewReminderEvent]
	Feedback  messaging.Publish[notification.FeedbackReceivedEvent]
}

// DiscardNotifications drops every event.
func DiscardNotifications() Notifications {
	return Notifications{
		Scheduled: messaging.Discard[notification.InterviewScheduledEvent](),
		Reminder:  messaging.Discard[notification.InterviewReminderEvent](),
		Feedback:  messaging.Discard[notification.FeedbackReceivedEvent](),
	}
}

// InterviewHandler handles interview scheduling and feedback.
type InterviewHandler struct {
	scheduler *interview.Scheduler
	store     interview.Repository
	limiter   *ratelimit.Limiter
	notify    Notifications
	now       func() time.Time
	logger    *zap.Logger
}

// NewInterviewHandler creates a new interview handler. The limiter gates outbound
// emails under ratelimit.CategorySendEmail.
func NewInterviewHandler(
	scheduler *interview.Scheduler,
	store interview.Repository,
	limiter *ratelimit.Limiter,
	notify Notifications,
	logger *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		scheduler: scheduler,
		store:     store,
		limiter:   limiter,
		notify:    notify,
		now:       time.Now,
		logger:    logger,
	}
}

func (h *InterviewHandler) CreateInterview(
	ctx context.Context, req *CreateInterviewRequest,
) (*CreateInterviewResponse, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	iv, err := h.scheduler.Schedule(ctx, interview.ScheduleParams{
		Title:          req.Body.Title,
		Description:    req.Body.Description,
		StartTime:      req.Body.StartTime,
		CandidateEmail: req.Body.CandidateEmail,
		CandidateName:  req.Body.CandidateName,
		InterviewerIDs: req.Body.InterviewerIDs,
		CreatedBy:      principal,
	})
	if err != nil {
		return nil, h.mapError(ctx, "failed to schedule interview", err)
	}

	if h.admitEmail(ctx, principal, "scheduled") {
		event := &notification.InterviewScheduledEvent{
			InterviewID:    iv.ID,
			Title:          iv.Title,
			StartTime:      iv.StartTime,
			CallID:         iv.CallID,
			CandidateName:  iv.CandidateName,
			CandidateEmail: iv.CandidateEmail,
			ScheduledBy:    principal,
		}

		if err := h.notify.Scheduled(ctx, event); err != nil {
			h.logger.Error("failed to publish interview scheduled event",
				zap.String("interview_id", iv.ID.String()),
				zap.Error(err),
			)
		}
	}

	resp := &CreateInterviewResponse{}
	resp.Headers.Location = "/interviews/" + iv.ID.String()
	resp.Body = newInterviewBody(iv, h.now())

	return resp, nil
}

func (h *InterviewHandler) ListInterviews(ctx context.Context, _ *struct{}) (*ListInterviewsResponse, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	interviews, err := h.store.List(ctx)
	if err != nil {
		return nil, h.mapError(ctx, "failed to list interviews", err)
	}

	now := h.now()
	resp := &ListInterviewsResponse{}
	resp.Body.Interviews = make([]InterviewBody, 0, len(interviews))

	for _, iv := range interviews {
		resp.Body.Interviews = append(resp.Body.Interviews, newInterviewBody(iv, now))
	}

	return resp, nil
}

func (h *InterviewHandler) GetInterview(ctx context.Context, req *InterviewPathRequest) (*InterviewResponse, error) {
	iv, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &InterviewResponse{Body: newInterviewBody(iv, h.now())}, nil
}

func (h *InterviewHandler) ListComments(ctx context.Context, req *InterviewPathRequest) (*ListCommentsResponse, error) {
	iv, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	comments, err := h.store.ListComments(ctx, iv.ID)
	if err != nil {
		return nil, h.mapError(ctx, "failed to list comments", err)
	}

	resp := &ListCommentsResponse{}
	resp.Body.Comments = make([]CommentBody, 0, len(comments))

	for _, c := range comments {
		resp.Body.Comments = append(resp.Body.Comments, newCommentBody(c))
	}

	return resp, nil
}

func (h *InterviewHandler) AddComment(ctx context.Context, req *AddCommentRequest) (*CommentResponse, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	iv, comment, err := h.scheduler.Comment(ctx, id, principal, req.Body.Content, req.Body.Rating)
	if err != nil {
		return nil, h.mapError(ctx, "failed to add comment", err)
	}

	if h.admitEmail(ctx, principal, "feedback") {
		event := &notification.FeedbackReceivedEvent{
			InterviewID:    iv.ID,
			CommentID:      comment.ID,
			Title:          iv.Title,
			CandidateName:  iv.CandidateName,
			CandidateEmail: iv.CandidateEmail,
			Rating:         comment.Rating,
		}

		if err := h.notify.Feedback(ctx, event); err != nil {
			h.logger.Error("failed to publish feedback event",
				zap.String("interview_id", iv.ID.String()),
				zap.Error(err),
			)
		}
	}

	return &CommentResponse{Body: newCommentBody(comment)}, nil
}

// SendReminder queues a reminder email. The route itself consumes the send-email quota.
func (h *InterviewHandler) SendReminder(ctx context.Context, req *InterviewPathRequest) (*ReminderResponse, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	iv, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if iv.MeetingStatus(h.now()) == interview.MeetingCompleted {
		return nil, huma.Error409Conflict("interview has already completed")
	}

	event := &notification.InterviewReminderEvent{
		InterviewID:    iv.ID,
		Title:          iv.Title,
		StartTime:      iv.StartTime,
		CallID:         iv.CallID,
		CandidateName:  iv.CandidateName,
		CandidateEmail: iv.CandidateEmail,
		RequestedBy:    principal,
	}

	if err := h.notify.Reminder(ctx, event); err != nil {
		h.logger.Error("failed to publish reminder event",
			zap.String("interview_id", iv.ID.String()),
			zap.Error(err),
		)

		return nil, huma.Error503ServiceUnavailable("failed to queue reminder")
	}

	resp := &ReminderResponse{}
	resp.Body.Queued = true
	resp.Body.To = iv.CandidateEmail

	return resp, nil
}

// admitEmail charges one send-email request to the caller. A denial skips the email
// but never fails the action that triggered it.
func (h *InterviewHandler) admitEmail(ctx context.Context, principal, kind string) bool {
	identifier, ok := ratelimit.IdentifierFromContext(ctx)
	if !ok {
		identifier = ratelimit.ResolveIdentifier(principal, nil)
	}

	result := h.limiter.Check(identifier, ratelimit.CategorySendEmail)
	if !result.Allowed {
		h.logger.Warn("email rate limit exceeded, skipping notification",
			zap.String("identifier", identifier),
			zap.String("kind", kind),
			zap.Time("reset_at", result.ResetAt),
		)
	}

	return result.Allowed
}

func (h *InterviewHandler) lookup(ctx context.Context, rawID string) (*interview.Interview, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	iv, err := h.store.GetByID(ctx, id)
	if err != nil {
		return nil, h.mapError(ctx, "failed to get interview", err)
	}

	return iv, nil
}

func (h *InterviewHandler) mapError(ctx context.Context, msg string, err error) error {
	switch {
	case errors.Is(err, interview.ErrNotFound):
		return huma.Error404NotFound("interview not found")
	case errors.Is(err, interview.ErrInvalidTitle),
		errors.Is(err, interview.ErrInvalidDescription),
		errors.Is(err, interview.ErrInvalidEmail),
		errors.Is(err, interview.ErrStartInPast),
		errors.Is(err, interview.ErrInvalidRating),
		errors.Is(err, interview.ErrEmptyComment):
		return huma.Error422UnprocessableEntity(err.Error())
	}

	meta := RequestMetaFromContext(ctx)
	h.logger.Error(msg,
		zap.String("remote_addr", meta.RemoteAddr),
		zap.String("user_agent", meta.UserAgent),
		zap.Error(err),
	)

	return huma.Error500InternalServerError(msg)
}

func requirePrincipal(ctx context.Context) (string, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return "", huma.Error401Unauthorized("authentication required")
	}

	return principal, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, huma.Error404NotFound("interview not found")
	}

	return id, nil
}
