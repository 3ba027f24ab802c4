package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/videosync-go/internal/auth"
	"github.com/serroba/videosync-go/internal/handlers"
	"github.com/serroba/videosync-go/internal/interview"
	"github.com/serroba/videosync-go/internal/messaging"
	"github.com/serroba/videosync-go/internal/notification"
	"github.com/serroba/videosync-go/internal/ratelimit"
	"github.com/serroba/videosync-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errPublish = errors.New("publish error")

type recorder[T any] struct {
	events []*T
	err    error
}

func (r *recorder[T]) publish() messaging.Publish[T] {
	return func(_ context.Context, event *T) error {
		if r.err != nil {
			return r.err
		}

		r.events = append(r.events, event)

		return nil
	}
}

type testEnv struct {
	handler   *handlers.InterviewHandler
	store     *store.MemoryStore
	scheduled *recorder[notification.InterviewScheduledEvent]
	reminders *recorder[notification.InterviewReminderEvent]
	feedback  *recorder[notification.FeedbackReceivedEvent]
}

func newTestEnv(t *testing.T, policies *ratelimit.Policies) *testEnv {
	t.Helper()

	quotas := store.NewRateLimitMemoryStore(store.WithSweepInterval(0))
	t.Cleanup(func() { _ = quotas.Shutdown() })

	memStore := store.NewMemoryStore()
	scheduler := interview.NewScheduler(memStore, func() string { return "abc123" })

	env := &testEnv{
		store:     memStore,
		scheduled: &recorder[notification.InterviewScheduledEvent]{},
		reminders: &recorder[notification.InterviewReminderEvent]{},
		feedback:  &recorder[notification.FeedbackReceivedEvent]{},
	}

	env.handler = handlers.NewInterviewHandler(
		scheduler,
		memStore,
		ratelimit.NewLimiter(quotas, policies),
		handlers.Notifications{
			Scheduled: env.scheduled.publish(),
			Reminder:  env.reminders.publish(),
			Feedback:  env.feedback.publish(),
		},
		zap.NewNop(),
	)

	return env
}

func authed(identifier string) context.Context {
	ctx := auth.ContextWithPrincipal(context.Background(), "user-1")

	return ratelimit.ContextWithIdentifier(ctx, identifier)
}

func createRequest(start time.Time) *handlers.CreateInterviewRequest {
	req := &handlers.CreateInterviewRequest{}
	req.Body.Title = "Backend Engineer"
	req.Body.StartTime = start
	req.Body.CandidateName = "Sam"
	req.Body.CandidateEmail = "sam@example.com"

	return req
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError

	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}

func TestCreateInterview(t *testing.T) {
	t.Run("schedules and publishes the scheduled event", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())

		resp, err := env.handler.CreateInterview(authed("user:user-1"), createRequest(time.Now().Add(time.Hour)))

		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", resp.Body.Title)
		assert.Equal(t, "interview-abc123", resp.Body.CallID)
		assert.Equal(t, "user-1", resp.Body.CreatedBy)
		assert.Equal(t, []string{"user-1"}, resp.Body.InterviewerIDs)
		assert.Equal(t, "upcoming", resp.Body.MeetingStatus)
		assert.Equal(t, "/interviews/"+resp.Body.ID, resp.Headers.Location)

		require.Len(t, env.scheduled.events, 1)
		assert.Equal(t, "sam@example.com", env.scheduled.events[0].CandidateEmail)
		assert.Equal(t, "user-1", env.scheduled.events[0].ScheduledBy)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())

		_, err := env.handler.CreateInterview(context.Background(), createRequest(time.Now().Add(time.Hour)))

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("rejects start times in the past", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())

		_, err := env.handler.CreateInterview(authed("user:user-1"), createRequest(time.Now().Add(-time.Hour)))

		assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
		assert.Empty(t, env.scheduled.events)
	})

	t.Run("skips the email once the send-email quota is spent", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.NewPolicyBuilder().
			AddLimit(ratelimit.CategorySendEmail, 1, time.Minute).Build())
		ctx := authed("user:user-1")

		_, err := env.handler.CreateInterview(ctx, createRequest(time.Now().Add(time.Hour)))
		require.NoError(t, err)

		resp, err := env.handler.CreateInterview(ctx, createRequest(time.Now().Add(2*time.Hour)))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.ID)
		assert.Len(t, env.scheduled.events, 1)

		all, err := env.store.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("still succeeds when publishing fails", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())
		env.scheduled.err = errPublish

		resp, err := env.handler.CreateInterview(authed("user:user-1"), createRequest(time.Now().Add(time.Hour)))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.ID)
	})
}

func TestGetAndListInterviews(t *testing.T) {
	env := newTestEnv(t, ratelimit.DefaultPolicies())
	ctx := authed("user:user-1")

	later, err := env.handler.CreateInterview(ctx, createRequest(time.Now().Add(2*time.Hour)))
	require.NoError(t, err)

	sooner, err := env.handler.CreateInterview(ctx, createRequest(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	t.Run("gets by id", func(t *testing.T) {
		resp, err := env.handler.GetInterview(ctx, &handlers.InterviewPathRequest{ID: later.Body.ID})

		require.NoError(t, err)
		assert.Equal(t, later.Body.ID, resp.Body.ID)
	})

	t.Run("returns 404 for unknown ids", func(t *testing.T) {
		_, err := env.handler.GetInterview(ctx, &handlers.InterviewPathRequest{
			ID: "7f1c1f3e-8a52-4d7e-9f57-1b8d3c6a0e11",
		})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("lists by start time", func(t *testing.T) {
		resp, err := env.handler.ListInterviews(ctx, nil)

		require.NoError(t, err)
		require.Len(t, resp.Body.Interviews, 2)
		assert.Equal(t, sooner.Body.ID, resp.Body.Interviews[0].ID)
		assert.Equal(t, later.Body.ID, resp.Body.Interviews[1].ID)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("records feedback and notifies the candidate", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())
		ctx := authed("user:user-1")

		created, err := env.handler.CreateInterview(ctx, createRequest(time.Now().Add(time.Hour)))
		require.NoError(t, err)

		req := &handlers.AddCommentRequest{ID: created.Body.ID}
		req.Body.Content = "Strong systems knowledge"
		req.Body.Rating = 4

		resp, err := env.handler.AddComment(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 4, resp.Body.Rating)
		assert.Equal(t, "user-1", resp.Body.AuthorID)

		require.Len(t, env.feedback.events, 1)
		assert.Equal(t, 4, env.feedback.events[0].Rating)
		assert.Equal(t, "sam@example.com", env.feedback.events[0].CandidateEmail)

		comments, err := env.handler.ListComments(ctx, &handlers.InterviewPathRequest{ID: created.Body.ID})
		require.NoError(t, err)
		require.Len(t, comments.Body.Comments, 1)
		assert.Equal(t, "Strong systems knowledge", comments.Body.Comments[0].Content)
	})

	t.Run("returns 404 for unknown interviews", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())

		req := &handlers.AddCommentRequest{ID: "7f1c1f3e-8a52-4d7e-9f57-1b8d3c6a0e11"}
		req.Body.Content = "x"
		req.Body.Rating = 3

		_, err := env.handler.AddComment(authed("user:user-1"), req)

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
		assert.Empty(t, env.feedback.events)
	})
}

func TestSendReminder(t *testing.T) {
	t.Run("queues a reminder", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())
		ctx := authed("user:user-1")

		created, err := env.handler.CreateInterview(ctx, createRequest(time.Now().Add(time.Hour)))
		require.NoError(t, err)

		resp, err := env.handler.SendReminder(ctx, &handlers.InterviewPathRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.True(t, resp.Body.Queued)
		assert.Equal(t, "sam@example.com", resp.Body.To)
		require.Len(t, env.reminders.events, 1)
		assert.Equal(t, "interview-abc123", env.reminders.events[0].CallID)
	})

	t.Run("returns 503 when the reminder cannot be queued", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())
		ctx := authed("user:user-1")

		created, err := env.handler.CreateInterview(ctx, createRequest(time.Now().Add(time.Hour)))
		require.NoError(t, err)

		env.reminders.err = errPublish

		_, err = env.handler.SendReminder(ctx, &handlers.InterviewPathRequest{ID: created.Body.ID})

		assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	})

	t.Run("rejects completed interviews", func(t *testing.T) {
		env := newTestEnv(t, ratelimit.DefaultPolicies())
		ctx := authed("user:user-1")

		iv := &interview.Interview{
			ID:        uuid.New(),
			Title:     "Done",
			StartTime: time.Now().Add(-2 * time.Hour),
			Status:    interview.StatusCompleted,
		}
		require.NoError(t, env.store.Save(ctx, iv))

		_, err := env.handler.SendReminder(ctx, &handlers.InterviewPathRequest{ID: iv.ID.String()})

		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})
}
