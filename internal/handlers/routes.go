package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/videosync-go/internal/ratelimit"
)

// RegisterRoutes registers the session and interview routes, each tagged with the
// quota category it consumes.
func RegisterRoutes(api huma.API, sessions *SessionHandler, interviews *InterviewHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-session",
		Method:      http.MethodPost,
		Path:        "/auth/session",
		Summary:     "Open a session",
		Description: "Issues a bearer token for the given user.",
		Tags:        []string{"Auth"},
		Metadata:    ratelimit.EndpointConfig{Category: ratelimit.CategoryAuth}.Metadata(),
	}, sessions.CreateSession)

	huma.Register(api, huma.Operation{
		OperationID:   "create-interview",
		Method:        http.MethodPost,
		Path:          "/interviews",
		Summary:       "Schedule an interview",
		Description:   "Schedules an interview and emails the candidate.",
		Tags:          []string{"Interviews"},
		DefaultStatus: http.StatusCreated,
		Metadata:      ratelimit.EndpointConfig{Category: ratelimit.CategoryCreateInterview}.Metadata(),
	}, interviews.CreateInterview)

	huma.Register(api, huma.Operation{
		OperationID: "list-interviews",
		Method:      http.MethodGet,
		Path:        "/interviews",
		Summary:     "List interviews",
		Tags:        []string{"Interviews"},
		Metadata:    ratelimit.EndpointConfig{Category: ratelimit.CategoryAPI}.Metadata(),
	}, interviews.ListInterviews)

	huma.Register(api, huma.Operation{
		OperationID: "get-interview",
		Method:      http.MethodGet,
		Path:        "/interviews/{id}",
		Summary:     "Get an interview",
		Tags:        []string{"Interviews"},
		Metadata:    ratelimit.EndpointConfig{Category: ratelimit.CategoryAPI}.Metadata(),
	}, interviews.GetInterview)

	huma.Register(api, huma.Operation{
		OperationID: "list-comments",
		Method:      http.MethodGet,
		Path:        "/interviews/{id}/comments",
		Summary:     "List interview feedback",
		Tags:        []string{"Feedback"},
		Metadata:    ratelimit.EndpointConfig{Category: ratelimit.CategoryAPI}.Metadata(),
	}, interviews.ListComments)

	huma.Register(api, huma.Operation{
		OperationID:   "add-comment",
		Method:        http.MethodPost,
		Path:          "/interviews/{id}/comments",
		Summary:       "Add interview feedback",
		Description:   "Records a rated comment and notifies the candidate.",
		Tags:          []string{"Feedback"},
		DefaultStatus: http.StatusCreated,
		Metadata:      ratelimit.EndpointConfig{Category: ratelimit.CategoryGeneral}.Metadata(),
	}, interviews.AddComment)

	huma.Register(api, huma.Operation{
		OperationID:   "send-reminder",
		Method:        http.MethodPost,
		Path:          "/interviews/{id}/reminders",
		Summary:       "Send a reminder",
		Description:   "Queues a reminder email to the candidate.",
		Tags:          []string{"Interviews"},
		DefaultStatus: http.StatusAccepted,
		Metadata:      ratelimit.EndpointConfig{Category: ratelimit.CategorySendEmail}.Metadata(),
	}, interviews.SendReminder)
}
