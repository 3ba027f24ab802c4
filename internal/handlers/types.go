package handlers

import (
	"time"

	"github.com/serroba/videosync-go/internal/interview"
)

// CreateSessionRequest is the request body for opening a session.
type CreateSessionRequest struct {
	Body struct {
		UserID    string `doc:"Caller's user id"                        example:"user_2abc"  json:"userId"    maxLength:"128" minLength:"1" pattern:"^[A-Za-z0-9_.@-]+$"`
		AccessKey string `doc:"Shared access key, when one is configured" json:"accessKey,omitempty" required:"false"`
	}
}

// SessionResponse carries a bearer token.
type SessionResponse struct {
	Body struct {
		Token     string    `doc:"Bearer token for the Authorization header" json:"token"`
		UserID    string    `doc:"Subject of the token"                      json:"userId"`
		ExpiresAt time.Time `doc:"Token expiry"                              json:"expiresAt"`
	}
}

// InterviewBody is the wire representation of an interview.
type InterviewBody struct {
	ID             string    `doc:"Interview id"                      json:"id"`
	Title          string    `doc:"Interview title"                   json:"title"`
	Description    string    `doc:"Interview description"             json:"description,omitempty"`
	StartTime      time.Time `doc:"Scheduled start"                   json:"startTime"`
	Status         string    `doc:"Stored status"                     json:"status"`
	MeetingStatus  string    `doc:"upcoming, live or completed"       json:"meetingStatus"`
	CallID         string    `doc:"Video call reference"              json:"callId"`
	CandidateName  string    `doc:"Candidate name"                    json:"candidateName"`
	CandidateEmail string    `doc:"Candidate email"                   json:"candidateEmail"`
	InterviewerIDs []string  `doc:"Users conducting the interview"    json:"interviewerIds"`
	CreatedBy      string    `doc:"User that scheduled the interview" json:"createdBy"`
	CreatedAt      time.Time `doc:"Creation time"                     json:"createdAt"`
}

func newInterviewBody(iv *interview.Interview, now time.Time) InterviewBody {
	return InterviewBody{
		ID:             iv.ID.String(),
		Title:          iv.Title,
		Description:    iv.Description,
		StartTime:      iv.StartTime,
		Status:         string(iv.Status),
		MeetingStatus:  string(iv.MeetingStatus(now)),
		CallID:         iv.CallID,
		CandidateName:  iv.CandidateName,
		CandidateEmail: iv.CandidateEmail,
		InterviewerIDs: iv.InterviewerIDs,
		CreatedBy:      iv.CreatedBy,
		CreatedAt:      iv.CreatedAt,
	}
}

// CommentBody is the wire representation of interview feedback.
type CommentBody struct {
	ID          string    `json:"id"`
	InterviewID string    `json:"interviewId"`
	AuthorID    string    `json:"authorId"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newCommentBody(c *interview.Comment) CommentBody {
	return CommentBody{
		ID:          c.ID.String(),
		InterviewID: c.InterviewID.String(),
		AuthorID:    c.AuthorID,
		Content:     c.Content,
		Rating:      c.Rating,
		CreatedAt:   c.CreatedAt,
	}
}

// CreateInterviewRequest is the request body for scheduling an interview.
type CreateInterviewRequest struct {
	Body struct {
		Title          string    `doc:"Interview title"        example:"Backend Engineer - Round 1" json:"title"           maxLength:"100" minLength:"3"`
		Description    string    `doc:"Optional description"   json:"description,omitempty"      maxLength:"500" required:"false"`
		StartTime      time.Time `doc:"Start time (RFC 3339)"  json:"startTime"`
		CandidateName  string    `doc:"Candidate name"         json:"candidateName"              maxLength:"100" minLength:"1"`
		CandidateEmail string    `doc:"Candidate email"        format:"email"                    json:"candidateEmail"`
		InterviewerIDs []string  `doc:"Interviewer user ids"   json:"interviewerIds,omitempty"   required:"false"`
	}
}

// CreateInterviewResponse is the response for a scheduled interview.
type CreateInterviewResponse struct {
	Headers struct {
		Location string `doc:"The interview location" header:"Location"`
	}
	Body InterviewBody
}

// InterviewPathRequest addresses a single interview.
type InterviewPathRequest struct {
	ID string `doc:"Interview id" format:"uuid" path:"id"`
}

// InterviewResponse wraps a single interview.
type InterviewResponse struct {
	Body InterviewBody
}

// ListInterviewsResponse lists interviews ordered by start time.
type ListInterviewsResponse struct {
	Body struct {
		Interviews []InterviewBody `json:"interviews"`
	}
}

// AddCommentRequest is the request body for interview feedback.
type AddCommentRequest struct {
	ID   string `doc:"Interview id" format:"uuid" path:"id"`
	Body struct {
		Content string `doc:"Feedback text" json:"content" maxLength:"2000" minLength:"1"`
		Rating  int    `doc:"Rating from 1 to 5" json:"rating" maximum:"5" minimum:"1"`
	}
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Body CommentBody
}

// ListCommentsResponse lists the feedback on an interview.
type ListCommentsResponse struct {
	Body struct {
		Comments []CommentBody `json:"comments"`
	}
}

// ReminderResponse reports whether a reminder was queued.
type ReminderResponse struct {
	Body struct {
		Queued bool   `json:"queued"`
		To     string `json:"to"`
	}
}
