package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicInterviewScheduled = "interview.scheduled"
	TopicInterviewReminder  = "interview.reminder"
	TopicFeedbackReceived   = "interview.feedback"
)

// InterviewScheduledEvent is published after an interview has been created.
type InterviewScheduledEvent struct {
	InterviewID    uuid.UUID `json:"interviewId"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"startTime"`
	CallID         string    `json:"callId"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail string    `json:"candidateEmail"`
	ScheduledBy    string    `json:"scheduledBy"`
}

// InterviewReminderEvent asks for a reminder to be sent to the candidate.
type InterviewReminderEvent struct {
	InterviewID    uuid.UUID `json:"interviewId"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"startTime"`
	CallID         string    `json:"callId"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail string    `json:"candidateEmail"`
	RequestedBy    string    `json:"requestedBy"`
}

// FeedbackReceivedEvent is published when an interviewer rates an interview.
type FeedbackReceivedEvent struct {
	InterviewID    uuid.UUID `json:"interviewId"`
	CommentID      uuid.UUID `json:"commentId"`
	Title          string    `json:"title"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail string    `json:"candidateEmail"`
	Rating         int       `json:"rating"`
}
