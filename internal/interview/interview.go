package interview

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state stored with an interview.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// MeetingStatus is how an interview is presented relative to the current time.
type MeetingStatus string

const (
	MeetingUpcoming  MeetingStatus = "upcoming"
	MeetingLive      MeetingStatus = "live"
	MeetingCompleted MeetingStatus = "completed"
)

// LiveLeadTime is how long before its start an interview counts as live.
const LiveLeadTime = 10 * time.Minute

// Interview is a scheduled video interview.
type Interview struct {
	ID             uuid.UUID
	Title          string
	Description    string
	StartTime      time.Time
	EndTime        *time.Time
	Status         Status
	CallID         string // video provider call reference
	CandidateEmail string
	CandidateName  string
	InterviewerIDs []string
	CreatedBy      string
	CreatedAt      time.Time
}

// MeetingStatus derives the presentation status at now.
func (i *Interview) MeetingStatus(now time.Time) MeetingStatus {
	if i.Status == StatusCompleted || (i.EndTime != nil && i.EndTime.Before(now)) {
		return MeetingCompleted
	}

	if !now.Before(i.StartTime.Add(-LiveLeadTime)) {
		return MeetingLive
	}

	return MeetingUpcoming
}

// Comment is interviewer feedback attached to an interview.
type Comment struct {
	ID          uuid.UUID
	InterviewID uuid.UUID
	AuthorID    string
	Content     string
	Rating      int
	CreatedAt   time.Time
}
