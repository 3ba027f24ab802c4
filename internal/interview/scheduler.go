package interview

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTitle       = errors.New("title must be between 3 and 100 characters")
	ErrInvalidDescription = errors.New("description must be at most 500 characters")
	ErrInvalidEmail       = errors.New("invalid candidate email")
	ErrStartInPast        = errors.New("start time must be in the future")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrEmptyComment       = errors.New("comment must not be empty")
)

// CallIDGenerator produces the random part of a meeting call id.
type CallIDGenerator func() string

// ScheduleParams is what a caller supplies to schedule an interview.
type ScheduleParams struct {
	Title          string
	Description    string
	StartTime      time.Time
	CandidateEmail string
	CandidateName  string
	InterviewerIDs []string
	CreatedBy      string
}

// Scheduler creates interviews and comments.
type Scheduler struct {
	store        Repository
	generateCall CallIDGenerator
	now          func() time.Time
}

// NewScheduler creates a new scheduler.
func NewScheduler(store Repository, generator CallIDGenerator) *Scheduler {
	return &Scheduler{
		store:        store,
		generateCall: generator,
		now:          time.Now,
	}
}

// WithClock returns a copy of the scheduler using now as its clock.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	c := *s
	c.now = now

	return &c
}

func (s *Scheduler) Schedule(ctx context.Context, p ScheduleParams) (*Interview, error) {
	title := strings.TrimSpace(p.Title)
	if n := len([]rune(title)); n < 3 || n > 100 {
		return nil, ErrInvalidTitle
	}

	if len([]rune(p.Description)) > 500 {
		return nil, ErrInvalidDescription
	}

	if _, err := mail.ParseAddress(p.CandidateEmail); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, p.CandidateEmail)
	}

	now := s.now()
	if !p.StartTime.After(now) {
		return nil, ErrStartInPast
	}

	interviewers := p.InterviewerIDs
	if len(interviewers) == 0 && p.CreatedBy != "" {
		interviewers = []string{p.CreatedBy}
	}

	iv := &Interview{
		ID:             uuid.New(),
		Title:          title,
		Description:    p.Description,
		StartTime:      p.StartTime,
		Status:         StatusScheduled,
		CallID:         "interview-" + s.generateCall(),
		CandidateEmail: p.CandidateEmail,
		CandidateName:  p.CandidateName,
		InterviewerIDs: interviewers,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      now,
	}

	if err := s.store.Save(ctx, iv); err != nil {
		return nil, err
	}

	return iv, nil
}

// Comment records feedback on an existing interview.
func (s *Scheduler) Comment(
	ctx context.Context, interviewID uuid.UUID, authorID, content string, rating int,
) (*Interview, *Comment, error) {
	if rating < 1 || rating > 5 {
		return nil, nil, ErrInvalidRating
	}

	if strings.TrimSpace(content) == "" {
		return nil, nil, ErrEmptyComment
	}

	iv, err := s.store.GetByID(ctx, interviewID)
	if err != nil {
		return nil, nil, err
	}

	c := &Comment{
		ID:          uuid.New(),
		InterviewID: iv.ID,
		AuthorID:    authorID,
		Content:     content,
		Rating:      rating,
		CreatedAt:   s.now(),
	}

	if err = s.store.AddComment(ctx, c); err != nil {
		return nil, nil, err
	}

	return iv, c, nil
}
