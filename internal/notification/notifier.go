package notification

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Notifier renders events into emails and hands them to a Mailer.
// Its methods have the messaging.Handler signature.
type Notifier struct {
	mailer   Mailer
	renderer *Renderer
	appURL   string
	logger   *zap.Logger
}

// NewNotifier creates a notifier. appURL is the base for meeting links.
func NewNotifier(mailer Mailer, renderer *Renderer, appURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		mailer:   mailer,
		renderer: renderer,
		appURL:   strings.TrimRight(appURL, "/"),
		logger:   logger,
	}
}

// MeetingLink returns the join URL for a call.
func (n *Notifier) MeetingLink(callID string) string {
	return n.appURL + "/meeting/" + callID
}

func (n *Notifier) InterviewScheduled(ctx context.Context, event *InterviewScheduledEvent) error {
	date, clock := n.renderer.when(event.StartTime)

	html, err := n.renderer.render(kindScheduled, emailData{
		Heading:       "Interview Scheduled!",
		CandidateName: event.CandidateName,
		Title:         event.Title,
		Date:          date,
		Time:          clock,
		MeetingLink:   n.MeetingLink(event.CallID),
	})
	if err != nil {
		return err
	}

	return n.send(ctx, &Email{
		To:      event.CandidateEmail,
		Subject: "Interview Scheduled: " + event.Title,
		HTML:    html,
	})
}

func (n *Notifier) InterviewReminder(ctx context.Context, event *InterviewReminderEvent) error {
	date, clock := n.renderer.when(event.StartTime)

	html, err := n.renderer.render(kindReminder, emailData{
		Heading:       "Interview Starting Soon!",
		CandidateName: event.CandidateName,
		Title:         event.Title,
		Date:          date,
		Time:          clock,
		MeetingLink:   n.MeetingLink(event.CallID),
	})
	if err != nil {
		return err
	}

	return n.send(ctx, &Email{
		To:      event.CandidateEmail,
		Subject: "Reminder: " + event.Title,
		HTML:    html,
	})
}

func (n *Notifier) FeedbackReceived(ctx context.Context, event *FeedbackReceivedEvent) error {
	html, err := n.renderer.render(kindFeedback, emailData{
		Heading:       "Feedback Received!",
		CandidateName: event.CandidateName,
		Title:         event.Title,
		Rating:        event.Rating,
	})
	if err != nil {
		return err
	}

	return n.send(ctx, &Email{
		To:      event.CandidateEmail,
		Subject: "Feedback Received: " + event.Title,
		HTML:    html,
	})
}

func (n *Notifier) send(ctx context.Context, email *Email) error {
	if email.To == "" {
		n.logger.Warn("skipping email without recipient", zap.String("subject", email.Subject))

		return nil
	}

	return n.mailer.Send(ctx, email)
}
