package notify

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackNotifier posts round reminders to one Slack channel.
type SlackNotifier struct {
	client    slackClient
	channelID string
}

// NewSlack creates a Slack notifier with a real API client.
func NewSlack(botToken, channelID string) *SlackNotifier {
	return &SlackNotifier{
		client:    slackapi.New(botToken),
		channelID: channelID,
	}
}

// Send posts one reminder as an attachment message.
func (s *SlackNotifier) Send(_ context.Context, r Reminder) error {
	att := slackapi.Attachment{
		Title:    fmt.Sprintf("%s: %s", r.CompanyName, r.RoundName),
		Fallback: fmt.Sprintf("%s %s at %s", r.CompanyName, r.RoundName, r.RoundDate.Format(roundDateLayout)),
		Color:    "#36a64f",
		Fields: []slackapi.AttachmentField{
			{Title: "Role", Value: r.Role, Short: true},
			{Title: "When", Value: r.RoundDate.Format(roundDateLayout), Short: true},
		},
	}
	_, _, err := s.client.PostMessage(s.channelID,
		slackapi.MsgOptionText("Upcoming placement round", false),
		slackapi.MsgOptionAttachments(att),
	)
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}
