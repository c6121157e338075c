package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/slack-go/slack"
)

// SlackNotifier posts assignment notices to a Slack channel.
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier posting to the given channel.
func NewSlackNotifier(token, channel string) (*SlackNotifier, error) {
	if token == "" {
		return nil, errors.New("slack token is required")
	}
	if channel == "" {
		return nil, errors.New("slack channel is required")
	}
	return &SlackNotifier{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

// TaskAssigned posts the assignment notice.
func (n *SlackNotifier) TaskAssigned(ctx context.Context, task domain.Task, assigneeID string) error {
	text := fmt.Sprintf("Task %q (%s, priority %s) was assigned to user %s",
		task.Title, task.ID, task.Priority, assigneeID)

	_, _, err := n.api.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	return nil
}
