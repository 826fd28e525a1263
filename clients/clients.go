package clients

import (
	"context"
)

// SlackClient is the subset of the Slack platform API the bridge calls out to.
type SlackClient interface {
	// Bot operations
	AuthTest(ctx context.Context) (*SlackAuthTestResponse, error)

	// Message operations
	PostMessage(ctx context.Context, channelID string, params SlackMessageParams) (*SlackPostMessageResponse, error)
	PostResponse(ctx context.Context, responseURL string, params SlackResponseParams) error

	// Incoming webhooks
	PostAlert(ctx context.Context, webhookURL string, params SlackAlertParams) error
}
