package slack

import (
	"context"

	"github.com/slack-go/slack"

	"slackbridge/clients"
)

// SlackClient implements the clients.SlackClient interface using the slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a new Slack client with the provided bot token
func NewSlackClient(authToken string, options ...slack.Option) clients.SlackClient {
	return &SlackClient{
		Client: slack.New(authToken, options...),
	}
}

// AuthTest verifies the bot token and returns information about the bot
func (c *SlackClient) AuthTest(ctx context.Context) (*clients.SlackAuthTestResponse, error) {
	response, err := c.Client.AuthTestContext(ctx)
	if err != nil {
		return nil, err
	}

	return &clients.SlackAuthTestResponse{
		UserID: response.UserID,
		TeamID: response.TeamID,
		BotID:  response.BotID,
	}, nil
}

// PostMessage sends a message to a Slack channel with chat.postMessage
func (c *SlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	sdkOptions := []slack.MsgOption{slack.MsgOptionText(params.Text, false)}
	if threadTS, ok := params.ThreadTS.Get(); ok && threadTS != "" {
		sdkOptions = append(sdkOptions, slack.MsgOptionTS(threadTS))
	}

	channel, timestamp, err := c.Client.PostMessageContext(ctx, channelID, sdkOptions...)
	if err != nil {
		return nil, err
	}

	return &clients.SlackPostMessageResponse{
		Channel:   channel,
		Timestamp: timestamp,
	}, nil
}

// PostResponse answers a slash command through its response_url
func (c *SlackClient) PostResponse(ctx context.Context, responseURL string, params clients.SlackResponseParams) error {
	return slack.PostWebhookContext(ctx, responseURL, &slack.WebhookMessage{
		Text:         params.Text,
		ResponseType: params.ResponseType,
	})
}

// PostAlert sends a block kit alert to an incoming webhook URL
func (c *SlackClient) PostAlert(ctx context.Context, webhookURL string, params clients.SlackAlertParams) error {
	return slack.PostWebhookContext(ctx, webhookURL, &slack.WebhookMessage{
		Text:   params.Header,
		Blocks: buildAlertBlocks(params),
	})
}

func buildAlertBlocks(params clients.SlackAlertParams) *slack.Blocks {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, params.Header, true, false)),
	}

	if len(params.Fields) > 0 {
		fields := make([]*slack.TextBlockObject, 0, len(params.Fields))
		for _, field := range params.Fields {
			fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, field, false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	if params.Body != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, params.Body, false, false), nil, nil,
		))
	}

	return &slack.Blocks{BlockSet: blocks}
}
