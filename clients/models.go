package clients

import "github.com/samber/mo"

// SlackAuthTestResponse represents the response from Slack's auth.test API
type SlackAuthTestResponse struct {
	UserID string
	TeamID string
	BotID  string
}

// SlackPostMessageResponse represents the response from posting a message to Slack
type SlackPostMessageResponse struct {
	Channel   string
	Timestamp string
}

// SlackMessageParams holds parameters for sending Slack messages
type SlackMessageParams struct {
	Text     string
	ThreadTS mo.Option[string]
}

// SlackResponseParams is the payload posted to a slash command's response_url
type SlackResponseParams struct {
	Text         string
	ResponseType string
}

// SlackAlertParams describes an operator alert sent through an incoming webhook
type SlackAlertParams struct {
	Header string
	Fields []string // mrkdwn
	Body   string   // mrkdwn
}
