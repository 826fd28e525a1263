package slack

import (
	"context"
	"sync"

	"slackbridge/clients"
)

// PostedMessage records a PostMessage call on MockSlackClient
type PostedMessage struct {
	ChannelID string
	Params    clients.SlackMessageParams
}

// PostedResponse records a PostResponse call on MockSlackClient
type PostedResponse struct {
	ResponseURL string
	Params      clients.SlackResponseParams
}

// PostedAlert records a PostAlert call on MockSlackClient
type PostedAlert struct {
	WebhookURL string
	Params     clients.SlackAlertParams
}

// MockSlackClient implements SlackClient interface for testing.
// Calls may arrive from delivery workers, so recorded calls are guarded.
type MockSlackClient struct {
	MockAuthTest     func(ctx context.Context) (*clients.SlackAuthTestResponse, error)
	MockPostMessage  func(ctx context.Context, channelID string, params clients.SlackMessageParams) (*clients.SlackPostMessageResponse, error)
	MockPostResponse func(ctx context.Context, responseURL string, params clients.SlackResponseParams) error
	MockPostAlert    func(ctx context.Context, webhookURL string, params clients.SlackAlertParams) error

	mu        sync.Mutex
	messages  []PostedMessage
	responses []PostedResponse
	alerts    []PostedAlert
}

// NewMockSlackClient creates a new mock Slack client
func NewMockSlackClient() *MockSlackClient {
	return &MockSlackClient{}
}

// AuthTest implements SlackClient interface for testing
func (m *MockSlackClient) AuthTest(ctx context.Context) (*clients.SlackAuthTestResponse, error) {
	if m.MockAuthTest != nil {
		return m.MockAuthTest(ctx)
	}

	// Default mock response
	return &clients.SlackAuthTestResponse{
		UserID: "U123456789",
		TeamID: "T123456789",
		BotID:  "B123456789",
	}, nil
}

// PostMessage implements SlackClient interface for testing
func (m *MockSlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	m.mu.Lock()
	m.messages = append(m.messages, PostedMessage{ChannelID: channelID, Params: params})
	m.mu.Unlock()

	if m.MockPostMessage != nil {
		return m.MockPostMessage(ctx, channelID, params)
	}

	// Default mock response
	return &clients.SlackPostMessageResponse{
		Channel:   channelID,
		Timestamp: "1234567890.123456",
	}, nil
}

// PostResponse implements SlackClient interface for testing
func (m *MockSlackClient) PostResponse(ctx context.Context, responseURL string, params clients.SlackResponseParams) error {
	m.mu.Lock()
	m.responses = append(m.responses, PostedResponse{ResponseURL: responseURL, Params: params})
	m.mu.Unlock()

	if m.MockPostResponse != nil {
		return m.MockPostResponse(ctx, responseURL, params)
	}
	return nil
}

// PostAlert implements SlackClient interface for testing
func (m *MockSlackClient) PostAlert(ctx context.Context, webhookURL string, params clients.SlackAlertParams) error {
	m.mu.Lock()
	m.alerts = append(m.alerts, PostedAlert{WebhookURL: webhookURL, Params: params})
	m.mu.Unlock()

	if m.MockPostAlert != nil {
		return m.MockPostAlert(ctx, webhookURL, params)
	}
	return nil
}

// Messages returns a copy of every PostMessage call so far
func (m *MockSlackClient) Messages() []PostedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PostedMessage(nil), m.messages...)
}

// Responses returns a copy of every PostResponse call so far
func (m *MockSlackClient) Responses() []PostedResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PostedResponse(nil), m.responses...)
}

// Alerts returns a copy of every PostAlert call so far
func (m *MockSlackClient) Alerts() []PostedAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PostedAlert(nil), m.alerts...)
}
