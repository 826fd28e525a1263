package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slackbridge/appctx"
	slackclient "slackbridge/clients/slack"
)

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	var seenID string
	handler := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := appctx.GetRequestID(r.Context())
		require.True(t, ok)
		seenID = id
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/up", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, strings.HasPrefix(seenID, "req_"))
	assert.Equal(t, seenID, rec.Header().Get("X-Request-Id"))
}

func TestStatusRecorder(t *testing.T) {
	t.Run("implicit 200 on write", func(t *testing.T) {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
		_, err := rec.Write([]byte("ok"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.status)
	})

	t.Run("first status wins", func(t *testing.T) {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
		rec.WriteHeader(http.StatusUnauthorized)
		rec.WriteHeader(http.StatusOK)
		assert.Equal(t, http.StatusUnauthorized, rec.status)
	})
}

func newAlertMiddleware(webhookURL string) (*ErrorAlertMiddleware, *slackclient.MockSlackClient) {
	mockClient := slackclient.NewMockSlackClient()
	m := NewErrorAlertMiddleware(SlackAlertConfig{
		WebhookURL:  webhookURL,
		Environment: "dev",
		AppName:     "railway-slack-check",
	}, mockClient)
	return m, mockClient
}

func TestHTTPMiddleware_RecoversPanic(t *testing.T) {
	m, mockClient := newAlertMiddleware("https://hooks.slack.com/services/T/B/X")
	calls := 0
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("nil map write")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slack/commands", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// next request is served normally
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slack/commands", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	m.Wait()
	alerts := mockClient.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", alerts[0].WebhookURL)
	assert.Contains(t, alerts[0].Params.Header, "[dev] [railway-slack-check]")
	assert.Contains(t, alerts[0].Params.Body, "PANIC - nil map write")
	assert.Contains(t, alerts[0].Params.Fields, "*Context:* HTTP POST /slack/commands (PANIC)")
}

func TestHTTPMiddleware_ReRaisesAbortHandler(t *testing.T) {
	m, _ := newAlertMiddleware("")
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestReportError_Deduplicates(t *testing.T) {
	m, mockClient := newAlertMiddleware("https://hooks.slack.com/services/T/B/X")

	m.ReportError(context.Background(), errors.New("command /hello failed: boom"), "POST /slack/commands")
	m.ReportError(context.Background(), errors.New("command /hello failed: boom"), "POST /slack/commands")
	m.ReportError(context.Background(), errors.New("event app_mention failed: boom"), "POST /slack/events")
	m.ReportError(context.Background(), nil, "POST /slack/events")
	m.Wait()

	assert.Len(t, mockClient.Alerts(), 2)
}

func TestReportError_DisabledWithoutWebhook(t *testing.T) {
	m, mockClient := newAlertMiddleware("")

	m.ReportError(context.Background(), errors.New("boom"), "POST /slack/events")
	m.Wait()

	assert.Empty(t, mockClient.Alerts())
}
