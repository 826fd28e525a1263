package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"sync"
	"time"

	"slackbridge/appctx"
	"slackbridge/clients"
	"slackbridge/core/log"
)

const alertSendTimeout = 5 * time.Second

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
}

// ErrorAlertMiddleware turns panics into 500s and forwards failures to a
// Slack incoming webhook, at most once per cooldown for identical errors.
type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	slackClient   clients.SlackClient
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	wg            sync.WaitGroup
}

func NewErrorAlertMiddleware(config SlackAlertConfig, slackClient clients.SlackClient) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		slackClient:   slackClient,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute,
	}
}

// HTTPMiddleware recovers handler panics so one bad request cannot take the process down.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			where := fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
			log.Error("❌ Panic while handling request",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", appctx.RequestIDOrEmpty(r.Context()),
				"panic", rec,
			)
			m.alert(fmt.Sprintf("%s: PANIC - %v", where, rec), where+" (PANIC)")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// ReportError records a handled failure that ended in a 500.
func (m *ErrorAlertMiddleware) ReportError(ctx context.Context, err error, where string) {
	if err == nil {
		return
	}
	m.alert(fmt.Sprintf("%s: %v", where, err), where)
}

// Wait blocks until in-flight alerts have been sent.
func (m *ErrorAlertMiddleware) Wait() {
	m.wg.Wait()
}

func (m *ErrorAlertMiddleware) alert(errorMsg, where string) {
	if m.config.WebhookURL == "" || m.slackClient == nil {
		return // Slack alerts disabled
	}

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		m.mutex.Unlock()
		return
	}
	m.alertedErrors[hash] = time.Now()
	m.mutex.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.sendSlackAlert(errorMsg, where)
	}()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, where string) {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	ctx, cancel := context.WithTimeout(context.Background(), alertSendTimeout)
	defer cancel()

	err := m.slackClient.PostAlert(ctx, m.config.WebhookURL, clients.SlackAlertParams{
		Header: fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
		Fields: []string{
			fmt.Sprintf("*Service:* %s", m.config.AppName),
			fmt.Sprintf("*Environment:* %s", m.config.Environment),
			fmt.Sprintf("*Context:* %s", where),
		},
		Body: fmt.Sprintf("*Error:*\n```%s```", errorMsg),
	})
	if err != nil {
		log.Error("❌ Failed to send Slack alert", "error", err)
	}
}
