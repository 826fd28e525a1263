package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"slackbridge/appctx"
	"slackbridge/clients"
	"slackbridge/config"
	"slackbridge/core/log"
	"slackbridge/services/replies"
	slackusecase "slackbridge/usecases/slack"
)

// Slack payloads are a few KB; anything bigger is not from Slack.
const maxSlackBodyBytes = 1 << 20

// ErrorReporter receives handler failures that end in a 500.
type ErrorReporter interface {
	ReportError(ctx context.Context, err error, where string)
}

type SlackWebhooksHandler struct {
	verifier         *Verifier
	dispatcher       *slackusecase.Dispatcher
	replyService     replies.ReplyService
	commandReplyMode string
	botIdentity      *clients.SlackAuthTestResponse
	errorReporter    ErrorReporter
}

// NewSlackWebhooksHandler wires the Slack callback endpoints. botIdentity is
// the auth.test result for the bot token, or nil when it was not checked; when
// set, events authored by the bot itself are ignored. errorReporter may be nil.
func NewSlackWebhooksHandler(
	verifier *Verifier,
	dispatcher *slackusecase.Dispatcher,
	replyService replies.ReplyService,
	commandReplyMode string,
	botIdentity *clients.SlackAuthTestResponse,
	errorReporter ErrorReporter,
) *SlackWebhooksHandler {
	return &SlackWebhooksHandler{
		verifier:         verifier,
		dispatcher:       dispatcher,
		replyService:     replyService,
		commandReplyMode: commandReplyMode,
		botIdentity:      botIdentity,
		errorReporter:    errorReporter,
	}
}

func (h *SlackWebhooksHandler) SetupEndpoints(router *mux.Router) {
	log.Info("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/slack/commands", h.HandleSlackCommand).Methods(http.MethodPost)
	log.Info("✅ POST /slack/commands endpoint registered", "commands", h.dispatcher.Commands())

	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods(http.MethodPost)
	log.Info("✅ POST /slack/events endpoint registered", "events", h.dispatcher.EventTypes())
}

// readVerifiedBody reads the raw body and checks its signature. On failure the
// response has already been written and ok is false.
func (h *SlackWebhooksHandler) readVerifiedBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	requestID := appctx.RequestIDOrEmpty(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSlackBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			log.Warn("❌ Request body too large", "request_id", requestID, "limit", maxBytesErr.Limit)
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		log.Warn("❌ Failed to read request body", "request_id", requestID, "error", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}

	if err := h.verifier.Verify(r.Header, body); err != nil {
		log.Warn("❌ Slack signature verification failed", "request_id", requestID, "path", r.URL.Path, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	if retryNum := r.Header.Get("X-Slack-Retry-Num"); retryNum != "" {
		log.Info("🔁 Slack redelivery", "request_id", requestID, "retry_num", retryNum,
			"reason", r.Header.Get("X-Slack-Retry-Reason"))
	}

	log.Debug("✅ Slack signature verified", "request_id", requestID)
	// Handlers that parse the request themselves need the body again.
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, true
}

func (h *SlackWebhooksHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error("❌ Error handling request",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", appctx.RequestIDOrEmpty(r.Context()),
		"error", err,
	)
	if h.errorReporter != nil {
		h.errorReporter.ReportError(r.Context(), err, r.Method+" "+r.URL.Path)
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *SlackWebhooksHandler) useResponseURL() bool {
	return h.commandReplyMode == config.CommandReplyModeResponseURL
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("❌ Failed to write JSON response", "error", err)
	}
}
