package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/slack-go/slack/slackevents"

	"slackbridge/appctx"
	"slackbridge/core/log"
	"slackbridge/models"
)

// innerEvent holds the inner event fields shared by the message-like event types.
type innerEvent struct {
	Type     string `json:"type"`
	User     string `json:"user"`
	BotID    string `json:"bot_id"`
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
}

func (h *SlackWebhooksHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	requestID := appctx.RequestIDOrEmpty(r.Context())
	log.Info("📨 Slack event received", "request_id", requestID, "remote_addr", r.RemoteAddr)

	body, ok := h.readVerifiedBody(w, r)
	if !ok {
		return
	}

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Warn("❌ Failed to parse JSON body", "request_id", requestID, "error", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case slackevents.URLVerification:
		h.handleURLVerification(w, body, requestID)
	case slackevents.CallbackEvent:
		h.handleEventCallback(w, r, body, requestID)
	case "":
		log.Warn("❌ Event payload has no type", "request_id", requestID)
		http.Error(w, "missing event type", http.StatusBadRequest)
	default:
		log.Info("📋 Non-event callback received", "request_id", requestID, "type", envelope.Type)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackWebhooksHandler) handleURLVerification(w http.ResponseWriter, body []byte, requestID string) {
	log.Info("🔐 Slack URL verification challenge received", "request_id", requestID)

	var challenge slackevents.ChallengeResponse
	if err := json.Unmarshal(body, &challenge); err != nil || challenge.Challenge == "" {
		log.Warn("❌ Challenge not found in verification request", "request_id", requestID)
		http.Error(w, "challenge not found", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(challenge.Challenge)); err != nil {
		log.Error("❌ Failed to write challenge response", "request_id", requestID, "error", err)
	}
}

func (h *SlackWebhooksHandler) handleEventCallback(w http.ResponseWriter, r *http.Request, body []byte, requestID string) {
	var callback slackevents.EventsAPICallbackEvent
	if err := json.Unmarshal(body, &callback); err != nil || callback.InnerEvent == nil {
		log.Warn("❌ Event callback without inner event", "request_id", requestID, "error", err)
		http.Error(w, "event not found", http.StatusBadRequest)
		return
	}

	var inner innerEvent
	if err := json.Unmarshal(*callback.InnerEvent, &inner); err != nil || inner.Type == "" {
		log.Warn("❌ Inner event is malformed", "request_id", requestID, "error", err)
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}

	event := models.ParsedEvent{
		Type:      inner.Type,
		UserID:    inner.User,
		ChannelID: inner.Channel,
		Text:      inner.Text,
		TS:        inner.TS,
		ThreadTS:  inner.ThreadTS,
		TeamID:    callback.TeamID,
		EventID:   callback.EventID,
	}
	log.Info("📞 Event callback received",
		"request_id", requestID,
		"event_id", event.EventID,
		"event_type", event.Type,
		"team", event.TeamID,
		"channel", event.ChannelID,
	)

	if h.isOwnEvent(inner) {
		log.Debug("⏭️ Ignoring event authored by this bot", "request_id", requestID)
		w.WriteHeader(http.StatusOK)
		return
	}

	reply, found, err := h.dispatcher.DispatchEvent(r.Context(), event)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !found {
		log.Debug("⚠️ Unsupported event type, acknowledging", "request_id", requestID, "event_type", event.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	if !reply.IsEmpty() {
		if err := h.replyService.Say(r.Context(), event.ChannelID, reply); err != nil {
			// A redelivery would fail the same way, so still acknowledge.
			log.Warn("⚠️ Could not queue event reply", "request_id", requestID, "error", err)
		}
	}
	w.WriteHeader(http.StatusOK)
}

// isOwnEvent matches the bot's user id or bot id, whichever the event carries.
func (h *SlackWebhooksHandler) isOwnEvent(inner innerEvent) bool {
	if h.botIdentity == nil {
		return false
	}
	if h.botIdentity.UserID != "" && inner.User == h.botIdentity.UserID {
		return true
	}
	return h.botIdentity.BotID != "" && inner.BotID == h.botIdentity.BotID
}
