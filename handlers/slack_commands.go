package handlers

import (
	"net/http"

	"github.com/slack-go/slack"

	"slackbridge/appctx"
	"slackbridge/core/log"
	"slackbridge/models"
)

func (h *SlackWebhooksHandler) HandleSlackCommand(w http.ResponseWriter, r *http.Request) {
	requestID := appctx.RequestIDOrEmpty(r.Context())
	log.Info("⚡ Slack command received", "request_id", requestID, "remote_addr", r.RemoteAddr)

	if _, ok := h.readVerifiedBody(w, r); !ok {
		return
	}

	command, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Warn("❌ Failed to parse slash command", "request_id", requestID, "error", err)
		http.Error(w, "failed to parse slash command", http.StatusBadRequest)
		return
	}
	if command.Command == "" {
		log.Warn("❌ Slash command payload has no command", "request_id", requestID)
		http.Error(w, "missing command", http.StatusBadRequest)
		return
	}

	parsed := models.ParsedCommand{
		Name:        command.Command,
		Text:        command.Text,
		UserID:      command.UserID,
		ChannelID:   command.ChannelID,
		TeamID:      command.TeamID,
		ResponseURL: command.ResponseURL,
		TriggerID:   command.TriggerID,
	}
	log.Info("⚡ Parsed slash command",
		"request_id", requestID,
		"command", parsed.Name,
		"user", parsed.UserID,
		"channel", parsed.ChannelID,
	)

	reply, found, err := h.dispatcher.DispatchCommand(r.Context(), parsed)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !found {
		log.Debug("⚠️ Unknown slash command, acknowledging without reply", "request_id", requestID, "command", parsed.Name)
		w.WriteHeader(http.StatusOK)
		return
	}
	if reply.IsEmpty() {
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.useResponseURL() && parsed.ResponseURL != "" {
		err := h.replyService.Respond(r.Context(), parsed.ResponseURL, reply)
		if err == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Warn("⚠️ Could not queue response_url reply, answering inline", "request_id", requestID, "error", err)
	}

	responseType := reply.ResponseType
	if responseType == "" {
		responseType = slack.ResponseTypeEphemeral
	}
	writeJSON(w, http.StatusOK, slack.Msg{
		ResponseType: responseType,
		Text:         reply.Text,
	})
}
