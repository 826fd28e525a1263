package models

// ResponseTypeEphemeral shows a reply only to the invoking user, mirrors slack.ResponseTypeEphemeral.
const ResponseTypeEphemeral = "ephemeral"

// ParsedCommand is a verified slash command invocation.
type ParsedCommand struct {
	Name        string // e.g. "/hello"
	Text        string
	UserID      string
	ChannelID   string
	TeamID      string
	ResponseURL string
	TriggerID   string
}

// ParsedEvent is a verified Events API callback, reduced to the inner event fields we route on.
type ParsedEvent struct {
	Type      string // inner event type, e.g. "app_mention"
	UserID    string
	ChannelID string
	Text      string
	TS        string
	ThreadTS  string
	TeamID    string
	EventID   string
}

// Reply is emitted once per recognized request. Empty Text means nothing to send.
type Reply struct {
	Text         string
	ResponseType string
	ThreadTS     string
}

func (r Reply) IsEmpty() bool {
	return r.Text == ""
}
