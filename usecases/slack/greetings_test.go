package slack

import (
	"context"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slackbridge/models"
)

func TestHello(t *testing.T) {
	tests := []struct {
		name     string
		argument string
		expected string
	}{
		{
			name:     "empty argument uses default name",
			argument: "",
			expected: "Hi, world! ✅ Railway + Slack are wired up.",
		},
		{
			name:     "whitespace only uses default name",
			argument: "   ",
			expected: "Hi, world! ✅ Railway + Slack are wired up.",
		},
		{
			name:     "name is included",
			argument: "Ada",
			expected: "Hi, Ada! ✅ Railway + Slack are wired up.",
		},
		{
			name:     "name is trimmed",
			argument: "  Ada Lovelace \n",
			expected: "Hi, Ada Lovelace! ✅ Railway + Slack are wired up.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Hello(tt.argument))
		})
	}
}

func TestHello_EmptyAndWhitespaceMatch(t *testing.T) {
	assert.Equal(t, Hello(""), Hello("   "))
	assert.Contains(t, Hello("Ada"), "Ada")
}

func TestMention(t *testing.T) {
	tests := []struct {
		name     string
		userID   mo.Option[string]
		contains string
		excludes string
	}{
		{
			name:     "user reference",
			userID:   mo.Some("U123"),
			contains: "<@U123>",
		},
		{
			name:     "absent user uses default identity",
			userID:   mo.None[string](),
			contains: "Hey there",
			excludes: "<@",
		},
		{
			name:     "blank user uses default identity",
			userID:   mo.Some("  "),
			contains: "Hey there",
			excludes: "<@",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mention(tt.userID)
			assert.Contains(t, result, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, result, tt.excludes)
			}
		})
	}
}

func TestHelloCommand(t *testing.T) {
	reply, err := HelloCommand(context.Background(), models.ParsedCommand{Name: "/hello", Text: "Grace", UserID: "U1"})
	require.NoError(t, err)
	assert.Equal(t, "Hi, Grace! ✅ Railway + Slack are wired up.", reply.Text)
	assert.Equal(t, models.ResponseTypeEphemeral, reply.ResponseType)
}

func TestMentionReply(t *testing.T) {
	reply, err := MentionReply(context.Background(), models.ParsedEvent{Type: AppMentionEvent, UserID: "U123", ChannelID: "C1"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "<@U123>")

	reply, err = MentionReply(context.Background(), models.ParsedEvent{Type: AppMentionEvent})
	require.NoError(t, err)
	assert.Equal(t, Mention(mo.None[string]()), reply.Text)
}

func TestRegisterGreetings(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, RegisterGreetings(d))

	assert.Equal(t, []string{"/hello"}, d.Commands())
	assert.Equal(t, []string{"app_mention"}, d.EventTypes())

	// registering twice is a duplicate
	assert.Error(t, RegisterGreetings(d))
}
