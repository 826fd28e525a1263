package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/mo"

	"slackbridge/models"
)

const (
	HelloCommandName = "/hello"
	AppMentionEvent  = "app_mention"

	defaultHelloName   = "world"
	defaultMentionName = "there"
)

// Hello greets the trimmed argument, or "world" when it is blank.
func Hello(argument string) string {
	name := strings.TrimSpace(argument)
	if name == "" {
		name = defaultHelloName
	}
	return fmt.Sprintf("Hi, %s! ✅ Railway + Slack are wired up.", name)
}

// Mention greets the user as a Slack mention, or "there" when no user is known.
func Mention(userID mo.Option[string]) string {
	user, ok := userID.Get()
	user = strings.TrimSpace(user)
	if !ok || user == "" {
		return fmt.Sprintf("👋 Hey %s, I'm alive on Railway!", defaultMentionName)
	}
	return fmt.Sprintf("👋 Hey <@%s>, I'm alive on Railway!", user)
}

// HelloCommand answers /hello.
func HelloCommand(_ context.Context, command models.ParsedCommand) (models.Reply, error) {
	return models.Reply{
		Text:         Hello(command.Text),
		ResponseType: models.ResponseTypeEphemeral,
	}, nil
}

// MentionReply answers app_mention in the channel the bot was mentioned in.
func MentionReply(_ context.Context, event models.ParsedEvent) (models.Reply, error) {
	return models.Reply{
		Text: Mention(mo.EmptyableToOption(event.UserID)),
	}, nil
}

// RegisterGreetings wires the built-in command and event handlers.
func RegisterGreetings(d *Dispatcher) error {
	if err := d.RegisterCommand(HelloCommandName, CommandHandlerFunc(HelloCommand)); err != nil {
		return err
	}
	if err := d.RegisterEvent(AppMentionEvent, EventHandlerFunc(MentionReply)); err != nil {
		return err
	}
	return nil
}
