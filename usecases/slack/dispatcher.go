package slack

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"slackbridge/core/log"
	"slackbridge/models"
)

// CommandHandler builds the reply for one slash command.
type CommandHandler interface {
	HandleCommand(ctx context.Context, command models.ParsedCommand) (models.Reply, error)
}

// CommandHandlerFunc adapts a plain function to CommandHandler.
type CommandHandlerFunc func(ctx context.Context, command models.ParsedCommand) (models.Reply, error)

func (f CommandHandlerFunc) HandleCommand(ctx context.Context, command models.ParsedCommand) (models.Reply, error) {
	return f(ctx, command)
}

// EventHandler builds the reply for one Events API event type.
type EventHandler interface {
	HandleEvent(ctx context.Context, event models.ParsedEvent) (models.Reply, error)
}

// EventHandlerFunc adapts a plain function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event models.ParsedEvent) (models.Reply, error)

func (f EventHandlerFunc) HandleEvent(ctx context.Context, event models.ParsedEvent) (models.Reply, error) {
	return f(ctx, event)
}

// Dispatcher maps command names and event types to their handlers.
// Register everything before serving; lookups afterwards are read-only.
type Dispatcher struct {
	commands map[string]CommandHandler
	events   map[string]EventHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		commands: make(map[string]CommandHandler),
		events:   make(map[string]EventHandler),
	}
}

// RegisterCommand binds a slash command name such as "/hello".
func (d *Dispatcher) RegisterCommand(name string, handler CommandHandler) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if !strings.HasPrefix(name, "/") {
		return fmt.Errorf("command %q must start with /", name)
	}
	if handler == nil {
		return fmt.Errorf("command %q has nil handler", name)
	}
	if _, exists := d.commands[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	d.commands[name] = handler
	return nil
}

// RegisterEvent binds an inner event type such as "app_mention".
func (d *Dispatcher) RegisterEvent(eventType string, handler EventHandler) error {
	if strings.TrimSpace(eventType) == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("event %q has nil handler", eventType)
	}
	if _, exists := d.events[eventType]; exists {
		return fmt.Errorf("event %q already registered", eventType)
	}
	d.events[eventType] = handler
	return nil
}

// DispatchCommand runs the handler registered for command.Name.
// found is false when no handler matches; that is not an error.
func (d *Dispatcher) DispatchCommand(ctx context.Context, command models.ParsedCommand) (models.Reply, bool, error) {
	handler, ok := d.commands[command.Name]
	if !ok {
		log.Debug("🤷 No handler for command", "command", command.Name)
		return models.Reply{}, false, nil
	}

	reply, err := handler.HandleCommand(ctx, command)
	if err != nil {
		return models.Reply{}, true, fmt.Errorf("command %s failed: %w", command.Name, err)
	}
	return reply, true, nil
}

// DispatchEvent runs the handler registered for event.Type.
func (d *Dispatcher) DispatchEvent(ctx context.Context, event models.ParsedEvent) (models.Reply, bool, error) {
	handler, ok := d.events[event.Type]
	if !ok {
		log.Debug("🤷 No handler for event", "event_type", event.Type)
		return models.Reply{}, false, nil
	}

	reply, err := handler.HandleEvent(ctx, event)
	if err != nil {
		return models.Reply{}, true, fmt.Errorf("event %s failed: %w", event.Type, err)
	}
	return reply, true, nil
}

// Commands returns the registered command names, sorted.
func (d *Dispatcher) Commands() []string {
	return sortedKeys(d.commands)
}

// EventTypes returns the registered event types, sorted.
func (d *Dispatcher) EventTypes() []string {
	return sortedKeys(d.events)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
