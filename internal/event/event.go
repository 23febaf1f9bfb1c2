// Package event defines the GameEvent value type and the publisher that
// fans events out to connected clients and, for an allow-listed subset, to
// an external AI sidecar.
package event

import "fmt"

// GameEvent records something that happened. Recipients are always concrete
// actor keys ("player.<id>" / "mob.<id>"); group resolution happens before
// the event is constructed. Events are treated as immutable once built.
type GameEvent struct {
	Type       string         `json:"type"`
	Recipients []string       `json:"recipients"`
	Data       map[string]any `json:"data"`
	Text       string         `json:"text,omitempty"`
}

func New(eventType string, recipients []string, data map[string]any) *GameEvent {
	return &GameEvent{
		Type:       eventType,
		Recipients: recipients,
		Data:       data,
	}
}

// SuccessType returns the completion event type for a command type.
func SuccessType(commandType string) string {
	return fmt.Sprintf("cmd.%s.success", commandType)
}

// ErrorType returns the failure event type for a command type.
func ErrorType(commandType string) string {
	return fmt.Sprintf("cmd.%s.error", commandType)
}

// NotificationType returns the third-person observer variant of an event
// type, e.g. "notification.cmd.roll.success".
func NotificationType(eventType string) string {
	return fmt.Sprintf("notification.%s", eventType)
}
