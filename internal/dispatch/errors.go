package dispatch

import "fmt"

// HandlerNotFoundError means no handler is registered for a command type.
// Fatal to the dispatch call: there is no context to publish an error into.
type HandlerNotFoundError struct {
	CommandType string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler registered for command type %q", e.CommandType)
}

// PlayerNotFoundError means the dispatched player id does not resolve.
type PlayerNotFoundError struct {
	PlayerId string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %q not found", e.PlayerId)
}

// ActorNotFoundError means the dispatched actor does not resolve.
type ActorNotFoundError struct {
	Kind string
	Id   string
}

func (e *ActorNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Id)
}

// CommandError is a declared application failure raised by game logic. The
// dispatcher recovers it at the handler boundary and converts it into
// exactly one cmd.<type>.error event for the initiating actor.
type CommandError interface {
	error
	ErrorCode() string
	ErrorMessage() string
	ErrorData() map[string]any
}
