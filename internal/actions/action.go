// Package actions holds the business-logic units handlers compose: each is
// a narrow operation that reads or mutates game state and returns the
// events it produced. Mutating actions run inside the caller's per-actor
// lock scope; read-only ones take no locks.
package actions

import "github.com/realmkit/realmd/internal/event"

// ActionResult bundles the events an action produced with auxiliary data
// the composing handler may need. Transient; never persisted.
type ActionResult struct {
	Events []*event.GameEvent
	Data   map[string]any
}

// ActionError is a declared game-logic failure. The dispatcher converts it
// into a single cmd.<type>.error event for the initiating actor.
type ActionError struct {
	Code    string
	Message string
	Data    map[string]any
}

func NewActionError(code, message string) *ActionError {
	return &ActionError{
		Code:    code,
		Message: message,
	}
}

func (e *ActionError) Error() string             { return e.Message }
func (e *ActionError) ErrorCode() string         { return e.Code }
func (e *ActionError) ErrorMessage() string      { return e.Message }
func (e *ActionError) ErrorData() map[string]any { return e.Data }
