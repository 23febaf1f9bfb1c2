// Package trigger evaluates world-authored reactions. Event triggers let
// mobs respond to stimuli such as players entering a room or speaking;
// command triggers claim free-text verbs no handler recognizes. Reaction
// scripts re-enter the dispatcher as synthesized text commands, bounded by
// the trigger-source flag and the dispatcher's depth limit.
package trigger

import (
	"context"
	"fmt"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/pixil98/go-log"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/match"
	"github.com/realmkit/realmd/internal/world"
)

const (
	gatedText               = "More time is needed."
	conditionFailedText     = "Action could not be completed."
	defaultGateCacheEntries = 10000
)

// commandDispatcher is the slice of the dispatcher the engine re-enters
// through.
type commandDispatcher interface {
	Dispatch(ctx context.Context, req *dispatch.Request) ([]*event.GameEvent, error)
	MaxDepth() int
}

// Engine holds the trigger evaluation state: the world registry for
// candidate lookup and a TTL cache backing gate delays.
type Engine struct {
	state      *world.State
	dispatcher commandDispatcher
	gates      cache.Cache[string, struct{}]
}

func NewEngine(state *world.State, dispatcher commandDispatcher) *Engine {
	return &Engine{
		state:      state,
		dispatcher: dispatcher,
		gates:      cache.NewCache[string, struct{}]().WithMaxKeys(defaultGateCacheEntries),
	}
}

// EventPublished routes completed command events back into trigger
// evaluation. The table is fixed: speech stimulates "saying" reactions and
// movement stimulates "entering" reactions. Only player actors stimulate
// triggers, so mobs cannot chain reactions off each other's events.
func (e *Engine) EventPublished(ctx context.Context, ev *event.GameEvent, actor world.Actor, connectionId string, depth int) {
	switch ev.Type {
	case "cmd.say.success":
		p := e.eventPlayer(ev, actor)
		if p == nil || p.Room == "" {
			return
		}
		text, _ := ev.Data["text"].(string)
		e.ExecuteMobEventTriggers(ctx, world.TriggerEventSaying, p, p.Room, text, connectionId, depth)

	case "cmd.move.success":
		p := e.eventPlayer(ev, actor)
		if p == nil || p.Room == "" {
			return
		}
		e.ExecuteMobEventTriggers(ctx, world.TriggerEventEntering, p, p.Room, "", connectionId, depth)
	}
}

// eventPlayer resolves the acting player, preferring the actor key embedded
// in the event payload over the dispatching actor.
func (e *Engine) eventPlayer(ev *event.GameEvent, actor world.Actor) *world.Player {
	if data, ok := ev.Data["actor"].(map[string]any); ok {
		if key, ok := data["key"].(string); ok {
			if resolved := e.state.ActorByKey(key); resolved != nil {
				actor = resolved
			}
		}
	}

	p, _ := actor.(*world.Player)
	return p
}

// ExecuteMobEventTriggers evaluates the event-kind triggers a stimulus in
// roomId can reach: triggers targeting the room itself plus triggers owned
// by templates with a mob instance present. Matching trigger scripts run as
// the owning mob.
func (e *Engine) ExecuteMobEventTriggers(ctx context.Context, eventTag string, actor world.Actor, roomId, optionText, connectionId string, depth int) {
	room := e.state.Room(roomId)
	if room == nil {
		return
	}

	mobsByTemplate := map[string]*world.Mob{}
	for _, m := range e.state.MobsInRoom(roomId) {
		if _, ok := mobsByTemplate[m.Template]; !ok {
			mobsByTemplate[m.Template] = m
		}
	}

	for _, t := range e.state.Triggers(room.World, world.TriggerKindEvent) {
		if t.Event != eventTag {
			continue
		}
		if t.Room != "" && t.Room != roomId {
			continue
		}

		var owner *world.Mob
		if t.MobTemplate != "" {
			owner = mobsByTemplate[t.MobTemplate]
			if owner == nil {
				continue
			}
		}

		if eventTag == world.TriggerEventSaying {
			ok, err := e.matchesPhrase(t.Match, optionText)
			if err != nil {
				log.GetLogger(ctx).WithError(err).Warnf("trigger %s has a bad match expression", t.Id)
				continue
			}
			if !ok {
				continue
			}
		}

		if !e.conditionsPass(ctx, t, actor) {
			continue
		}

		gateKey := e.gateKey(t, roomId)
		if !e.gateAllowed(t, gateKey) {
			continue
		}
		e.consumeGate(t, gateKey)

		if owner == nil {
			// Room-scoped reaction with no mob present has nobody to act.
			continue
		}
		e.runScript(ctx, t, owner, connectionId, depth)
	}
}

// Result reports whether command triggers claimed a line of text, and any
// feedback to show the typist.
type Result struct {
	Handled  bool
	Feedback string
}

// HandleCommandText evaluates command-kind triggers against free text no
// registered verb claimed. Scripts run as the typing actor.
func (e *Engine) HandleCommandText(ctx context.Context, actor world.Actor, text, connectionId string, depth int) (bool, string) {
	r := e.ExecuteCommandFallbackTrigger(ctx, actor, text, connectionId, depth)
	return r.Handled, r.Feedback
}

// ExecuteCommandFallbackTrigger is the full-result form of
// HandleCommandText.
func (e *Engine) ExecuteCommandFallbackTrigger(ctx context.Context, actor world.Actor, text, connectionId string, depth int) Result {
	command := strings.ToLower(strings.TrimSpace(text))
	if command == "" {
		return Result{}
	}

	room := e.state.Room(actor.RoomID())
	if room == nil {
		return Result{}
	}

	matchedAny := false
	executedAny := false
	feedback := ""
	var scriptErrors []string

	for _, t := range e.state.Triggers(room.World, world.TriggerKindCommand) {
		if t.Room != "" && t.Room != actor.RoomID() {
			continue
		}
		if t.MobTemplate != "" && !e.templateInRoom(t.MobTemplate, actor.RoomID()) {
			continue
		}

		ok, err := e.matchesPhrase(t.Match, command)
		if err != nil {
			log.GetLogger(ctx).WithError(err).Warnf("trigger %s has a bad match expression", t.Id)
			continue
		}
		if !ok {
			continue
		}
		matchedAny = true

		if !e.conditionsPass(ctx, t, actor) {
			if feedback == "" {
				feedback = conditionFailedText
			}
			continue
		}

		gateKey := e.gateKey(t, actor.RoomID())
		if !e.gateAllowed(t, gateKey) {
			return Result{Handled: true, Feedback: gatedText}
		}
		e.consumeGate(t, gateKey)

		scriptErrors = append(scriptErrors, e.runScript(ctx, t, actor, connectionId, depth)...)
		executedAny = true

		if t.Feedback != "" && feedback == "" {
			feedback = t.Feedback
		}
	}

	if executedAny {
		if len(scriptErrors) > 0 {
			lines := make([]string, 0, len(scriptErrors))
			for _, msg := range scriptErrors {
				lines = append(lines, fmt.Sprintf("Error: %s", msg))
			}
			return Result{Handled: true, Feedback: strings.Join(lines, "\n")}
		}
		return Result{Handled: true, Feedback: feedback}
	}
	if matchedAny {
		return Result{Handled: true, Feedback: feedback}
	}
	return Result{}
}

// matchesPhrase evaluates a trigger match expression against typed or
// spoken text. A blank expression never matches.
func (e *Engine) matchesPhrase(expression, text string) (bool, error) {
	return match.EvaluateOrDefault(expression, func(term string) bool {
		return match.PhraseTermMatch(text, term)
	}, false)
}

// conditionsPass evaluates the conditions expression against actor
// predicates. A blank expression passes; a malformed one fails closed.
func (e *Engine) conditionsPass(ctx context.Context, t *world.StoredTrigger, actor world.Actor) bool {
	ok, err := match.EvaluateOrDefault(t.Conditions, func(term string) bool {
		return actorTermMatch(actor, term)
	}, true)
	if err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("trigger %s has a bad conditions expression", t.Id)
		return false
	}
	return ok
}

// actorTermMatch is the predicate vocabulary for trigger conditions.
func actorTermMatch(a world.Actor, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	switch term {
	case "is_mob":
		return a.Kind() == world.ActorKindMob
	case "is_player":
		return a.Kind() == world.ActorKindPlayer
	case "invisible":
		return a.IsInvisible()
	}

	if name, ok := strings.CutPrefix(term, "name "); ok {
		return strings.EqualFold(strings.TrimSpace(name), a.Name())
	}
	return false
}

func (e *Engine) templateInRoom(templateId, roomId string) bool {
	for _, m := range e.state.MobsInRoom(roomId) {
		if m.Template == templateId {
			return true
		}
	}
	return false
}

// Gate bookkeeping. A gated trigger refuses to re-fire while its cache
// entry lives; GateOneShot entries never expire.
func (e *Engine) gateKey(t *world.StoredTrigger, roomId string) string {
	return fmt.Sprintf("%s.room.%s", t.Id, roomId)
}

func (e *Engine) gateAllowed(t *world.StoredTrigger, key string) bool {
	if t.GateDelay == 0 {
		return true
	}
	_, gated := e.gates.Get(key)
	return !gated
}

func (e *Engine) consumeGate(t *world.StoredTrigger, key string) {
	switch {
	case t.GateDelay == 0:
	case t.GateDelay == world.GateOneShot:
		e.gates.Set(key, struct{}{}, 0)
	default:
		e.gates.Set(key, struct{}{}, time.Duration(t.GateDelay)*time.Second)
	}
}

// runScript dispatches each script segment as a text command issued by the
// script actor. Segments are split on newlines and "&&". Returned strings
// are the user-facing errors the segments produced.
func (e *Engine) runScript(ctx context.Context, t *world.StoredTrigger, actor world.Actor, connectionId string, depth int) []string {
	kind, id, ok := world.ParseActorKey(actor.Key())
	if !ok {
		return nil
	}

	var errs []string
	for _, segment := range splitScript(t.Script) {
		events, err := e.dispatcher.Dispatch(ctx, &dispatch.Request{
			CommandType:  "text",
			ActorKind:    kind,
			ActorId:      id,
			ConnectionId: connectionId,
			Depth:        depth + 1,
			Payload: map[string]any{
				"text":                        segment,
				dispatch.PayloadTriggerSource: true,
			},
		})
		if err != nil {
			log.GetLogger(ctx).WithError(err).Warnf("trigger %s script segment %q failed", t.Id, segment)
			errs = append(errs, err.Error())
			continue
		}

		if msg := firstErrorText(events); msg != "" {
			errs = append(errs, msg)
		}
	}

	return errs
}

// splitScript breaks a script into dispatchable segments on newlines and
// "&&" separators.
func splitScript(script string) []string {
	var segments []string
	for _, line := range strings.Split(script, "\n") {
		for _, chunk := range strings.Split(line, "&&") {
			if segment := strings.TrimSpace(chunk); segment != "" {
				segments = append(segments, segment)
			}
		}
	}
	return segments
}

func firstErrorText(events []*event.GameEvent) string {
	for _, ev := range events {
		if !strings.HasSuffix(ev.Type, ".error") {
			continue
		}
		if ev.Text != "" {
			return ev.Text
		}
		if msg, ok := ev.Data["message"].(string); ok && msg != "" {
			return msg
		}
		return "Nested command failed."
	}
	return ""
}
