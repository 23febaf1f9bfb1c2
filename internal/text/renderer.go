// Package text turns events into the human-readable lines clients display.
// Line-shaped output comes from a template table; room blocks are assembled
// programmatically because their shape depends on the viewer.
package text

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

var lineTemplates = map[string]string{
	"cmd.say.success":                `You say {{.Text | squote}}`,
	"notification.cmd.say.success":   `{{.Actor}} says {{.Text | squote}}`,
	"cmd.yell.success":               `You yell {{.Text | squote}}`,
	"notification.cmd.yell.success":  `{{.Actor}} yells {{.Text | squote}}`,
	"cmd.emote.success":              `{{.Actor}} {{.Text}}`,
	"notification.cmd.emote.success": `{{.Actor}} {{.Text}}`,
	"cmd.roll.success":               `You roll {{.Die}}: {{.Outcome}}`,
	"notification.cmd.roll.success":  `{{.Actor}} rolls {{.Die}}: {{.Outcome}}`,
	"notification.movement.exit":     `{{.Actor}} leaves {{.Direction}}.`,
	"notification.movement.enter":    `{{.Actor}} has arrived from {{.From}}.`,
}

// lineContext carries the resolved fields a line template may reference.
type lineContext struct {
	Actor     string
	Text      string
	Die       string
	Outcome   any
	Direction string
	From      string
}

// Viewers answers per-viewer display preferences.
type Viewers interface {
	RoomBrief(viewerKey string) bool
}

type Renderer struct {
	viewers   Viewers
	templates map[string]*template.Template
}

func NewRenderer(viewers Viewers) (*Renderer, error) {
	funcs := sprig.FuncMap()
	funcs["capfirst"] = capfirst

	templates := map[string]*template.Template{}
	for eventType, src := range lineTemplates {
		tmpl, err := template.New(eventType).Funcs(funcs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing template for %s: %w", eventType, err)
		}
		templates[eventType] = tmpl
	}

	return &Renderer{
		viewers:   viewers,
		templates: templates,
	}, nil
}

// RenderText produces the display line(s) for one event as seen by one
// viewer. An empty string means the event has no textual form.
func (r *Renderer) RenderText(eventType string, data map[string]any, viewerKey string) (string, error) {
	switch eventType {
	case "cmd.look.success":
		return r.renderLook(data, viewerKey), nil
	case "cmd.move.success":
		return r.renderRoomBlock(roomPayload(data), viewerKey, !r.roomBrief(viewerKey)), nil
	case "cmd.state.sync.success":
		return r.renderRoomBlock(roomPayload(data), viewerKey, true), nil
	case "cmd.inventory.success":
		return renderInventory(asMap(data["actor"])), nil
	}

	tmpl, ok := r.templates[eventType]
	if !ok {
		return "", nil
	}

	lc, ok := buildLineContext(eventType, data)
	if !ok {
		return "", nil
	}

	var b strings.Builder
	err := tmpl.Execute(&b, lc)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", eventType, err)
	}
	return b.String(), nil
}

func (r *Renderer) roomBrief(viewerKey string) bool {
	return r.viewers != nil && r.viewers.RoomBrief(viewerKey)
}

func (r *Renderer) renderLook(data map[string]any, viewerKey string) string {
	target := asMap(data["target"])
	switch str(data, "target_type") {
	case "room":
		return r.renderRoomBlock(target, viewerKey, true)
	case "char":
		return capfirst(str(target, "name"))
	case "room_detail":
		if detail, ok := data["target"].(string); ok {
			return detail
		}
	}
	return ""
}

// buildLineContext resolves the template fields from the event payload,
// reporting false when a required field is missing so the event silently
// renders to nothing, matching the renderer's permissive contract.
func buildLineContext(eventType string, data map[string]any) (*lineContext, bool) {
	lc := &lineContext{
		Actor:     capfirst(str(asMap(data["actor"]), "name")),
		Text:      str(data, "text"),
		Die:       str(data, "die"),
		Outcome:   data["outcome"],
		Direction: str(data, "direction"),
	}

	switch lc.Direction {
	case "up":
		lc.From = "above"
	case "down":
		lc.From = "below"
	case "":
	default:
		lc.From = "the " + lc.Direction
	}

	switch eventType {
	case "cmd.say.success", "cmd.yell.success":
		return lc, lc.Text != ""
	case "notification.cmd.say.success", "notification.cmd.yell.success",
		"cmd.emote.success", "notification.cmd.emote.success":
		return lc, lc.Text != "" && lc.Actor != ""
	case "cmd.roll.success":
		return lc, lc.Die != "" && lc.Outcome != nil
	case "notification.cmd.roll.success":
		return lc, lc.Die != "" && lc.Outcome != nil && lc.Actor != ""
	case "notification.movement.exit", "notification.movement.enter":
		return lc, lc.Actor != "" && lc.Direction != ""
	}
	return lc, true
}

func renderInventory(actor map[string]any) string {
	var names []string
	for _, entry := range asSlice(actor["inventory"]) {
		if name := str(asMap(entry), "name"); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "You are carrying:\nNothing."
	}
	return "You are carrying:\n" + strings.Join(names, "\n")
}

func roomPayload(data map[string]any) map[string]any {
	if room := asMap(data["room"]); room != nil {
		return room
	}
	return asMap(data["target"])
}

func capfirst(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
