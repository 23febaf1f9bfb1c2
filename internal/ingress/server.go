// Package ingress is the authenticated HTTP endpoint the AI sidecar posts
// intents back through. An accepted intent is dispatched as a free-text
// command issued by the target mob.
package ingress

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pixil98/go-log"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
)

// commandDispatcher is the slice of the dispatcher intents enter through.
type commandDispatcher interface {
	Dispatch(ctx context.Context, req *dispatch.Request) ([]*event.GameEvent, error)
}

// Server serves POST /v1/intents. It runs as a service worker.
type Server struct {
	addr       string
	token      string
	state      *world.State
	dispatcher commandDispatcher
}

func NewServer(addr, token string, state *world.State, dispatcher commandDispatcher) *Server {
	return &Server{
		addr:       addr,
		token:      token,
		state:      state,
		dispatcher: dispatcher,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/intents", s.handleIntent)

	srv := &http.Server{
		Addr:        s.addr,
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.GetLogger(ctx).Infof("intent ingress listening on %s", s.addr)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type intentRequest struct {
	IntentId      string         `json:"intent_id"`
	WorldKey      string         `json:"world_key"`
	RoomKey       string         `json:"room_key,omitempty"`
	MobKey        string         `json:"mob_key"`
	IntentType    string         `json:"intent_type"`
	Text          string         `json:"text"`
	SourceEventId string         `json:"source_event_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}

	var intent intentRequest
	err := json.NewDecoder(r.Body).Decode(&intent)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed intent body"})
		return
	}

	mob, errField := s.resolveMob(&intent)
	if errField != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": fmt.Sprintf("invalid %s", errField),
		})
		return
	}

	if intent.IntentId == "" {
		intent.IntentId = uuid.NewString()
	}

	command := strings.TrimSpace(fmt.Sprintf("%s %s", intent.IntentType, intent.Text))

	_, err = s.dispatcher.Dispatch(r.Context(), &dispatch.Request{
		CommandType: "text",
		ActorKind:   world.ActorKindMob,
		ActorId:     mob.Id,
		Payload: map[string]any{
			"text":                         command,
			dispatch.PayloadAIIntentSource: true,
		},
	})
	if err != nil {
		log.GetLogger(r.Context()).WithError(err).Warnf("dispatching intent %s", intent.IntentId)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "intent could not be dispatched"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  "accepted",
		"mob_key": mob.Key(),
		"command": command,
	})
}

// resolveMob validates mob, world, and room consistency, returning the
// offending field name on failure.
func (s *Server) resolveMob(intent *intentRequest) (*world.Mob, string) {
	kind, id, ok := world.ParseActorKey(intent.MobKey)
	if !ok || kind != world.ActorKindMob {
		return nil, "mob_key"
	}

	mob := s.state.Mob(id)
	if mob == nil {
		return nil, "mob_key"
	}

	if intent.WorldKey != fmt.Sprintf("world.%s", mob.World) {
		return nil, "world_key"
	}
	if intent.RoomKey != "" && intent.RoomKey != fmt.Sprintf("room.%s", mob.Room) {
		return nil, "room_key"
	}

	return mob, ""
}

func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return false
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
