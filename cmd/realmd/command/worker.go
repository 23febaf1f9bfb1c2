package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-service"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/driver"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/handlers"
	"github.com/realmkit/realmd/internal/ingress"
	"github.com/realmkit/realmd/internal/messaging"
	"github.com/realmkit/realmd/internal/text"
	"github.com/realmkit/realmd/internal/trigger"
	"github.com/realmkit/realmd/internal/world"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Load assets and build the in-memory world registry
	stores, err := cfg.Storage.BuildStores()
	if err != nil {
		return nil, fmt.Errorf("building stores: %w", err)
	}
	state, err := world.NewState(stores)
	if err != nil {
		return nil, fmt.Errorf("building world state: %w", err)
	}

	renderer, err := text.NewRenderer(state)
	if err != nil {
		return nil, fmt.Errorf("building renderer: %w", err)
	}

	// Messaging: embedded NATS server carrying client delivery, the sidecar
	// task queue, and inbound gateway commands
	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	transport := messaging.NewActorTransport(natsServer)
	queue := messaging.NewTaskQueue(natsServer)

	forwarder := event.NewForwarder(queue, cfg.Sidecar.ForwardEvents)
	publisher := event.NewPublisher(transport, renderer, forwarder)

	// Command pipeline: registry, dispatcher, trigger engine
	registry := dispatch.NewRegistry()
	dispatcher := dispatch.NewDispatcher(registry, state, publisher, cfg.Dispatch.MaxTriggerDepth)
	engine := trigger.NewEngine(state, dispatcher)

	err = handlers.RegisterAll(registry, state, engine)
	if err != nil {
		return nil, fmt.Errorf("registering handlers: %w", err)
	}
	dispatcher.SetSubscriber(engine)

	tick, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}

	gameDriver := driver.NewDriver([]driver.Manager{
		world.NewRegenManager(state, cfg.StaminaRegen),
	}, driver.WithTickLength(tick))

	workers := service.WorkerList{
		"nats":     natsServer,
		"commands": messaging.NewCommandConsumer(natsServer, dispatcher),
		"driver":   gameDriver,
	}

	if cfg.Ingress.Addr != "" {
		workers["ingress"] = ingress.NewServer(cfg.Ingress.Addr, cfg.Ingress.Token, state, dispatcher)
	}

	return workers, nil
}
