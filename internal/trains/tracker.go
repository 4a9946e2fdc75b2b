package trains

import (
	"fmt"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
	"railwatch/server/logging"
)

// TrackerConfig wires a Tracker to its collaborators.
type TrackerConfig struct {
	World host.World
	Bus   *events.Bus
	// Store backs the per-train user-data API; nil disables it.
	Store host.EntityStore
	// Publisher receives structured log events; nil disables logging.
	Publisher logging.Publisher
}

// Tracker assembles the registry, reconciler, and bus subscriptions into one
// owned unit. Construction performs the initial registry scan; Close detaches
// every handler so tests can tear down deterministically.
type Tracker struct {
	world    host.World
	registry *Registry
	rec      *Reconciler
	data     *TrainData
	subs     []*events.Subscription
}

func NewTracker(cfg TrackerConfig) (*Tracker, error) {
	if cfg.World == nil {
		return nil, fmt.Errorf("trains: tracker requires a world")
	}
	if cfg.Bus == nil {
		return nil, fmt.Errorf("trains: tracker requires an event bus")
	}

	registry := NewRegistry()
	rec := NewReconciler(registry, cfg.World, cfg.Bus, cfg.Publisher)

	t := &Tracker{
		world:    cfg.World,
		registry: registry,
		rec:      rec,
		data:     NewTrainData(cfg.Store),
	}

	t.subs = []*events.Subscription{
		cfg.Bus.Subscribe(events.TypeEntityDestroyed, rec.HandleEntityRemoved),
		cfg.Bus.Subscribe(events.TypeEntityMined, rec.HandleEntityRemoved),
		cfg.Bus.Subscribe(events.TypeTrainCreated, rec.HandleTrainCreated),
		cfg.Bus.Subscribe(events.TypeModuleInit, rec.HandleRebuild),
		cfg.Bus.Subscribe(events.TypeConfigurationChanged, rec.HandleRebuild),
	}

	rec.Rebuild("startup")
	return t, nil
}

// Close detaches every bus subscription. The registry keeps its last state
// for readers that still hold the tracker.
func (t *Tracker) Close() {
	for i := len(t.subs) - 1; i >= 0; i-- {
		t.subs[i].Close()
	}
	t.subs = nil
}

// Find proxies a locator query against the tracker's world.
func (t *Tracker) Find(c Criteria) []Found {
	return Find(t.world, c)
}

func (t *Tracker) Registry() *Registry {
	return t.registry
}

// Data exposes the per-train user-data API.
func (t *Tracker) Data() *TrainData {
	return t.data
}
