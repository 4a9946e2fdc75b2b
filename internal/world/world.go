// Package world is an in-memory reference implementation of the host
// engine: surfaces, factions, and trains built from coupled rolling stock.
// It fires the same lifecycle events a real engine would, renumbering train
// ids on every coupling or decoupling operation. Tests and the demo server
// drive it; the tracker only ever sees the host interfaces.
//
// Mutating operations must run on a single goroutine. Readers on other
// goroutines are safe: every accessor takes the world read lock.
package world

import (
	"fmt"
	"sync"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
)

type Config struct {
	// FirstTrainID seeds the id counter; zero means 1.
	FirstTrainID int
}

type World struct {
	mu       sync.RWMutex
	bus      *events.Bus
	surfaces []*Surface
	byName   map[string]*Surface

	nextTrainID int
	nextStockID int
}

func New(bus *events.Bus, cfg Config) *World {
	first := cfg.FirstTrainID
	if first <= 0 {
		first = 1
	}
	return &World{
		bus:         bus,
		byName:      make(map[string]*Surface),
		nextTrainID: first,
		nextStockID: 1,
	}
}

// AddSurface creates a surface, or returns the existing one of that name.
func (w *World) AddSurface(name string) *Surface {
	w.mu.Lock()
	defer w.mu.Unlock()
	if existing, ok := w.byName[name]; ok {
		return existing
	}
	surface := &Surface{name: name, world: w}
	w.surfaces = append(w.surfaces, surface)
	w.byName[name] = surface
	return surface
}

// Surfaces satisfies host.World; surfaces appear in creation order.
func (w *World) Surfaces() []host.Surface {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]host.Surface, len(w.surfaces))
	for i, s := range w.surfaces {
		out[i] = s
	}
	return out
}

// Surface satisfies host.World.
func (w *World) Surface(name string) (host.Surface, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.byName[name]
	return s, ok
}

// AnnounceReady fires the module-initialized notification.
func (w *World) AnnounceReady() {
	w.publish(events.Event{Type: events.TypeModuleInit})
}

// AnnounceConfigurationChange fires the configuration-changed notification.
func (w *World) AnnounceConfigurationChange() {
	w.publish(events.Event{Type: events.TypeConfigurationChanged})
}

func (w *World) publish(ev events.Event) {
	if w.bus != nil {
		w.bus.Publish(ev)
	}
}

func (w *World) allocTrainIDLocked() int {
	id := w.nextTrainID
	w.nextTrainID++
	return id
}

func (w *World) allocStockIDLocked() string {
	id := fmt.Sprintf("stock-%d", w.nextStockID)
	w.nextStockID++
	return id
}

// Surface is one spatial partition holding trains.
type Surface struct {
	name   string
	world  *World
	trains []*Train
}

func (s *Surface) Name() string {
	return s.name
}

// FindEntities satisfies host.Surface: every coupled carriage matching the
// query, in train then consist order.
func (s *Surface) FindEntities(q host.EntityQuery) []host.Entity {
	s.world.mu.RLock()
	defer s.world.mu.RUnlock()
	out := make([]host.Entity, 0)
	for _, train := range s.trains {
		if !train.valid {
			continue
		}
		if q.Faction != "" && train.faction != q.Faction {
			continue
		}
		for _, c := range train.carriages {
			if q.Name != "" && c.name != q.Name {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func (s *Surface) removeTrainLocked(t *Train) {
	for i, candidate := range s.trains {
		if candidate == t {
			s.trains = append(s.trains[:i], s.trains[i+1:]...)
			return
		}
	}
}
