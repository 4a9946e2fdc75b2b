package world

import (
	"fmt"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
)

// SpawnSpec describes a train to place on a surface. ID zero asks the world
// to assign the next free id.
type SpawnSpec struct {
	ID        int
	Surface   string
	Faction   string
	State     host.TrainState
	Carriages []CarriageSpec
}

// SpawnTrain places a new train and fires train.created with no prior ids.
func (w *World) SpawnTrain(spec SpawnSpec) (*Train, error) {
	if len(spec.Carriages) == 0 {
		return nil, fmt.Errorf("world: spawn requires at least one carriage")
	}

	w.mu.Lock()
	surface, ok := w.byName[spec.Surface]
	if !ok {
		w.mu.Unlock()
		return nil, fmt.Errorf("world: unknown surface %q", spec.Surface)
	}

	id := spec.ID
	if id == 0 {
		id = w.allocTrainIDLocked()
	} else {
		for _, s := range w.surfaces {
			for _, t := range s.trains {
				if t.id == id {
					w.mu.Unlock()
					return nil, fmt.Errorf("world: train id %d already in use", id)
				}
			}
		}
		if id >= w.nextTrainID {
			w.nextTrainID = id + 1
		}
	}

	train := &Train{
		id:      id,
		valid:   true,
		state:   spec.State,
		faction: spec.Faction,
		surface: surface,
	}
	for _, cs := range spec.Carriages {
		train.carriages = append(train.carriages, &Carriage{
			id:       w.allocStockIDLocked(),
			kind:     cs.Kind,
			name:     cs.Name,
			backward: cs.Backward,
			valid:    true,
			train:    train,
			world:    w,
		})
	}
	surface.trains = append(surface.trains, train)
	w.mu.Unlock()

	w.publish(events.Event{Type: events.TypeTrainCreated, Payload: events.TrainCreated{Train: train}})
	return train, nil
}

// Destroy removes a piece of rolling stock as if destroyed in the
// simulation. The entity-destroyed notification fires before any topology
// change so handlers observe the pre-removal consist through a still-valid
// train handle.
func (w *World) Destroy(e host.Entity) error {
	return w.removeStock(e, events.TypeEntityDestroyed, "")
}

// Mine removes rolling stock picked back up by an actor.
func (w *World) Mine(actor string, e host.Entity) error {
	return w.removeStock(e, events.TypeEntityMined, actor)
}

func (w *World) removeStock(e host.Entity, eventType events.Type, actor string) error {
	carriage, ok := e.(*Carriage)
	if !ok {
		return fmt.Errorf("world: entity %s is not rolling stock of this world", e.ID())
	}

	w.mu.Lock()
	if !carriage.valid || carriage.train == nil || !carriage.train.valid {
		w.mu.Unlock()
		return fmt.Errorf("world: entity %s is no longer valid", carriage.id)
	}
	train := carriage.train
	w.mu.Unlock()

	w.publish(events.Event{Type: eventType, Payload: events.EntityRemoved{Entity: carriage, Actor: actor}})

	w.mu.Lock()
	remaining := make([]*Carriage, 0, len(train.carriages)-1)
	for _, c := range train.carriages {
		if c != carriage {
			remaining = append(remaining, c)
		}
	}
	carriage.valid = false
	carriage.train = nil
	train.carriages = remaining

	switch {
	case len(remaining) == 0:
		// Nothing left: the train is entirely gone and no created-event
		// follows.
		train.valid = false
		train.surface.removeTrainLocked(train)
		w.mu.Unlock()
		return nil
	case hasMover(remaining):
		// Survivors recouple under a fresh id.
		successor := w.renumberLocked(train, remaining)
		w.mu.Unlock()
		w.publish(events.Event{Type: events.TypeTrainCreated, Payload: events.TrainCreated{
			Train:    successor,
			PriorIDs: []int{train.id},
		}})
		return nil
	default:
		// Wagons without a mover persist under the old id.
		w.mu.Unlock()
		return nil
	}
}

// Decouple splits a train before carriage index at, producing two trains
// with fresh ids. The host fires one created-event per resulting train,
// each naming the split train as its only prior id.
func (w *World) Decouple(t *Train, at int) (*Train, *Train, error) {
	w.mu.Lock()
	if !t.valid {
		w.mu.Unlock()
		return nil, nil, fmt.Errorf("world: train %d is no longer valid", t.id)
	}
	if at <= 0 || at >= len(t.carriages) {
		w.mu.Unlock()
		return nil, nil, fmt.Errorf("world: cannot decouple train %d at %d of %d carriages", t.id, at, len(t.carriages))
	}

	head := append([]*Carriage(nil), t.carriages[:at]...)
	tail := append([]*Carriage(nil), t.carriages[at:]...)
	first := w.renumberLocked(t, head)
	second := w.renumberLocked(t, tail)
	w.mu.Unlock()

	w.publish(events.Event{Type: events.TypeTrainCreated, Payload: events.TrainCreated{
		Train:    first,
		PriorIDs: []int{t.id},
	}})
	w.publish(events.Event{Type: events.TypeTrainCreated, Payload: events.TrainCreated{
		Train:    second,
		PriorIDs: []int{t.id},
	}})
	return first, second, nil
}

// Merge couples two trains into one with a fresh id and fires a single
// created-event naming both prior ids.
func (w *World) Merge(a, b *Train) (*Train, error) {
	w.mu.Lock()
	if !a.valid || !b.valid {
		w.mu.Unlock()
		return nil, fmt.Errorf("world: cannot merge invalid trains %d and %d", a.id, b.id)
	}
	if a.surface != b.surface {
		w.mu.Unlock()
		return nil, fmt.Errorf("world: trains %d and %d are on different surfaces", a.id, b.id)
	}
	if a.faction != b.faction {
		w.mu.Unlock()
		return nil, fmt.Errorf("world: trains %d and %d belong to different factions", a.id, b.id)
	}

	combined := append(append([]*Carriage(nil), a.carriages...), b.carriages...)
	merged := w.renumberLocked(a, combined)
	b.valid = false
	b.carriages = nil
	b.surface.removeTrainLocked(b)
	w.mu.Unlock()

	w.publish(events.Event{Type: events.TypeTrainCreated, Payload: events.TrainCreated{
		Train:    merged,
		PriorIDs: []int{a.id, b.id},
	}})
	return merged, nil
}

// renumberLocked retires the predecessor and hands its carriages to a fresh
// train on the same surface.
func (w *World) renumberLocked(predecessor *Train, carriages []*Carriage) *Train {
	successor := &Train{
		id:        w.allocTrainIDLocked(),
		valid:     true,
		state:     predecessor.state,
		faction:   predecessor.faction,
		surface:   predecessor.surface,
		carriages: carriages,
	}
	for _, c := range carriages {
		c.train = successor
	}
	if predecessor.valid {
		predecessor.valid = false
		predecessor.surface.removeTrainLocked(predecessor)
	}
	predecessor.surface.trains = append(predecessor.surface.trains, successor)
	return successor
}

func hasMover(carriages []*Carriage) bool {
	for _, c := range carriages {
		if c.kind == host.KindLocomotive {
			return true
		}
	}
	return false
}
