package trains

import (
	"context"
	"fmt"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
	"railwatch/server/internal/observability"
	"railwatch/server/logging"
	"railwatch/server/logging/lifecycle"
)

// Reconciler re-derives train identity continuity from host lifecycle
// events. It is the single writer of the registry it is constructed with;
// handlers run to completion on the dispatching goroutine.
type Reconciler struct {
	registry *Registry
	world    host.World
	bus      *events.Bus
	pub      logging.Publisher
}

func NewReconciler(registry *Registry, world host.World, bus *events.Bus, pub logging.Publisher) *Reconciler {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Reconciler{registry: registry, world: world, bus: bus, pub: pub}
}

// HandleEntityRemoved decides, on a locomotive-removal notification,
// whether the owning train has ceased to exist as a logical entity. The
// train handle still reflects pre-removal topology at this point.
//
// Losing one locomotive cannot destroy a train that keeps another mover
// and another carriage: the coupling operation that follows will renumber
// the survivors and supersede this notification. Every other shape is
// judged destroyed and a removal notification is published with no
// successor. The registry is not touched here; the created-event that may
// follow cleans up the stale id.
func (r *Reconciler) HandleEntityRemoved(ev events.Event) {
	payload, ok := ev.Payload.(events.EntityRemoved)
	if !ok || payload.Entity == nil {
		return
	}
	if payload.Entity.Kind() != host.KindLocomotive {
		return
	}
	observability.RecordEventHandled(string(ev.Type))

	train := payload.Entity.Train()
	if train == nil || !train.Valid() {
		panic(fmt.Sprintf("trains: removal notification for entity %s names an invalid train", payload.Entity.ID()))
	}

	movers := len(train.FrontMovers()) + len(train.BackMovers())
	if len(train.Carriages()) > 1 && movers > 1 {
		return
	}

	r.publishRemoved(train.ID(), 0, false)
}

// HandleTrainCreated registers the new train when it has at least one mover
// and retires every distinct prior id the coupling operation consumed. Each
// retired id that was tracked is re-published as a removal naming the new
// train as its successor.
func (r *Reconciler) HandleTrainCreated(ev events.Event) {
	payload, ok := ev.Payload.(events.TrainCreated)
	if !ok || payload.Train == nil {
		return
	}
	observability.RecordEventHandled(string(ev.Type))

	train := payload.Train
	newID := train.ID()
	frontMovers := len(train.FrontMovers())
	backMovers := len(train.BackMovers())

	registered := false
	if frontMovers+backMovers > 0 {
		r.registry.register(newID, train)
		registered = true
		lifecycle.TrainRegistered(context.Background(), r.pub, newID, lifecycle.TrainRegisteredPayload{
			FrontMovers: frontMovers,
			BackMovers:  backMovers,
			PriorIDs:    payload.PriorIDs,
		})
	}

	seen := make(map[int]struct{}, len(payload.PriorIDs))
	for _, prior := range payload.PriorIDs {
		if prior == newID {
			continue
		}
		if _, dup := seen[prior]; dup {
			continue
		}
		seen[prior] = struct{}{}
		if r.registry.remove(prior) {
			r.publishRemoved(prior, newID, registered)
		}
	}
	observability.SetRegistrySize(r.registry.Len())
}

// HandleRebuild repopulates the registry wholesale; fired at module init
// and whenever the host signals a configuration change.
func (r *Reconciler) HandleRebuild(ev events.Event) {
	observability.RecordEventHandled(string(ev.Type))
	r.Rebuild(string(ev.Type))
}

// Rebuild rescans the world and replaces the registry contents.
func (r *Reconciler) Rebuild(reason string) {
	size := r.registry.Rebuild(r.world)
	observability.RecordRebuild(reason, size)
	lifecycle.RegistryRebuilt(context.Background(), r.pub, lifecycle.RegistryRebuiltPayload{
		Trains: size,
		Reason: reason,
	})
}

func (r *Reconciler) publishRemoved(oldID, remainsID int, hasRemains bool) {
	observability.RecordTrainRemoved(hasRemains)

	logPayload := lifecycle.TrainRemovedPayload{OldID: oldID}
	if hasRemains {
		remains := remainsID
		logPayload.RemainsID = &remains
	}
	lifecycle.TrainRemoved(context.Background(), r.pub, logPayload)

	if r.bus != nil {
		r.bus.Publish(events.Event{
			Type: events.TypeTrainRemoved,
			Payload: events.TrainRemoved{
				OldID:      oldID,
				RemainsID:  remainsID,
				HasRemains: hasRemains,
			},
		})
	}
}
