package trains

import (
	"testing"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
	"railwatch/server/internal/world"
)

// newWorld builds an empty world with one bus; trains spawned before the
// tracker exists are only picked up by the initial registry scan.
func newWorld(t *testing.T) (*events.Bus, *world.World) {
	t.Helper()
	bus := events.NewBus()
	return bus, world.New(bus, world.Config{FirstTrainID: 1})
}

func spawn(t *testing.T, w *world.World, spec world.SpawnSpec) *world.Train {
	t.Helper()
	train, err := w.SpawnTrain(spec)
	if err != nil {
		t.Fatalf("failed to spawn train: %v", err)
	}
	return train
}

// twoTrainsWithSingleLocomotive builds two single-locomotive trains with
// ids 1001 and 2001 on one surface.
func twoTrainsWithSingleLocomotive(t *testing.T) (*events.Bus, *world.World) {
	t.Helper()
	bus, w := newWorld(t)
	w.AddSurface("mainline")
	spawn(t, w, world.SpawnSpec{
		ID:        1001,
		Surface:   "mainline",
		Faction:   "player",
		Carriages: []world.CarriageSpec{world.Locomotive()},
	})
	spawn(t, w, world.SpawnSpec{
		ID:        2001,
		Surface:   "mainline",
		Faction:   "player",
		Carriages: []world.CarriageSpec{world.Locomotive()},
	})
	return bus, w
}

// trainsInDifferentStates spawns one pathing train and one in manual mode
// (state value 9).
func trainsInDifferentStates(t *testing.T) (*events.Bus, *world.World, *world.Train, *world.Train) {
	t.Helper()
	bus, w := newWorld(t)
	w.AddSurface("mainline")
	first := spawn(t, w, world.SpawnSpec{
		Surface: "mainline",
		Faction: "player",
		State:   host.TrainStateOnPath,
		Carriages: []world.CarriageSpec{
			world.Locomotive(),
			world.CargoWagon(),
		},
	})
	second := spawn(t, w, world.SpawnSpec{
		Surface: "mainline",
		Faction: "player",
		State:   host.TrainStateManual,
		Carriages: []world.CarriageSpec{
			world.Locomotive(),
		},
	})
	return bus, w, first, second
}

func newTracker(t *testing.T, bus *events.Bus, w *world.World) *Tracker {
	t.Helper()
	tracker, err := NewTracker(TrackerConfig{World: w, Bus: bus})
	if err != nil {
		t.Fatalf("failed to construct tracker: %v", err)
	}
	t.Cleanup(tracker.Close)
	return tracker
}

// collectRemovals records every derived train-removed publication.
func collectRemovals(t *testing.T, bus *events.Bus) *[]events.TrainRemoved {
	t.Helper()
	removed := &[]events.TrainRemoved{}
	sub := bus.Subscribe(events.TypeTrainRemoved, func(ev events.Event) {
		payload, ok := ev.Payload.(events.TrainRemoved)
		if !ok {
			t.Errorf("unexpected train.removed payload %T", ev.Payload)
			return
		}
		*removed = append(*removed, payload)
	})
	t.Cleanup(sub.Close)
	return removed
}

// firstLocomotive resolves a locomotive entity of the given train.
func firstLocomotive(t *testing.T, train host.Train) host.Entity {
	t.Helper()
	for _, c := range train.Carriages() {
		if c.Kind() == host.KindLocomotive {
			return c
		}
	}
	t.Fatalf("train %d has no locomotive", train.ID())
	return nil
}

// stubEntity and stubTrain exercise the reconciler handlers without a world.
type stubEntity struct {
	id      string
	kind    string
	name    string
	valid   bool
	faction string
	train   host.Train
}

func (e *stubEntity) ID() string        { return e.id }
func (e *stubEntity) Kind() string      { return e.kind }
func (e *stubEntity) Name() string      { return e.name }
func (e *stubEntity) Valid() bool       { return e.valid }
func (e *stubEntity) Faction() string   { return e.faction }
func (e *stubEntity) Train() host.Train { return e.train }

type stubTrain struct {
	id     int
	valid  bool
	state  host.TrainState
	front  int
	back   int
	wagons int
}

func (t *stubTrain) ID() int                { return t.id }
func (t *stubTrain) Valid() bool            { return t.valid }
func (t *stubTrain) State() host.TrainState { return t.state }

func (t *stubTrain) FrontMovers() []host.Entity {
	return t.stock(host.KindLocomotive, t.front)
}

func (t *stubTrain) BackMovers() []host.Entity {
	return t.stock(host.KindLocomotive, t.back)
}

func (t *stubTrain) Carriages() []host.Entity {
	out := t.stock(host.KindLocomotive, t.front+t.back)
	return append(out, t.stock(host.KindCargoWagon, t.wagons)...)
}

func (t *stubTrain) stock(kind string, n int) []host.Entity {
	out := make([]host.Entity, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &stubEntity{kind: kind, valid: true, train: t})
	}
	return out
}
