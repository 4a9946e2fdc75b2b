package world

import (
	"testing"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
)

func newTestWorld(t *testing.T) (*events.Bus, *World, *Surface) {
	t.Helper()
	bus := events.NewBus()
	w := New(bus, Config{FirstTrainID: 100})
	return bus, w, w.AddSurface("mainline")
}

func mustSpawn(t *testing.T, w *World, spec SpawnSpec) *Train {
	t.Helper()
	train, err := w.SpawnTrain(spec)
	if err != nil {
		t.Fatalf("failed to spawn train: %v", err)
	}
	return train
}

func collectCreated(t *testing.T, bus *events.Bus) *[]events.TrainCreated {
	t.Helper()
	created := &[]events.TrainCreated{}
	sub := bus.Subscribe(events.TypeTrainCreated, func(ev events.Event) {
		payload, ok := ev.Payload.(events.TrainCreated)
		if !ok {
			t.Errorf("unexpected train.created payload %T", ev.Payload)
			return
		}
		*created = append(*created, payload)
	})
	t.Cleanup(sub.Close)
	return created
}

func TestAddSurfaceIsIdempotent(t *testing.T) {
	_, w, surface := newTestWorld(t)
	if again := w.AddSurface("mainline"); again != surface {
		t.Fatalf("expected the existing surface back, got a new one")
	}
	if len(w.Surfaces()) != 1 {
		t.Fatalf("expected 1 surface, got %d", len(w.Surfaces()))
	}
	if _, ok := w.Surface("nether"); ok {
		t.Fatalf("unexpected lookup hit for unknown surface")
	}
}

func TestSpawnTrainValidation(t *testing.T) {
	_, w, _ := newTestWorld(t)
	mustSpawn(t, w, SpawnSpec{ID: 500, Surface: "mainline", Carriages: []CarriageSpec{Locomotive()}})

	if _, err := w.SpawnTrain(SpawnSpec{Surface: "mainline"}); err == nil {
		t.Fatalf("expected error for empty consist")
	}
	if _, err := w.SpawnTrain(SpawnSpec{Surface: "nether", Carriages: []CarriageSpec{Locomotive()}}); err == nil {
		t.Fatalf("expected error for unknown surface")
	}
	if _, err := w.SpawnTrain(SpawnSpec{ID: 500, Surface: "mainline", Carriages: []CarriageSpec{Locomotive()}}); err == nil {
		t.Fatalf("expected error for duplicate train id")
	}
}

func TestSpawnTrainFiresCreatedWithoutPriors(t *testing.T) {
	bus, w, _ := newTestWorld(t)
	created := collectCreated(t, bus)

	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{Locomotive(), CargoWagon()}})

	if len(*created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(*created))
	}
	ev := (*created)[0]
	if ev.Train.ID() != train.ID() || len(ev.PriorIDs) != 0 {
		t.Fatalf("unexpected created event %+v", ev)
	}
	if train.ID() != 100 {
		t.Fatalf("expected first allocated id 100, got %d", train.ID())
	}
}

func TestDestroyPublishesPreRemovalTopology(t *testing.T) {
	bus, w, _ := newTestWorld(t)
	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{Locomotive(), CargoWagon()}})
	loco := train.Carriages()[0]

	var seenCarriages int
	var seenValid bool
	sub := bus.Subscribe(events.TypeEntityDestroyed, func(ev events.Event) {
		payload := ev.Payload.(events.EntityRemoved)
		observed := payload.Entity.Train()
		seenValid = observed != nil && observed.Valid()
		if observed != nil {
			seenCarriages = len(observed.Carriages())
		}
	})
	defer sub.Close()

	if err := w.Destroy(loco); err != nil {
		t.Fatalf("failed to destroy locomotive: %v", err)
	}
	if !seenValid {
		t.Fatalf("expected the train handle to still be valid during the notification")
	}
	if seenCarriages != 2 {
		t.Fatalf("expected the pre-removal consist of 2 carriages, got %d", seenCarriages)
	}
	if loco.Valid() {
		t.Fatalf("expected destroyed stock to be invalid afterwards")
	}
}

func TestDestroyLastCarriageRetiresTrainSilently(t *testing.T) {
	bus, w, surface := newTestWorld(t)
	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{Locomotive()}})
	created := collectCreated(t, bus)

	if err := w.Destroy(train.Carriages()[0]); err != nil {
		t.Fatalf("failed to destroy locomotive: %v", err)
	}
	if train.Valid() {
		t.Fatalf("expected the train to be invalid after losing all stock")
	}
	if len(*created) != 0 {
		t.Fatalf("expected no created event for a fully removed train, got %d", len(*created))
	}
	if got := len(surface.FindEntities(host.EntityQuery{})); got != 0 {
		t.Fatalf("expected an empty surface, got %d entities", got)
	}
}

func TestDestroySurvivorsRenumber(t *testing.T) {
	bus, w, _ := newTestWorld(t)
	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{Locomotive(), Locomotive(), CargoWagon()}})
	oldID := train.ID()
	created := collectCreated(t, bus)

	if err := w.Destroy(train.Carriages()[0]); err != nil {
		t.Fatalf("failed to destroy locomotive: %v", err)
	}
	if len(*created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(*created))
	}
	ev := (*created)[0]
	if len(ev.PriorIDs) != 1 || ev.PriorIDs[0] != oldID {
		t.Fatalf("expected prior ids [%d], got %v", oldID, ev.PriorIDs)
	}
	successor := ev.Train
	if successor.ID() == oldID {
		t.Fatalf("expected a fresh id for the surviving consist")
	}
	if !successor.Valid() || train.Valid() {
		t.Fatalf("expected successor valid and predecessor retired")
	}
	if len(successor.Carriages()) != 2 {
		t.Fatalf("expected 2 surviving carriages, got %d", len(successor.Carriages()))
	}
}

func TestDestroyLeavesUnpoweredRemainderUnderOldID(t *testing.T) {
	bus, w, _ := newTestWorld(t)
	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{Locomotive(), CargoWagon()}})
	oldID := train.ID()
	created := collectCreated(t, bus)

	if err := w.Destroy(train.Carriages()[0]); err != nil {
		t.Fatalf("failed to destroy locomotive: %v", err)
	}
	if len(*created) != 0 {
		t.Fatalf("expected no created event for a moverless remainder, got %d", len(*created))
	}
	if !train.Valid() || train.ID() != oldID {
		t.Fatalf("expected the wagon remainder to persist under id %d", oldID)
	}
	if len(train.Carriages()) != 1 {
		t.Fatalf("expected 1 remaining carriage, got %d", len(train.Carriages()))
	}
}

func TestRemoveStockRejectsStaleEntities(t *testing.T) {
	_, w, _ := newTestWorld(t)
	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{Locomotive()}})
	loco := train.Carriages()[0]

	if err := w.Destroy(loco); err != nil {
		t.Fatalf("failed to destroy locomotive: %v", err)
	}
	if err := w.Destroy(loco); err == nil {
		t.Fatalf("expected error destroying already removed stock")
	}
	if err := w.Mine("miner", loco); err == nil {
		t.Fatalf("expected error mining already removed stock")
	}
}

func TestDecouple(t *testing.T) {
	bus, w, _ := newTestWorld(t)
	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{
		Locomotive(), CargoWagon(), BackwardLocomotive(),
	}})
	oldID := train.ID()
	created := collectCreated(t, bus)

	head, tail, err := w.Decouple(train, 2)
	if err != nil {
		t.Fatalf("failed to decouple: %v", err)
	}
	if train.Valid() {
		t.Fatalf("expected the decoupled train to be retired")
	}
	if head.ID() == oldID || tail.ID() == oldID || head.ID() == tail.ID() {
		t.Fatalf("expected two fresh ids, got %d and %d", head.ID(), tail.ID())
	}
	if len(head.Carriages()) != 2 || len(tail.Carriages()) != 1 {
		t.Fatalf("unexpected split sizes %d/%d", len(head.Carriages()), len(tail.Carriages()))
	}
	if len(*created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(*created))
	}
	for _, ev := range *created {
		if len(ev.PriorIDs) != 1 || ev.PriorIDs[0] != oldID {
			t.Fatalf("expected prior ids [%d], got %v", oldID, ev.PriorIDs)
		}
	}
}

func TestDecoupleValidation(t *testing.T) {
	_, w, _ := newTestWorld(t)
	train := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Carriages: []CarriageSpec{Locomotive(), CargoWagon()}})

	if _, _, err := w.Decouple(train, 0); err == nil {
		t.Fatalf("expected error decoupling at index 0")
	}
	if _, _, err := w.Decouple(train, 2); err == nil {
		t.Fatalf("expected error decoupling past the consist")
	}

	if _, _, err := w.Decouple(train, 1); err != nil {
		t.Fatalf("failed to decouple: %v", err)
	}
	if _, _, err := w.Decouple(train, 1); err == nil {
		t.Fatalf("expected error decoupling a retired train")
	}
}

func TestMerge(t *testing.T) {
	bus, w, _ := newTestWorld(t)
	a := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Faction: "player", Carriages: []CarriageSpec{Locomotive()}})
	b := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Faction: "player", Carriages: []CarriageSpec{CargoWagon(), BackwardLocomotive()}})
	created := collectCreated(t, bus)

	merged, err := w.Merge(a, b)
	if err != nil {
		t.Fatalf("failed to merge: %v", err)
	}
	if a.Valid() || b.Valid() {
		t.Fatalf("expected both prior trains to be retired")
	}
	if len(merged.Carriages()) != 3 {
		t.Fatalf("expected 3 carriages in the merged consist, got %d", len(merged.Carriages()))
	}
	if len(*created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(*created))
	}
	ev := (*created)[0]
	if len(ev.PriorIDs) != 2 || ev.PriorIDs[0] != a.ID() || ev.PriorIDs[1] != b.ID() {
		t.Fatalf("expected prior ids [%d %d], got %v", a.ID(), b.ID(), ev.PriorIDs)
	}
}

func TestMergeValidation(t *testing.T) {
	_, w, _ := newTestWorld(t)
	w.AddSurface("depot")
	a := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Faction: "player", Carriages: []CarriageSpec{Locomotive()}})
	b := mustSpawn(t, w, SpawnSpec{Surface: "depot", Faction: "player", Carriages: []CarriageSpec{Locomotive()}})
	c := mustSpawn(t, w, SpawnSpec{Surface: "mainline", Faction: "bandits", Carriages: []CarriageSpec{Locomotive()}})

	if _, err := w.Merge(a, b); err == nil {
		t.Fatalf("expected error merging across surfaces")
	}
	if _, err := w.Merge(a, c); err == nil {
		t.Fatalf("expected error merging across factions")
	}
}

func TestFindEntitiesFilters(t *testing.T) {
	_, w, surface := newTestWorld(t)
	mustSpawn(t, w, SpawnSpec{Surface: "mainline", Faction: "player", Carriages: []CarriageSpec{Locomotive(), CargoWagon()}})
	mustSpawn(t, w, SpawnSpec{Surface: "mainline", Faction: "bandits", Carriages: []CarriageSpec{Locomotive()}})

	if got := len(surface.FindEntities(host.EntityQuery{})); got != 3 {
		t.Fatalf("expected 3 entities unfiltered, got %d", got)
	}
	if got := len(surface.FindEntities(host.EntityQuery{Name: host.DefaultLocomotiveName})); got != 2 {
		t.Fatalf("expected 2 locomotives, got %d", got)
	}
	if got := len(surface.FindEntities(host.EntityQuery{Faction: "player"})); got != 2 {
		t.Fatalf("expected 2 player entities, got %d", got)
	}
	if got := len(surface.FindEntities(host.EntityQuery{Faction: "player", Name: "cargo-wagon"})); got != 1 {
		t.Fatalf("expected 1 player wagon, got %d", got)
	}
}

func TestAnnouncements(t *testing.T) {
	bus, w, _ := newTestWorld(t)
	var types []events.Type
	for _, typ := range []events.Type{events.TypeModuleInit, events.TypeConfigurationChanged} {
		sub := bus.Subscribe(typ, func(ev events.Event) {
			types = append(types, ev.Type)
		})
		t.Cleanup(sub.Close)
	}

	w.AnnounceReady()
	w.AnnounceConfigurationChange()

	if len(types) != 2 || types[0] != events.TypeModuleInit || types[1] != events.TypeConfigurationChanged {
		t.Fatalf("unexpected announcement order %v", types)
	}
}
