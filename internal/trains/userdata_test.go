package trains

import (
	"testing"

	"railwatch/server/internal/host"
	"railwatch/server/internal/store"
)

func TestTrainIdentityIsDeterministic(t *testing.T) {
	_, w := twoTrainsWithSingleLocomotive(t)
	registry := NewRegistry()
	registry.Rebuild(w)

	train, _ := registry.Lookup(1001)
	first := TrainIdentity(train)
	second := TrainIdentity(train)

	if first.Name() != "train-1001" {
		t.Fatalf("expected name train-1001, got %q", first.Name())
	}
	if !first.Equal(second) {
		t.Fatalf("expected identities of the same train to be equal")
	}

	other, _ := registry.Lookup(2001)
	if first.Equal(TrainIdentity(other)) {
		t.Fatalf("expected identities of different trains to differ")
	}
	if !first.Valid() {
		t.Fatalf("expected identity of a live train to be valid")
	}
}

func TestTrainIdentityMirrorsValidity(t *testing.T) {
	_, w := twoTrainsWithSingleLocomotive(t)
	registry := NewRegistry()
	registry.Rebuild(w)

	train, _ := registry.Lookup(1001)
	identity := TrainIdentity(train)
	if !identity.Valid() {
		t.Fatalf("expected identity to start valid")
	}

	if err := w.Destroy(firstLocomotive(t, train)); err != nil {
		t.Fatalf("failed to destroy locomotive: %v", err)
	}
	if identity.Valid() {
		t.Fatalf("expected identity to turn invalid with its train")
	}
}

func TestTrainDataRoundTrip(t *testing.T) {
	_, w := twoTrainsWithSingleLocomotive(t)
	registry := NewRegistry()
	registry.Rebuild(w)
	data := NewTrainData(store.NewMemory())

	train, _ := registry.Lookup(1001)

	if _, ok, err := data.Get(train); err != nil || ok {
		t.Fatalf("expected miss before set, got ok=%v err=%v", ok, err)
	}

	payload := map[string]any{"schedule": "ore-loop", "priority": 3}
	if err := data.Set(train, payload); err != nil {
		t.Fatalf("failed to set user data: %v", err)
	}

	value, ok, err := data.Get(train)
	if err != nil || !ok {
		t.Fatalf("expected stored value, got ok=%v err=%v", ok, err)
	}
	stored, ok := value.(map[string]any)
	if !ok || stored["schedule"] != "ore-loop" {
		t.Fatalf("unexpected stored value %v", value)
	}

	// Data keys on train identity, not on the handle.
	other, _ := registry.Lookup(2001)
	if _, ok, _ := data.Get(other); ok {
		t.Fatalf("expected no data for a different train")
	}

	if err := data.Delete(train); err != nil {
		t.Fatalf("failed to delete user data: %v", err)
	}
	if _, ok, _ := data.Get(train); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestTrainDataRejectsInvalidTrain(t *testing.T) {
	data := NewTrainData(store.NewMemory())
	dead := &stubTrain{id: 31, valid: false, front: 1}

	if err := data.Set(dead, "anything"); err == nil {
		t.Fatalf("expected set on invalid train to fail")
	}
	if _, ok, err := data.Get(dead); err != nil || ok {
		t.Fatalf("expected miss on invalid train, got ok=%v err=%v", ok, err)
	}

	var none host.Train
	if _, ok, _ := NewTrainData(store.NewMemory()).Get(none); ok {
		t.Fatalf("expected miss on nil train")
	}
}
