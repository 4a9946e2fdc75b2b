package trains

import (
	"fmt"

	"railwatch/server/internal/host"
)

// TrainIdentity wraps a train handle in the synthetic identity the generic
// entity-data store keys on. The name is derived deterministically from the
// train id and validity mirrors the handle.
func TrainIdentity(t host.Train) host.Identity {
	if t == nil {
		return host.Identity{}
	}
	return host.NewIdentity(fmt.Sprintf("train-%d", t.ID()), t.Valid)
}

// TrainData attaches arbitrary user data to trains by delegating to a
// generic entity store after identity wrapping. No caching.
type TrainData struct {
	store host.EntityStore
}

func NewTrainData(store host.EntityStore) *TrainData {
	return &TrainData{store: store}
}

func (d *TrainData) Get(t host.Train) (any, bool, error) {
	if d.store == nil {
		return nil, false, nil
	}
	return d.store.Get(TrainIdentity(t))
}

func (d *TrainData) Set(t host.Train, value any) error {
	if d.store == nil {
		return fmt.Errorf("trains: no entity store configured")
	}
	return d.store.Set(TrainIdentity(t), value)
}

func (d *TrainData) Delete(t host.Train) error {
	if d.store == nil {
		return nil
	}
	return d.store.Delete(TrainIdentity(t))
}
