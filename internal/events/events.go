// Package events carries host lifecycle notifications to the tracker and
// publishes the tracker's own derived notifications back out.
package events

import "railwatch/server/internal/host"

// Type names a bus event.
type Type string

const (
	// TypeEntityDestroyed fires when the engine destroys a piece of
	// rolling stock.
	TypeEntityDestroyed Type = "entity.destroyed"
	// TypeEntityMined fires when an actor picks a piece of rolling stock
	// back up.
	TypeEntityMined Type = "entity.mined"
	// TypeTrainCreated fires after every coupling or decoupling operation,
	// once per resulting train.
	TypeTrainCreated Type = "train.created"
	// TypeModuleInit fires once when the host finishes loading.
	TypeModuleInit Type = "module.init"
	// TypeConfigurationChanged fires when the host's configuration (version
	// upgrade, mod-set change) may have invalidated prior assumptions.
	TypeConfigurationChanged Type = "configuration.changed"

	// TypeTrainRemoved is published by the tracker when a train is judged
	// fully gone as a logical entity.
	TypeTrainRemoved Type = "train.removed"
)

// Event is a single bus notification.
type Event struct {
	Type    Type
	Payload any
}

// EntityRemoved is the payload for TypeEntityDestroyed and TypeEntityMined.
// Actor is empty for destruction.
type EntityRemoved struct {
	Entity host.Entity
	Actor  string
}

// TrainCreated is the payload for TypeTrainCreated. PriorIDs lists the zero,
// one, or two train ids consumed by the operation that produced the train.
type TrainCreated struct {
	Train    host.Train
	PriorIDs []int
}

// TrainRemoved is the payload for TypeTrainRemoved. RemainsID is meaningful
// only when HasRemains is set and names the train that absorbed the removed
// id's rolling stock.
type TrainRemoved struct {
	OldID      int
	RemainsID  int
	HasRemains bool
}
