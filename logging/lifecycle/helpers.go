package lifecycle

import (
	"context"

	"railwatch/server/logging"
)

const (
	// EventTrainRegistered is emitted when a train enters the registry.
	EventTrainRegistered logging.EventType = "lifecycle.train_registered"
	// EventTrainRemoved is emitted when a train is judged fully gone.
	EventTrainRemoved logging.EventType = "lifecycle.train_removed"
	// EventRegistryRebuilt is emitted after a wholesale registry rebuild.
	EventRegistryRebuilt logging.EventType = "lifecycle.registry_rebuilt"
)

// TrainRegisteredPayload captures how a train entered the registry.
type TrainRegisteredPayload struct {
	FrontMovers int   `json:"frontMovers"`
	BackMovers  int   `json:"backMovers"`
	PriorIDs    []int `json:"priorIds,omitempty"`
}

// TrainRemovedPayload captures the continuity outcome for a removed id.
type TrainRemovedPayload struct {
	OldID     int  `json:"oldId"`
	RemainsID *int `json:"remainsId,omitempty"`
}

// RegistryRebuiltPayload captures the size of the rebuilt mapping.
type RegistryRebuiltPayload struct {
	Trains int    `json:"trains"`
	Reason string `json:"reason"`
}

// TrainRegistered publishes a train registration event.
func TrainRegistered(ctx context.Context, pub logging.Publisher, trainID int, payload TrainRegisteredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTrainRegistered,
		Actor:    logging.TrainRef(trainID),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryContinuity,
		Payload:  payload,
	})
}

// TrainRemoved publishes a train removal event.
func TrainRemoved(ctx context.Context, pub logging.Publisher, payload TrainRemovedPayload) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventTrainRemoved,
		Actor:    logging.TrainRef(payload.OldID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryContinuity,
		Payload:  payload,
	}
	if payload.RemainsID != nil {
		event.Targets = []logging.EntityRef{logging.TrainRef(*payload.RemainsID)}
	}
	pub.Publish(ctx, event)
}

// RegistryRebuilt publishes a rebuild event.
func RegistryRebuilt(ctx context.Context, pub logging.Publisher, payload RegistryRebuiltPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRegistryRebuilt,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}
