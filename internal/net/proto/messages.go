// Package proto defines the JSON documents served to external consumers.
package proto

import (
	"time"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
)

// ProtocolVersion is bumped whenever a served document changes shape.
const ProtocolVersion = 1

// TrainRemovedMessage is pushed to websocket subscribers when a train is
// judged fully gone.
type TrainRemovedMessage struct {
	Ver        int    `json:"ver" jsonschema:"title=Protocol version,minimum=1"`
	Type       string `json:"type" jsonschema:"title=Message type,description=Always train.removed"`
	OldID      int    `json:"oldId" jsonschema:"title=Retired train id"`
	RemainsID  *int   `json:"remainsId,omitempty" jsonschema:"title=Successor train id,description=Absent when no train absorbed the rolling stock"`
	ServerTime int64  `json:"serverTime" jsonschema:"title=Server wall clock in unix milliseconds"`
}

// NewTrainRemoved converts the bus payload into its wire form.
func NewTrainRemoved(payload events.TrainRemoved) TrainRemovedMessage {
	msg := TrainRemovedMessage{
		Ver:        ProtocolVersion,
		Type:       string(events.TypeTrainRemoved),
		OldID:      payload.OldID,
		ServerTime: time.Now().UnixMilli(),
	}
	if payload.HasRemains {
		remains := payload.RemainsID
		msg.RemainsID = &remains
	}
	return msg
}

// TrainSummary is one row of a locate-query response.
type TrainSummary struct {
	ID          int    `json:"id" jsonschema:"title=Train id"`
	State       string `json:"state" jsonschema:"title=Movement state"`
	Carriages   int    `json:"carriages" jsonschema:"title=Coupled vehicle count"`
	FrontMovers int    `json:"frontMovers" jsonschema:"title=Forward-facing locomotives"`
	BackMovers  int    `json:"backMovers" jsonschema:"title=Reverse-facing locomotives"`
}

// NewTrainSummary flattens a train handle for the query API.
func NewTrainSummary(t host.Train) TrainSummary {
	return TrainSummary{
		ID:          t.ID(),
		State:       t.State().String(),
		Carriages:   len(t.Carriages()),
		FrontMovers: len(t.FrontMovers()),
		BackMovers:  len(t.BackMovers()),
	}
}
