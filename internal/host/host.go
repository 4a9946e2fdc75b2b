// Package host declares the surface the tracker consumes from the game
// engine that owns trains. The engine is an external collaborator; every
// type here is a non-owning view over objects the engine may invalidate
// at any time.
package host

// Rolling-stock classes the engine reports through Entity.Kind.
const (
	KindLocomotive = "locomotive"
	KindCargoWagon = "cargo-wagon"
	KindFluidWagon = "fluid-wagon"
)

// DefaultLocomotiveName is the prototype searched for when a locate query
// does not name one.
const DefaultLocomotiveName = "diesel-locomotive"

// TrainState mirrors the engine's movement-state enum. The numeric values
// are part of the engine contract and must not be reordered.
type TrainState int

const (
	TrainStateOnPath TrainState = iota
	TrainStatePathLost
	TrainStateNoSchedule
	TrainStateNoPath
	TrainStateArriveSignal
	TrainStateWaitSignal
	TrainStateArriveStation
	TrainStateWaitStation
	TrainStateManualStop
	TrainStateManual
	TrainStateDestinationFull
)

func (s TrainState) String() string {
	switch s {
	case TrainStateOnPath:
		return "on-path"
	case TrainStatePathLost:
		return "path-lost"
	case TrainStateNoSchedule:
		return "no-schedule"
	case TrainStateNoPath:
		return "no-path"
	case TrainStateArriveSignal:
		return "arrive-signal"
	case TrainStateWaitSignal:
		return "wait-signal"
	case TrainStateArriveStation:
		return "arrive-station"
	case TrainStateWaitStation:
		return "wait-station"
	case TrainStateManualStop:
		return "manual-stop"
	case TrainStateManual:
		return "manual"
	case TrainStateDestinationFull:
		return "destination-full"
	default:
		return "unknown"
	}
}

// Entity is a single piece of rolling stock.
type Entity interface {
	// ID is the engine's unit identifier, unique among live entities.
	ID() string
	// Kind is the rolling-stock class, e.g. "locomotive".
	Kind() string
	// Name is the prototype name, e.g. "diesel-locomotive".
	Name() string
	Valid() bool
	Faction() string
	// Train resolves the owning train handle. During a removal callback the
	// handle still reflects pre-removal topology.
	Train() Train
}

// Train is an opaque handle over an engine-owned train. The id is unique
// among currently valid trains but is reassigned whenever the engine
// couples or decouples rolling stock.
type Train interface {
	ID() int
	Valid() bool
	State() TrainState
	// FrontMovers and BackMovers list the locomotives oriented to pull in
	// each travel direction, in consist order.
	FrontMovers() []Entity
	BackMovers() []Entity
	// Carriages lists every coupled vehicle, movers included.
	Carriages() []Entity
}

// EntityQuery filters a surface enumeration.
type EntityQuery struct {
	// Name restricts to a prototype; empty matches every prototype.
	Name string
	// Faction restricts to an owning faction; empty matches every faction.
	Faction string
}

// Surface is one spatial partition of the simulated world.
type Surface interface {
	Name() string
	FindEntities(EntityQuery) []Entity
}

// World is the engine's spatial index root.
type World interface {
	// Surfaces returns every existing surface in a stable order.
	Surfaces() []Surface
	Surface(name string) (Surface, bool)
}
