// Package trains tracks logical train identity across the coupling and
// decoupling operations of a host engine that renumbers trains at will.
package trains

import "railwatch/server/internal/host"

// Criteria filters a train search. The zero value matches every train on
// every surface.
type Criteria struct {
	// Surface selects a single surface by name; empty searches all surfaces.
	Surface string
	// Faction restricts to trains owned by a faction; empty matches all.
	Faction string
	// EntityName is the rolling-stock prototype searched for; empty uses
	// host.DefaultLocomotiveName.
	EntityName string
	// State, when non-nil, keeps only trains in that movement state.
	State *host.TrainState
}

// Found pairs a train handle with the id it carried at query time.
type Found struct {
	Train host.Train
	ID    int
}

// Find enumerates trains matching the criteria. It is a pure query: no side
// effects, an empty slice when nothing matches. Trains reached through more
// than one matching entity are reported once, in first-seen order.
func Find(world host.World, c Criteria) []Found {
	if world == nil {
		return nil
	}

	surfaces := world.Surfaces()
	if c.Surface != "" {
		surface, ok := world.Surface(c.Surface)
		if !ok {
			return nil
		}
		surfaces = []host.Surface{surface}
	}

	name := c.EntityName
	if name == "" {
		name = host.DefaultLocomotiveName
	}

	found := make([]Found, 0)
	seen := make(map[int]struct{})
	for _, surface := range surfaces {
		for _, entity := range surface.FindEntities(host.EntityQuery{Name: name, Faction: c.Faction}) {
			train := entity.Train()
			if train == nil || !train.Valid() {
				continue
			}
			id := train.ID()
			if _, dup := seen[id]; dup {
				continue
			}
			if c.State != nil && train.State() != *c.State {
				continue
			}
			seen[id] = struct{}{}
			found = append(found, Found{Train: train, ID: id})
		}
	}
	return found
}
