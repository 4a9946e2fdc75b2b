package world

import "railwatch/server/internal/host"

// CarriageSpec describes one piece of rolling stock in a spawn request.
// Backward flips a locomotive to pull in the reverse travel direction; it
// is ignored for wagons.
type CarriageSpec struct {
	Kind     string
	Name     string
	Backward bool
}

// Locomotive is a forward-facing locomotive of the default prototype.
func Locomotive() CarriageSpec {
	return CarriageSpec{Kind: host.KindLocomotive, Name: host.DefaultLocomotiveName}
}

// BackwardLocomotive is a locomotive oriented to pull in the reverse
// direction.
func BackwardLocomotive() CarriageSpec {
	return CarriageSpec{Kind: host.KindLocomotive, Name: host.DefaultLocomotiveName, Backward: true}
}

// CargoWagon is an unpowered carriage.
func CargoWagon() CarriageSpec {
	return CarriageSpec{Kind: host.KindCargoWagon, Name: "cargo-wagon"}
}

// Train implements host.Train over an ordered consist of carriages.
type Train struct {
	id        int
	valid     bool
	state     host.TrainState
	faction   string
	surface   *Surface
	carriages []*Carriage
}

func (t *Train) ID() int {
	return t.id
}

func (t *Train) Valid() bool {
	t.surface.world.mu.RLock()
	defer t.surface.world.mu.RUnlock()
	return t.valid
}

func (t *Train) State() host.TrainState {
	t.surface.world.mu.RLock()
	defer t.surface.world.mu.RUnlock()
	return t.state
}

// SetState changes the movement state without renumbering.
func (t *Train) SetState(state host.TrainState) {
	t.surface.world.mu.Lock()
	t.state = state
	t.surface.world.mu.Unlock()
}

func (t *Train) FrontMovers() []host.Entity {
	t.surface.world.mu.RLock()
	defer t.surface.world.mu.RUnlock()
	out := make([]host.Entity, 0)
	for _, c := range t.carriages {
		if c.kind == host.KindLocomotive && !c.backward {
			out = append(out, c)
		}
	}
	return out
}

func (t *Train) BackMovers() []host.Entity {
	t.surface.world.mu.RLock()
	defer t.surface.world.mu.RUnlock()
	out := make([]host.Entity, 0)
	for _, c := range t.carriages {
		if c.kind == host.KindLocomotive && c.backward {
			out = append(out, c)
		}
	}
	return out
}

func (t *Train) Carriages() []host.Entity {
	t.surface.world.mu.RLock()
	defer t.surface.world.mu.RUnlock()
	out := make([]host.Entity, len(t.carriages))
	for i, c := range t.carriages {
		out[i] = c
	}
	return out
}

// Carriage is one piece of rolling stock; it implements host.Entity.
type Carriage struct {
	id       string
	kind     string
	name     string
	backward bool
	valid    bool
	train    *Train
	world    *World
}

func (c *Carriage) ID() string {
	return c.id
}

func (c *Carriage) Kind() string {
	return c.kind
}

func (c *Carriage) Name() string {
	return c.name
}

func (c *Carriage) Valid() bool {
	c.world.mu.RLock()
	defer c.world.mu.RUnlock()
	return c.valid
}

func (c *Carriage) Faction() string {
	c.world.mu.RLock()
	defer c.world.mu.RUnlock()
	if c.train == nil {
		return ""
	}
	return c.train.faction
}

func (c *Carriage) Train() host.Train {
	c.world.mu.RLock()
	defer c.world.mu.RUnlock()
	if c.train == nil {
		return nil
	}
	return c.train
}
