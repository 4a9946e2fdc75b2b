package host

// Identity is a small tagged value the generic entity-data store keys on.
// Two identities are the same entity when their names match; validity is
// delegated to the object the identity was derived from.
type Identity struct {
	name  string
	valid func() bool
}

// NewIdentity builds an identity from a deterministic name and a validity
// probe. A nil probe yields an always-valid identity.
func NewIdentity(name string, valid func() bool) Identity {
	return Identity{name: name, valid: valid}
}

func (i Identity) Name() string {
	return i.name
}

func (i Identity) Valid() bool {
	if i.name == "" {
		return false
	}
	if i.valid == nil {
		return true
	}
	return i.valid()
}

func (i Identity) Equal(other Identity) bool {
	return i.name != "" && i.name == other.name
}

// EntityStore attaches arbitrary user data to identities. Implementations
// reject writes against invalid identities and report absent keys through
// the ok result, never through an error.
type EntityStore interface {
	Get(id Identity) (any, bool, error)
	Set(id Identity, value any) error
	Delete(id Identity) error
}
