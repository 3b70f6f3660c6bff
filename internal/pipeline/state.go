package pipeline

// State is a point in the provisioning state machine.
type State int

const (
	StateStart State = iota
	StatePrepared
	StateFetched
	StateCatalogued
	StateNormalized
	StatePatched
	StatePermissioned
	StateDone
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePrepared:
		return "prepared"
	case StateFetched:
		return "fetched"
	case StateCatalogued:
		return "catalogued"
	case StateNormalized:
		return "normalized"
	case StatePatched:
		return "patched"
	case StatePermissioned:
		return "permissioned"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
