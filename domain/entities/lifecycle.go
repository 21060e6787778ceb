package entities

// LifecycleState is the bridge's position in its lifecycle.
type LifecycleState int

// Lifecycle states. TornDown is terminal.
const (
	StateUninitialized LifecycleState = iota
	StateReady
	StateEnabled
	StateDisabled
	StateTornDown
)

func (s LifecycleState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateTornDown:
		return "torn_down"
	default:
		return "unknown"
	}
}

// Active reports whether commands may be sent into the runtime in this state.
func (s LifecycleState) Active() bool {
	return s == StateReady || s == StateEnabled || s == StateDisabled
}
