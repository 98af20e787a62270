package echo

// State tracks a connection through its lifecycle.
type State int32

const (
	// StateAccepted means the connection is established, no stage started.
	StateAccepted State = iota
	// StateServing means all three stages are running.
	StateServing
	// StateClosing means shutdown is propagating through the stages.
	StateClosing
	// StateClosed means every stage has exited. Terminal.
	StateClosed
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateAccepted:
		return "ACCEPTED"
	case StateServing:
		return "SERVING"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
