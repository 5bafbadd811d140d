package notes

// State is a step of the submission state machine.
type State int

const (
	StateIdle State = iota
	StateAutoTagging
	StateMerging
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAutoTagging:
		return "auto_tagging"
	case StateMerging:
		return "merging"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer receives every state transition of a submission, in order, on the
// submitting goroutine.
type Observer func(State)
