package cropview

import "fmt"

// State is a Pipeline state. Runs move strictly forward through the stage
// states and end in Ready or Failed.
type State int

const (
	Idle State = iota
	Validating
	Reading
	Sniffing
	Decoding
	BoundsChecking
	Cropping
	Ready
	Failed
)

var stateNames = [...]string{
	Idle:           "Idle",
	Validating:     "Validating",
	Reading:        "Reading",
	Sniffing:       "Sniffing",
	Decoding:       "Decoding",
	BoundsChecking: "BoundsChecking",
	Cropping:       "Cropping",
	Ready:          "Ready",
	Failed:         "Failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == Ready || s == Failed
}

// Transition is reported to observers on every state change.
type Transition struct {
	RunID string
	From  State
	To    State
	// Err is set when To is Failed.
	Err *Error
}

// Snapshot is what a UI needs to render the pipeline.
type Snapshot struct {
	State  State
	Result *CropResult
	// Err is the current error, nil once dismissed.
	Err        *Error
	Processing bool
}
