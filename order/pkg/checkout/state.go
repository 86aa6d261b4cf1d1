package checkout

import "fmt"

type State uint8

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateSubmitting: "submitting",
	StateSucceeded:  "succeeded",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
