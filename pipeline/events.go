package pipeline

import "time"

// State is the state of a run.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	// StateFailed means that nothing was found for the user.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run is over.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

type Level uint8

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Event is a single log message of a run.
type Event struct {
	Time    time.Time
	Level   Level
	Message string
}

// Observer receives everything a run reports. The calls are made from the goroutine
// executing the run, one at a time.
type Observer interface {
	OnLog(Event)
	OnProgress(fraction float64, label string)
	OnStateChange(State)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnLog(Event)                {}
func (NopObserver) OnProgress(float64, string) {}
func (NopObserver) OnStateChange(State)        {}

// Outcome is the result of a run.
type Outcome struct {
	RunID string
	State State

	Found      int
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64

	Events []Event
}

// Attempted is the number of items that were processed.
func (o *Outcome) Attempted() int {
	return o.Downloaded + o.Skipped + o.Failed
}
