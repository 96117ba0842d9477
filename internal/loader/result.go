package loader

import "github.com/SridharX3/Earthquake-Visualizer/internal/models"

// Phase is the lifecycle stage of the current load.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseFailed
	PhaseSucceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseFailed:
		return "failed"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Result is the outcome of a load. Records is set only when Phase is
// PhaseSucceeded and Err only when Phase is PhaseFailed.
type Result struct {
	Phase   Phase
	Records []models.Earthquake
	Err     error
}

// Idle is the result before the first load
func Idle() Result { return Result{Phase: PhaseIdle} }

// Loading marks a load in progress
func Loading() Result { return Result{Phase: PhaseLoading} }

// Failed wraps a load error
func Failed(err error) Result { return Result{Phase: PhaseFailed, Err: err} }

// Succeeded wraps the display set. A nil slice is stored as empty.
func Succeeded(records []models.Earthquake) Result {
	if records == nil {
		records = []models.Earthquake{}
	}
	return Result{Phase: PhaseSucceeded, Records: records}
}

// NoResults reports a successful load that matched nothing.
func (r Result) NoResults() bool {
	return r.Phase == PhaseSucceeded && len(r.Records) == 0
}
