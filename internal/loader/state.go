package loader

import (
	"time"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

// State is a snapshot of the loader. Methods return new values and never
// modify the receiver.
type State struct {
	Filter    models.Filter
	Result    Result
	Seq       uint64 // latest issued request; 0 before the first load
	StartedAt time.Time
}

// Ticket identifies one issued request.
type Ticket struct {
	Seq    uint64
	Filter models.Filter
}

// Completion is the outcome of running a ticket.
type Completion struct {
	Seq     uint64
	Result  Result
	Dropped int // malformed or duplicate features skipped
	Elapsed time.Duration
}

// NewState returns the idle state for a session starting with filter f.
func NewState(f models.Filter) State {
	return State{Filter: f, Result: Idle()}
}

// Begin issues the next request for f. Any previous error or result is
// replaced by Loading.
func (s State) Begin(f models.Filter, now time.Time) (State, Ticket) {
	s.Seq++
	s.Filter = f
	s.Result = Loading()
	s.StartedAt = now
	return s, Ticket{Seq: s.Seq, Filter: f}
}

// Complete publishes c if it answers the latest request. The bool reports
// whether c was applied; stale completions leave the state unchanged.
func (s State) Complete(c Completion) (State, bool) {
	if c.Seq != s.Seq || s.Result.Phase != PhaseLoading {
		return s, false
	}
	s.Result = c.Result
	return s, true
}

// Loading reports whether the latest request is still outstanding.
func (s State) Loading() bool {
	return s.Result.Phase == PhaseLoading
}
