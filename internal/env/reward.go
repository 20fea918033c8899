package env

import "antcolony/internal/core"

// Transition is one ant's move through a step, as seen by an Evaluator.
type Transition struct {
	Prev   AntState
	Next   AntState
	Action Action
}

// PickedUp reports whether the ant took food during the step.
func (t Transition) PickedUp() bool { return !t.Prev.Carrying && t.Next.Carrying }

// Dropped reports whether the ant delivered food to the anthill.
func (t Transition) Dropped() bool { return t.Next.Delivered > t.Prev.Delivered }

// NewCells returns how many cells the ant explored for the first time.
func (t Transition) NewCells() int { return t.Next.Explored - t.Prev.Explored }

// Context is the read-only world summary passed to an Evaluator after a step
// has been committed.
type Context struct {
	Step            int
	MaxSteps        int
	Size            core.Size
	FoodTotal       float64
	FoodRemaining   float64
	Carrying        int
	Delivered       int
	RewardThreshold float64
}

// Evaluator maps one ant's transition to a scalar reward and an optional
// episode-terminal flag. Implementations must be pure functions of their
// inputs.
type Evaluator interface {
	Evaluate(t Transition, ctx Context) (reward float64, terminal bool)
}
