package env

import (
	"math"

	"antcolony/internal/core"
)

const degToRad = math.Pi / 180

// AntState is the full kinematic and bookkeeping state of one ant. ID is
// stable for the episode and matches the index in every per-ant slice.
type AntState struct {
	ID        int       `json:"id"`
	Pos       core.Vec2 `json:"pos"`
	Heading   float64   `json:"heading"` // radians in [0, 2pi)
	Speed     float64   `json:"speed"`   // signed effective speed of the last move
	Carrying  bool      `json:"carrying"`
	Reward    float64   `json:"reward"`
	Explored  int       `json:"explored"`
	Delivered int       `json:"delivered"`
}

// Action is the per-ant command of one step. Linear is in cells per step,
// Rotation in degrees per step. A deposit is issued when Channel >= 0 and
// Deposit > 0.
type Action struct {
	Linear   float64 `json:"linear"`
	Rotation float64 `json:"rotation"`
	Channel  int     `json:"channel"`
	Deposit  float64 `json:"deposit"`
}

// Move returns an action without a pheromone deposit.
func Move(linear, rotation float64) Action {
	return Action{Linear: linear, Rotation: rotation, Channel: -1}
}

// Clamp limits every command to the configured maxima. NaN commands become 0.
func (k Kinematics) Clamp(a Action) Action {
	a.Linear = clampFinite(a.Linear, -k.MaxSpeed, k.MaxSpeed)
	a.Rotation = clampFinite(a.Rotation, -k.MaxRotSpeed, k.MaxRotSpeed)
	a.Deposit = clampFinite(a.Deposit, 0, k.MaxDeposit)
	if a.Deposit == 0 {
		a.Channel = -1
	}
	return a
}

// Advance applies a clamped action to s and returns the new heading, the
// effective signed speed and the unobstructed destination. Moving backward
// and carrying food both scale the speed, and the reductions compose.
func (k Kinematics) Advance(s AntState, a Action) (heading, speed float64, dest core.Vec2) {
	heading = normalizeAngle(s.Heading + a.Rotation*degToRad)
	speed = a.Linear
	if speed < 0 {
		speed *= k.BackwardSpeedReduction
	}
	if s.Carrying {
		speed *= k.CarrySpeedReduction
	}
	dest = s.Pos.Add(core.Heading(heading).Scale(speed))
	return heading, speed, dest
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func clampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
