// Package policy holds baseline controllers that turn observations into
// actions. Learning policies live outside this module.
package policy

import (
	"fmt"

	"antcolony/internal/core"
	"antcolony/internal/env"
)

// Policy chooses one action per ant.
type Policy interface {
	Actions(obs env.Observation) []env.Action
}

// Random samples uniform motion commands within the kinematic limits and
// occasionally lays pheromone: channel 1 while carrying food, channel 0
// otherwise.
type Random struct {
	rng         *core.RNG
	k           env.Kinematics
	channels    int
	DepositRate float64
}

// NewRandom returns a seeded random policy.
func NewRandom(seed int64, k env.Kinematics, channels int) *Random {
	return &Random{rng: core.NewRNG(seed), k: k, channels: channels, DepositRate: 0.2}
}

func (p *Random) Actions(obs env.Observation) []env.Action {
	out := make([]env.Action, len(obs.Agents))
	for i, agent := range obs.Agents {
		a := env.Move(
			p.rng.Uniform(-p.k.MaxSpeed, p.k.MaxSpeed),
			p.rng.Uniform(-p.k.MaxRotSpeed, p.k.MaxRotSpeed),
		)
		if p.channels > 0 && p.k.MaxDeposit > 0 && p.rng.Float64() < p.DepositRate {
			ch := 0
			if len(agent) > 0 && agent[0] > 0 {
				ch = 1
			}
			a.Channel = min(ch, p.channels-1)
			a.Deposit = p.rng.Uniform(0, p.k.MaxDeposit)
		}
		out[i] = a
	}
	return out
}

// Still never moves.
type Still struct{}

func (Still) Actions(obs env.Observation) []env.Action {
	out := make([]env.Action, len(obs.Agents))
	for i := range out {
		out[i] = env.Move(0, 0)
	}
	return out
}

// New builds a policy by name: "random" or "still".
func New(name string, seed int64, cfg env.Config) (Policy, error) {
	switch name {
	case "", "random":
		return NewRandom(seed, cfg.Kinematics, cfg.Pheromone.Channels), nil
	case "still":
		return Still{}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}
