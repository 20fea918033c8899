// Package train runs policies through generated episodes: it collects
// rewards, logs progress, stores one summary per episode and feeds sampled
// frames to the snapshot archive and the live stream.
package train

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"antcolony/internal/archive"
	"antcolony/internal/env"
	"antcolony/internal/policy"
	"antcolony/internal/storage"
	"antcolony/internal/stream"
)

// Options controls the training loop.
type Options struct {
	RunID    string
	Episodes int
	Policy   string
	// StatsEvery logs reward statistics every N steps; 0 disables progress logs.
	StatsEvery int
	// SaveEvery archives every step of the first episode and of every
	// episode whose number+1 is a multiple of SaveEvery.
	SaveEvery int
}

// Deps are the optional sinks of a run. A nil Archive or Hub is skipped; a
// nil Store defaults to an in-memory store.
type Deps struct {
	Logger  *slog.Logger
	Store   storage.Store
	Archive *archive.Archive
	Hub     *stream.Hub
}

// Trainer drives episodes from one generator.
type Trainer struct {
	cfg       env.Config
	evaluator env.Evaluator
	opts      Options
	logger    *slog.Logger
	store     storage.Store
	archive   *archive.Archive
	hub       *stream.Hub
	now       func() time.Time
}

// New prepares a trainer. Configuration problems surface from Run.
func New(cfg env.Config, evaluator env.Evaluator, opts Options, deps Deps) *Trainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := deps.Store
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if opts.Episodes <= 0 {
		opts.Episodes = 1
	}
	return &Trainer{
		cfg:       cfg,
		evaluator: evaluator,
		opts:      opts,
		logger:    logger,
		store:     store,
		archive:   deps.Archive,
		hub:       deps.Hub,
		now:       time.Now,
	}
}

// Run plays every episode and returns their summaries. Aborted episodes are
// recorded and the run continues; setup and storage failures stop it.
func (t *Trainer) Run(ctx context.Context) ([]storage.EpisodeSummary, error) {
	if err := t.store.Init(ctx); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	gen, err := env.NewGenerator(t.cfg)
	if err != nil {
		return nil, err
	}
	t.logger.Info("starting run",
		"run_id", t.opts.RunID,
		"root_seed", gen.RootSeed(),
		"episodes", t.opts.Episodes,
		"policy", t.opts.Policy,
	)
	if t.hub != nil {
		t.hub.SetHello(stream.NewHello(t.opts.RunID, t.cfg))
	}

	var out []storage.EpisodeSummary
	for ep := 0; ep < t.opts.Episodes; ep++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		e, err := gen.Generate(t.evaluator)
		if err != nil {
			return out, fmt.Errorf("episode %d: %w", ep, err)
		}
		if ep == 0 {
			for _, g := range e.Parameters().Groups {
				attrs := make([]any, 0, 2*len(g.Params))
				for _, p := range g.Params {
					attrs = append(attrs, p.Key, p.Value)
				}
				t.logger.Debug("parameters "+g.Name, attrs...)
			}
			if t.archive != nil {
				t.archive.SetParameters(e.Parameters())
			}
		}
		pol, err := policy.New(t.opts.Policy, e.World().Seed, t.cfg)
		if err != nil {
			return out, err
		}
		summary, err := t.episode(ctx, ep, e, pol)
		if err != nil {
			return out, err
		}
		if err := t.store.SaveEpisode(ctx, summary); err != nil {
			return out, fmt.Errorf("save episode %d: %w", ep, err)
		}
		out = append(out, summary)
	}
	return out, nil
}

// Sampled reports whether every step of episode ep is archived.
func (o Options) Sampled(ep int) bool {
	if ep == 0 {
		return true
	}
	return o.SaveEvery > 0 && (ep+1)%o.SaveEvery == 0
}

func (t *Trainer) episode(ctx context.Context, ep int, e *env.Environment, pol policy.Policy) (storage.EpisodeSummary, error) {
	logger := t.logger.With("episode", ep, "seed", e.World().Seed)
	logger.Info("episode started", "of", t.opts.Episodes)

	sampled := t.archive != nil && t.opts.Sampled(ep)
	rewards := make([]float64, len(e.Ants()))
	obs, _ := e.Observation()
	var avgStep time.Duration
	aborted := ""

	for !e.Done() {
		if err := ctx.Err(); err != nil {
			aborted = err.Error()
			break
		}
		start := t.now()
		res, err := e.StepActions(pol.Actions(obs))
		if err != nil {
			if e.Err() == nil {
				return storage.EpisodeSummary{}, fmt.Errorf("episode %d: %w", ep, err)
			}
			if errors.Is(err, env.ErrInvariant) {
				logger.Error("episode aborted: invariant violated", "err", err)
			} else {
				logger.Error("episode aborted", "err", err)
			}
			aborted = err.Error()
			break
		}
		for i, r := range res.Rewards {
			rewards[i] += r
		}
		obs = res.Observation
		step := e.StepCount()

		if t.opts.StatsEvery > 0 && step%t.opts.StatsEvery == 0 {
			st := storage.NewRewardStats(rewards)
			logger.Info("episode progress",
				"step", step,
				"max_steps", t.cfg.MaxSteps,
				"mean", st.Mean,
				"min", st.Min,
				"max", st.Max,
				"std", st.Std,
				"total", st.Total,
				"avg_step", avgStep,
			)
		}

		e.Update()
		elapsed := t.now().Sub(start)
		if avgStep == 0 {
			avgStep = elapsed
		} else {
			avgStep = time.Duration(0.99*float64(avgStep) + 0.01*float64(elapsed))
		}

		streaming := t.hub != nil && t.hub.Clients() > 0
		if sampled || streaming {
			snap := e.SaveState()
			if sampled {
				t.archive.Add(ep, snap)
			}
			if streaming {
				full := t.opts.StatsEvery > 0 && step%t.opts.StatsEvery == 0
				t.hub.Publish(stream.NewFrame(ep, snap, full))
			}
		}
	}

	stats := e.Stats()
	summary := storage.NewEpisodeSummary(storage.EpisodeSummary{
		RunID:         t.opts.RunID,
		Episode:       ep,
		Seed:          e.World().Seed,
		Steps:         stats.Step,
		Rewards:       storage.NewRewardStats(rewards),
		Delivered:     stats.Delivered,
		FoodTotal:     stats.FoodTotal,
		FoodRemaining: stats.FoodRemaining,
		MeanStepTime:  avgStep,
		Aborted:       aborted,
		FinishedAt:    t.now().UTC(),
	})
	logger.Info("episode finished",
		"steps", summary.Steps,
		"reward_total", summary.Rewards.Total,
		"delivered", summary.Delivered,
		"food_remaining", summary.FoodRemaining,
		"aborted", aborted != "",
	)
	return summary, nil
}
