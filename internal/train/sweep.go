package train

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"antcolony/internal/env"
	"antcolony/internal/storage"
)

// Axis is one swept override key and the values it takes.
type Axis struct {
	Key    string
	Values []string
}

// ParseAxis parses "key=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return Axis{}, fmt.Errorf("sweep %q: want key=v1,v2", s)
	}
	var values []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return Axis{}, fmt.Errorf("sweep %q: no values", s)
	}
	return Axis{Key: k, Values: values}, nil
}

// Grid returns the cartesian product of the axes as override maps. The last
// axis varies fastest.
func Grid(axes []Axis) []map[string]string {
	sets := []map[string]string{{}}
	for _, ax := range axes {
		next := make([]map[string]string, 0, len(sets)*len(ax.Values))
		for _, base := range sets {
			for _, v := range ax.Values {
				m := maps.Clone(base)
				m[ax.Key] = v
				next = append(next, m)
			}
		}
		sets = next
	}
	return sets
}

// SweepOptions controls a parameter sweep.
type SweepOptions struct {
	Episodes int
	Workers  int
	Policy   string
}

// SweepResult summarizes the episodes run for one parameter set. Reward
// statistics are taken over the per-episode reward totals.
type SweepResult struct {
	Overrides map[string]string
	Reward    storage.RewardStats
	Delivered float64
	Aborted   int
	Err       error
}

// Label renders the overrides as sorted key=value pairs.
func (r SweepResult) Label() string {
	keys := slices.Sorted(maps.Keys(r.Overrides))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + r.Overrides[k]
	}
	return strings.Join(parts, " ")
}

// Sweep runs every grid point on a pool of workers and returns the results
// ranked by mean episode reward. Points whose overrides are invalid carry
// their error instead of stats.
func Sweep(ctx context.Context, base env.Config, evaluator env.Evaluator, axes []Axis, opts SweepOptions) []SweepResult {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	base.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	jobs := make(chan map[string]string)
	results := make(chan SweepResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for overrides := range jobs {
				results <- runPoint(ctx, base, evaluator, overrides, opts)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, set := range Grid(axes) {
			select {
			case jobs <- set:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []SweepResult
	for res := range results {
		all = append(all, res)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if (all[i].Err == nil) != (all[j].Err == nil) {
			return all[i].Err == nil
		}
		if all[i].Reward.Mean != all[j].Reward.Mean {
			return all[i].Reward.Mean > all[j].Reward.Mean
		}
		return all[i].Label() < all[j].Label()
	})
	return all
}

func runPoint(ctx context.Context, base env.Config, evaluator env.Evaluator, overrides map[string]string, opts SweepOptions) SweepResult {
	res := SweepResult{Overrides: overrides}
	cfg, err := env.ApplyMap(base, overrides)
	if err != nil {
		res.Err = err
		return res
	}
	tr := New(cfg, evaluator, Options{Episodes: opts.Episodes, Policy: opts.Policy}, Deps{Logger: cfg.Logger})
	summaries, err := tr.Run(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	totals := make([]float64, len(summaries))
	for i, s := range summaries {
		totals[i] = s.Rewards.Total
		res.Delivered += float64(s.Delivered)
		if s.Aborted != "" {
			res.Aborted++
		}
	}
	res.Reward = storage.NewRewardStats(totals)
	if len(summaries) > 0 {
		res.Delivered /= float64(len(summaries))
	}
	return res
}
