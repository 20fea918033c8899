package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"antcolony/internal/config"
	"antcolony/internal/train"
)

type axisFlags []train.Axis

func (a *axisFlags) String() string {
	parts := make([]string, len(*a))
	for i, ax := range *a {
		parts[i] = ax.Key + "=" + strings.Join(ax.Values, ",")
	}
	return strings.Join(parts, " ")
}

func (a *axisFlags) Set(s string) error {
	ax, err := train.ParseAxis(s)
	if err != nil {
		return err
	}
	*a = append(*a, ax)
	return nil
}

func main() {
	var axes axisFlags
	configPath := flag.String("config", "", "YAML config file overlaid on the built-in defaults")
	overrides := flag.String("set", "", "comma separated key=value overrides applied to every point")
	episodes := flag.Int("episodes", 3, "episodes per parameter set")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 5, "how many results to print")
	flag.Var(&axes, "sweep", "swept key and values, e.g. -sweep diffusion=0.05,0.1 (repeatable)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	set, err := config.ParseOverrides(*overrides)
	if err != nil {
		fail(err)
	}
	base, err := cfg.Resolve(set, nil)
	if err != nil {
		fail(err)
	}
	evaluator, err := cfg.Evaluator()
	if err != nil {
		fail(err)
	}
	// Every point shares one root seed.
	if base.Seed == nil {
		seed := time.Now().UnixNano()
		base.Seed = &seed
	}
	base.Workers = 1

	points := len(train.Grid(axes))
	fmt.Printf("Sweeping %d parameter sets (%d workers, %d episodes each, seed %d)\n", points, *workers, *episodes, *base.Seed)

	start := time.Now()
	results := train.Sweep(ctx, base, evaluator, axes, train.SweepOptions{
		Episodes: *episodes,
		Workers:  *workers,
		Policy:   cfg.Run.Policy,
	})
	elapsed := time.Since(start)

	fmt.Printf("\nTop %d results (elapsed %s):\n", min(*top, len(results)), elapsed.Round(time.Millisecond))
	for i, res := range results {
		if i >= *top {
			break
		}
		if res.Err != nil {
			fmt.Printf("%2d) error=%v params=%s\n", i+1, res.Err, res.Label())
			continue
		}
		fmt.Printf("%2d) reward mean=%.2f std=%.2f min=%.2f max=%.2f delivered=%.1f aborted=%d params=%s\n",
			i+1, res.Reward.Mean, res.Reward.Std, res.Reward.Min, res.Reward.Max, res.Delivered, res.Aborted, res.Label())
	}
	if ctx.Err() != nil {
		fmt.Println("\nsweep interrupted; results are partial")
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
