package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"antcolony/internal/archive"
	"antcolony/internal/config"
	"antcolony/internal/core"
	"antcolony/internal/storage"
	"antcolony/internal/stream"
	"antcolony/internal/train"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, logOut io.Writer) error {
	fs := flag.NewFlagSet("antrl", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file overlaid on the built-in defaults")
	overrides := fs.String("set", "", "comma separated key=value environment overrides, e.g. ants=10,w=100")
	episodes := fs.Int("episodes", 0, "episode count")
	seed := fs.Int64("seed", 0, "root seed (unset draws one)")
	archivePath := fs.String("archive", "", "write sampled snapshots to this file")
	storeKind := fs.String("store", "", "summary store backend: memory|sqlite")
	sqlitePath := fs.String("sqlite", "", "sqlite database path")
	serve := fs.String("serve", "", "serve the live websocket stream on this address, e.g. :8080")
	workers := fs.Int("workers", 0, "goroutines per step for motion and sensing")
	visualizeEvery := fs.Int("visualize-every", 0, "archive every Nth episode (the first is always archived)")
	policyName := fs.String("policy", "", "policy: random|still")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	logLevel := fs.String("log-level", "", "debug|info|warn|error")
	writeConfig := fs.String("write-config", "", "write the merged config to this YAML file and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "episodes":
			cfg.Run.Episodes = *episodes
		case "seed":
			cfg.World.Seed = seed
		case "archive":
			cfg.Run.Archive = *archivePath
		case "store":
			cfg.Run.Store = *storeKind
		case "sqlite":
			cfg.Run.SQLitePath = *sqlitePath
		case "serve":
			cfg.Run.Serve = *serve
		case "workers":
			cfg.Run.Workers = *workers
		case "visualize-every":
			cfg.Run.SaveEvery = *visualizeEvery
		case "policy":
			cfg.Run.Policy = *policyName
		case "log-level":
			cfg.Run.LogLevel = *logLevel
		}
	})
	if *writeConfig != "" {
		return cfg.WriteYAML(*writeConfig)
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.Run.Level()}))

	setOverrides, err := config.ParseOverrides(*overrides)
	if err != nil {
		return err
	}
	envCfg, err := cfg.Resolve(setOverrides, logger)
	if err != nil {
		return err
	}
	evaluator, err := cfg.Evaluator()
	if err != nil {
		return err
	}

	id := *runID
	if id == "" {
		id = "run-" + time.Now().UTC().Format("20060102T150405")
	}

	store, err := storage.NewStore(cfg.Run.Store, cfg.Run.SQLitePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.CloseIfSupported(store); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}()

	root := core.ResolveSeed(envCfg.Seed)
	envCfg.Seed = &root

	var arc *archive.Archive
	if cfg.Run.Archive != "" {
		arc = archive.New(id, root)
	}

	var hub *stream.Hub
	g, gctx := errgroup.WithContext(ctx)
	streamCtx, stopStream := context.WithCancel(gctx)
	defer stopStream()
	if cfg.Run.Serve != "" {
		hub = stream.NewHub(logger, 64)
		ln, err := net.Listen("tcp", cfg.Run.Serve)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Run.Serve, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		logger.Info("streaming frames", "addr", ln.Addr().String(), "path", "/ws")

		g.Go(func() error {
			hub.Run(streamCtx)
			return nil
		})
		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-streamCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	trainer := train.New(envCfg, evaluator, train.Options{
		RunID:      id,
		Episodes:   cfg.Run.Episodes,
		Policy:     cfg.Run.Policy,
		StatsEvery: cfg.Run.StatsEvery,
		SaveEvery:  cfg.Run.SaveEvery,
	}, train.Deps{Logger: logger, Store: store, Archive: arc, Hub: hub})

	var summaries []storage.EpisodeSummary
	g.Go(func() error {
		defer stopStream()
		var err error
		summaries, err = trainer.Run(gctx)
		return err
	})
	runErr := g.Wait()

	if arc != nil && arc.Len() > 0 {
		if err := arc.WriteFile(cfg.Run.Archive); err != nil {
			return errors.Join(runErr, fmt.Errorf("write archive: %w", err))
		}
		logger.Info("archive written", "path", cfg.Run.Archive, "snapshots", arc.Len(), "episodes", len(arc.Episodes()))
	}
	if runErr != nil {
		return runErr
	}

	delivered := 0
	for _, s := range summaries {
		delivered += s.Delivered
	}
	logger.Info("run finished", "run_id", id, "episodes", len(summaries), "delivered", delivered)
	return nil
}
