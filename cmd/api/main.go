package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"chat-ranking-service/internal/config"
	"chat-ranking-service/internal/logging"

	"github.com/coder/quartz"
	goflags "github.com/jessevdk/go-flags"
	"github.com/spf13/afero"

	_ "chat-ranking-service/docs"
)

type options struct {
	Config   string `short:"c" long:"config" env:"RANKING_CONFIG" description:"Path to the YAML config file" default:"config.yaml"`
	LogLevel string `long:"log-level" description:"Override logging.level"`
}

// @title Chat Ranking Service API
// @version 1.0
// @description Per-group chat activity counters with global, daily and weekly leaderboards.
// @BasePath /
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	parser := goflags.NewParser(&opts, goflags.Default)
	parser.Name = "chat-ranking"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}

	// Config
	cfg, err := config.Load(afero.NewOsFs(), opts.Config)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	store, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := newService(cfg, store, quartz.NewReal(), logger)
	if err != nil {
		return err
	}

	frontends := []func(context.Context) error{
		serveHTTP(svc.app, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout, logger),
	}
	if svc.bridge != nil {
		frontends = append(frontends, svc.bridge.Run)
	}

	// The flush loop outlives the front ends so its final flush sees every
	// accepted write.
	err = runServices(ctx, svc.counters.Run, frontends...)
	logger.Info().Msg("server exiting")
	return err
}
