package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// runServices runs the front ends until ctx is done or one of them fails.
// flush keeps running until every front end has returned, so writes accepted
// while they drain still reach the final flush.
func runServices(ctx context.Context, flush func(context.Context) error, frontends ...func(context.Context) error) error {
	flushCtx, stopFlush := context.WithCancel(context.WithoutCancel(ctx))
	defer stopFlush()

	flushDone := make(chan error, 1)
	go func() { flushDone <- flush(flushCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	for _, run := range frontends {
		g.Go(func() error { return run(gctx) })
	}
	err := g.Wait()

	stopFlush()
	if flushErr := <-flushDone; err == nil {
		err = flushErr
	}
	return err
}

// serveHTTP listens on addr until ctx is done, then shuts the app down and
// waits for in-flight requests up to timeout.
func serveHTTP(app *fiber.App, addr string, timeout time.Duration, logger zerolog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		listenErr := make(chan error, 1)
		go func() { listenErr <- app.Listen(addr) }()
		logger.Info().Str("addr", addr).Msg("server started")

		select {
		case err := <-listenErr:
			if err != nil {
				return fmt.Errorf("fiber stopped: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info().Msg("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("fiber shutdown error")
		}
		select {
		case <-listenErr:
		case <-shutdownCtx.Done():
		}
		return nil
	}
}
