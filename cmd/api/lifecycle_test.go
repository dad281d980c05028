package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func TestRunServices_FlushOutlivesFrontends(t *testing.T) {
	var log eventLog
	ctx, cancel := context.WithCancel(context.Background())

	flush := func(ctx context.Context) error {
		<-ctx.Done()
		log.add("flush")
		return nil
	}
	frontend := func(name string, drain time.Duration) func(context.Context) error {
		return func(ctx context.Context) error {
			<-ctx.Done()
			time.Sleep(drain)
			log.add(name)
			return nil
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- runServices(ctx, flush, frontend("http", 20*time.Millisecond), frontend("bridge", 0))
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServices did not return")
	}

	events := log.all()
	require.Len(t, events, 3)
	assert.Equal(t, "flush", events[2], "final flush must come after every front end stopped")
}

func TestRunServices_FrontendErrorStopsOthers(t *testing.T) {
	boom := errors.New("listen tcp: address in use")
	flushStopped := false

	err := runServices(context.Background(),
		func(ctx context.Context) error {
			<-ctx.Done()
			flushStopped = true
			return nil
		},
		func(context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
	)
	require.ErrorIs(t, err, boom)
	assert.True(t, flushStopped)
}

func TestRunServices_WriteDuringDrainIsFlushed(t *testing.T) {
	svc, fs := newTestService(t)
	const group = "120363@g.us"

	ctx, cancel := context.WithCancel(context.Background())

	// A request that lands after shutdown began, as fiber drains it.
	draining := func(ctx context.Context) error {
		<-ctx.Done()
		resp := post(t, svc, "/messages", `{"chat_id":"`+group+`","sender_id":"late@s.whatsapp.net","text":"bye"}`)
		assert.Equal(t, 200, resp.StatusCode)
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- runServices(ctx, svc.counters.Run, draining) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServices did not return")
	}

	raw, err := afero.ReadFile(fs, "/data/"+group+".json")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "late@s.whatsapp.net")
}

func TestServeHTTP_ListenError(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	err := serveHTTP(app, "127.0.0.1:-1", time.Second, zerolog.Nop())(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fiber stopped")
}
