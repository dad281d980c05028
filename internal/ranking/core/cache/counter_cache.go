// Package cache keeps every group's counter map resident in memory, loads
// each group from the GroupStore on first use and writes dirty groups back on
// a fixed interval.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/ports"
)

const DefaultFlushInterval = 60 * time.Second

// ErrLoadFailed wraps store read errors. The group is not made resident, so
// nothing is saved over its stored counters.
var ErrLoadFailed = errors.New("load group counters")

type groupEntry struct {
	mu       sync.RWMutex
	counters domain.GroupCounterMap
}

// CounterCache owns all resident GroupCounterMaps. Each group has its own
// lock; Save is always called with a private copy so no lock is held across
// storage I/O.
type CounterCache struct {
	store         ports.GroupStorePort
	logger        zerolog.Logger
	clock         quartz.Clock
	interval      time.Duration
	requeueFailed bool

	mu     sync.RWMutex
	groups map[string]*groupEntry
	loads  singleflight.Group

	dirtyMu sync.Mutex
	// dirty maps group ID to a generation bumped on every MarkDirty, so a
	// flush can tell whether the group was touched while it was saving.
	dirty map[string]uint64

	flushMu sync.Mutex
}

type Option func(*CounterCache)

func WithClock(clk quartz.Clock) Option {
	return func(c *CounterCache) { c.clock = clk }
}

func WithFlushInterval(d time.Duration) Option {
	return func(c *CounterCache) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithRequeueFailedSaves keeps a group dirty when its save fails so the next
// cycle retries it. Off by default: a failed save drops that group's delta
// from the dirty set.
func WithRequeueFailedSaves(on bool) Option {
	return func(c *CounterCache) { c.requeueFailed = on }
}

func New(store ports.GroupStorePort, logger zerolog.Logger, opts ...Option) *CounterCache {
	c := &CounterCache{
		store:    store,
		logger:   logger.With().Str("component", "counter_cache").Logger(),
		clock:    quartz.NewReal(),
		interval: DefaultFlushInterval,
		groups:   make(map[string]*groupEntry),
		dirty:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureLoaded makes groupID resident, loading it from the store at most once
// per process. A failed load leaves the group absent so the next access
// retries it.
func (c *CounterCache) EnsureLoaded(ctx context.Context, groupID string) error {
	_, err := c.load(ctx, groupID, true)
	return err
}

func (c *CounterCache) lookup(groupID string) (*groupEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.groups[groupID]
	return e, ok
}

// install makes e resident unless another entry won the race, and returns
// the resident one.
func (c *CounterCache) install(groupID string, e *groupEntry) *groupEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.groups[groupID]; ok {
		return cur
	}
	c.groups[groupID] = e
	return e
}

// load returns the resident entry or reads the group from the store. Groups
// with stored counters are always installed; an empty group only when
// resident is set, so read-only lookups of unknown groups leave nothing
// behind.
func (c *CounterCache) load(ctx context.Context, groupID string, resident bool) (*groupEntry, error) {
	if e, ok := c.lookup(groupID); ok {
		return e, nil
	}

	v, err, _ := c.loads.Do(groupID, func() (any, error) {
		if e, ok := c.lookup(groupID); ok {
			return e, nil
		}

		m, err := c.store.Load(ctx, groupID)
		if err != nil {
			c.logger.Error().Err(err).Str("group_id", groupID).Msg("load group failed")
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, groupID, err)
		}
		if m == nil {
			m = domain.GroupCounterMap{}
		}

		e := &groupEntry{counters: m}
		if resident || len(m) > 0 {
			e = c.install(groupID, e)
		}
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	e := v.(*groupEntry)
	if resident {
		// The flight may have been started by a View that did not install.
		e = c.install(groupID, e)
	}
	return e, nil
}

// Update runs fn with exclusive access to the group's map and marks the group
// dirty afterwards. fn is not called when the group cannot be loaded.
func (c *CounterCache) Update(ctx context.Context, groupID string, fn func(domain.GroupCounterMap)) error {
	e, err := c.load(ctx, groupID, true)
	if err != nil {
		return err
	}

	e.mu.Lock()
	fn(e.counters)
	e.mu.Unlock()
	c.MarkDirty(groupID)
	return nil
}

// View runs fn with shared access to the group's map. fn must not mutate it.
// Viewing a group that has nothing stored does not make it resident.
func (c *CounterCache) View(ctx context.Context, groupID string, fn func(domain.GroupCounterMap)) error {
	e, err := c.load(ctx, groupID, false)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.counters)
	return nil
}

func (c *CounterCache) MarkDirty(groupID string) {
	c.dirtyMu.Lock()
	c.dirty[groupID]++
	c.dirtyMu.Unlock()
}

type FlushReport struct {
	Saved  int
	Failed int
}

// FlushCycle saves every dirty group's current map. A failing group is logged
// and skipped; the rest of the cycle still runs.
func (c *CounterCache) FlushCycle(ctx context.Context) FlushReport {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.dirtyMu.Lock()
	pending := make(map[string]uint64, len(c.dirty))
	for id, gen := range c.dirty {
		pending[id] = gen
	}
	c.dirtyMu.Unlock()

	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var report FlushReport
	for _, id := range ids {
		m, ok := c.snapshot(id)
		if !ok {
			// Marked without ever being loaded; there is nothing to write.
			c.clearIfUnchanged(id, pending[id])
			continue
		}
		err := c.store.Save(ctx, id, m)
		if err != nil {
			report.Failed++
			c.logger.Error().Err(err).Str("group_id", id).Msg("save group failed")
			if c.requeueFailed {
				continue
			}
		} else {
			report.Saved++
		}
		c.clearIfUnchanged(id, pending[id])
	}

	if report.Saved > 0 || report.Failed > 0 {
		c.logger.Debug().Int("saved", report.Saved).Int("failed", report.Failed).Msg("flush cycle done")
	}
	return report
}

func (c *CounterCache) snapshot(groupID string) (domain.GroupCounterMap, bool) {
	e, ok := c.lookup(groupID)
	if !ok {
		return nil, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.counters.Clone(), true
}

func (c *CounterCache) clearIfUnchanged(groupID string, gen uint64) {
	c.dirtyMu.Lock()
	defer c.dirtyMu.Unlock()
	if c.dirty[groupID] == gen {
		delete(c.dirty, groupID)
	}
}

// Run flushes on every interval tick until ctx is cancelled, then performs a
// final flush before returning.
func (c *CounterCache) Run(ctx context.Context) error {
	c.logger.Info().Dur("interval", c.interval).Msg("flush loop started")

	tkr := c.clock.TickerFunc(ctx, c.interval, func() error {
		c.FlushCycle(ctx)
		return nil
	}, "cache", "flush")
	err := tkr.Wait()

	report := c.FlushCycle(context.WithoutCancel(ctx))
	c.logger.Info().Int("saved", report.Saved).Int("failed", report.Failed).Msg("flush loop stopped")

	if ctx.Err() != nil {
		return nil
	}
	return err
}

type Stats struct {
	Groups int
	Dirty  int
}

func (c *CounterCache) Stats() Stats {
	c.mu.RLock()
	groups := len(c.groups)
	c.mu.RUnlock()

	c.dirtyMu.Lock()
	dirty := len(c.dirty)
	c.dirtyMu.Unlock()

	return Stats{Groups: groups, Dirty: dirty}
}
