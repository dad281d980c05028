// Package window derives the day and ISO-week bucket keys that the
// time-windowed counters are tagged with.
package window

import (
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/ports"
)

const (
	DefaultTimezone = "Asia/Colombo"

	dayLayout = "2006-01-02"
)

// Clock converts wall-clock time into bucket keys in one fixed location.
type Clock struct {
	clock quartz.Clock
	loc   *time.Location

	mu         sync.Mutex
	lastSecond int64
	last       domain.WindowKeys
	primed     bool
}

var _ ports.WindowClockPort = (*Clock)(nil)

// NewClock returns a Clock for loc. A nil clk uses the real clock.
func NewClock(clk quartz.Clock, loc *time.Location) *Clock {
	if clk == nil {
		clk = quartz.NewReal()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{clock: clk, loc: loc}
}

// NewClockForZone resolves an IANA zone name and returns a Clock for it.
func NewClockForZone(clk quartz.Clock, zone string) (*Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return NewClock(clk, loc), nil
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Keys returns both keys from a single conversion. Results are reused for
// every call within the same wall-clock second.
func (c *Clock) Keys() domain.WindowKeys {
	now := c.clock.Now("window", "keys")
	sec := now.Unix()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.primed && c.lastSecond == sec {
		return c.last
	}
	c.last = KeysAt(now, c.loc)
	c.lastSecond = sec
	c.primed = true
	return c.last
}

func (c *Clock) DayKey() string {
	return c.Keys().Day
}

func (c *Clock) WeekKey() string {
	return c.Keys().Week
}

// KeysAt computes the bucket keys for t as seen in loc.
func KeysAt(t time.Time, loc *time.Location) domain.WindowKeys {
	local := t.In(loc)
	year, week := local.ISOWeek()
	return domain.WindowKeys{
		Day:  local.Format(dayLayout),
		Week: fmt.Sprintf("%04d-%02d", year, week),
	}
}
