package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                               { return f.name }
func (f *fakeChecker) IsHealthy() bool                            { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(ctx context.Context, _ time.Duration) {}

func TestServiceHealthChecker_Transitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &fakeChecker{name: "a"}
	b := &fakeChecker{name: "b"}
	a.healthy.Store(1)
	b.healthy.Store(1)

	svc := NewServiceHealthChecker(zerolog.Nop(), a, b)
	go svc.Start(ctx, 10*time.Millisecond)

	waitTrue(t, func() bool { return svc.IsHealthy() })

	b.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })
	assert.Equal(t, map[string]bool{"a": true, "b": false}, svc.Components())

	b.healthy.Store(1)
	waitTrue(t, func() bool { return svc.IsHealthy() })
}

type flakyPinger struct{ fail atomic.Bool }

func (p *flakyPinger) HealthPing(context.Context) error {
	if p.fail.Load() {
		return errors.New("down")
	}
	return nil
}

func TestPingChecker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &flakyPinger{}
	c := NewPingChecker("cache", p, zerolog.Nop(), time.Second)
	go c.Start(ctx, 10*time.Millisecond)

	waitTrue(t, c.IsHealthy)
	p.fail.Store(true)
	waitTrue(t, func() bool { return !c.IsHealthy() })
	assert.Equal(t, "cache", c.Name())
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}

func TestPingCheckerCheck(t *testing.T) {
	p := &flakyPinger{}
	c := NewPingChecker("cache", p, zerolog.Nop(), 0)
	assert.False(t, c.IsHealthy(), "unhealthy until probed")
	assert.True(t, c.Check(context.Background()))
	assert.True(t, c.IsHealthy())
	p.fail.Store(true)
	assert.False(t, c.Check(context.Background()))
	assert.False(t, c.IsHealthy())
}
