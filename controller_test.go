// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blink_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/blink"
	"github.com/warthog618/blink/mock"
)

var errDisconnected = errors.New("disconnected")

func newController(t *testing.T, options ...blink.Option) (*blink.Controller, *mock.Line, *mock.Sleeper) {
	t.Helper()
	line := mock.NewLine("LED", blink.High)
	s := &mock.Sleeper{}
	options = append([]blink.Option{blink.WithSleeper(s)}, options...)
	c, err := blink.New(line, options...)
	require.Nil(t, err)
	line.Reset()
	return c, line, s
}

// alternating returns the writes expected from n blinks of an active high
// line.
func alternating(n int) []blink.Level {
	ll := []blink.Level(nil)
	for i := 0; i < n; i++ {
		ll = append(ll, blink.High, blink.Low)
	}
	return ll
}

func TestNew(t *testing.T) {
	patterns := []struct {
		name    string
		options []blink.Option
		level   blink.Level
		on      bool
	}{
		{"default", nil, blink.Low, false},
		{"active low", []blink.Option{blink.AsActiveLow()}, blink.High, false},
		{"initial on", []blink.Option{blink.WithInitialState(true)}, blink.High, true},
		{"active low on", []blink.Option{
			blink.WithActiveLevel(blink.Low),
			blink.WithInitialState(true)}, blink.Low, true},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			line := mock.NewLine("LED", !p.level)
			c, err := blink.New(line, p.options...)
			require.Nil(t, err)
			assert.Equal(t, []blink.Level{p.level}, line.Writes())
			assert.Equal(t, p.on, c.IsOn())
			assert.Equal(t, "LED", c.Line())
		})
	}
}

func TestNewNilLine(t *testing.T) {
	c, err := blink.New(nil)
	assert.True(t, errors.Is(err, blink.ErrInvalidArgument))
	assert.Nil(t, c)
}

func TestNewNilOption(t *testing.T) {
	patterns := []struct {
		name   string
		option blink.Option
	}{
		{"sleeper", blink.WithSleeper(nil)},
		{"presets", blink.WithPresets(nil)},
		{"logger", blink.WithLogger(nil)},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			line := mock.NewLine("LED", blink.High)
			c, err := blink.New(line, p.option)
			assert.True(t, errors.Is(err, blink.ErrInvalidArgument))
			assert.Nil(t, c)
			assert.Empty(t, line.Writes())
		})
	}
}

func TestNewFault(t *testing.T) {
	line := mock.NewLine("LED", blink.High)
	line.FailWrites(errDisconnected)
	c, err := blink.New(line)
	var hf *blink.HardwareFault
	require.True(t, errors.As(err, &hf))
	assert.Equal(t, "LED", hf.Line)
	assert.Equal(t, "write", hf.Op)
	assert.Nil(t, c)
}

func TestPolarity(t *testing.T) {
	for _, active := range []blink.Level{blink.High, blink.Low} {
		t.Run(active.String(), func(t *testing.T) {
			c, line, _ := newController(t, blink.WithActiveLevel(active))
			require.Nil(t, c.On())
			s, err := c.Status()
			require.Nil(t, err)
			assert.True(t, s.On)
			assert.Equal(t, active, s.Level)

			require.Nil(t, c.Off())
			s, err = c.Status()
			require.Nil(t, err)
			assert.False(t, s.On)
			assert.Equal(t, !active, s.Level)
			assert.Equal(t, []blink.Level{active, !active}, line.Writes())
		})
	}
}

func TestToggle(t *testing.T) {
	c, line, _ := newController(t)
	require.Nil(t, c.Toggle())
	assert.True(t, c.IsOn())
	require.Nil(t, c.Toggle())
	assert.False(t, c.IsOn())
	assert.Equal(t, []blink.Level{blink.High, blink.Low}, line.Writes())
}

func TestToggleIgnoresLine(t *testing.T) {
	c, line, _ := newController(t)
	// driven externally - the controller still believes it is off.
	require.Nil(t, line.SetLevel(blink.High))
	require.Nil(t, c.Toggle())
	assert.True(t, c.IsOn())
	lvl, err := line.Level()
	require.Nil(t, err)
	assert.Equal(t, blink.High, lvl)
}

func TestBlinkOnce(t *testing.T) {
	c, line, s := newController(t)
	require.Nil(t, c.BlinkOnce(context.Background(), 300*time.Millisecond))
	assert.Equal(t, alternating(1), line.Writes())
	assert.Equal(t, []time.Duration{300 * time.Millisecond}, s.Slept())
	assert.False(t, c.IsOn())
}

func TestBlinkOnceZero(t *testing.T) {
	c, line, s := newController(t)
	require.Nil(t, c.BlinkOnce(context.Background(), 0))
	assert.Equal(t, alternating(1), line.Writes())
	assert.Empty(t, s.Slept())
}

func TestBlinkOnceNegative(t *testing.T) {
	c, line, s := newController(t)
	err := c.BlinkOnce(context.Background(), -100*time.Millisecond)
	assert.True(t, errors.Is(err, blink.ErrInvalidArgument))
	assert.Empty(t, line.Writes())
	assert.Empty(t, s.Slept())
}

func TestBlink(t *testing.T) {
	c, line, s := newController(t)
	err := c.Blink(context.Background(), time.Second, 300*time.Millisecond, 5)
	require.Nil(t, err)
	assert.Equal(t, alternating(5), line.Writes())
	on := 300 * time.Millisecond
	pause := 700 * time.Millisecond
	assert.Equal(t, []time.Duration{on, pause, on, pause, on, pause, on, pause, on}, s.Slept())
	assert.False(t, c.IsOn())
}

func TestBlinkZeroCount(t *testing.T) {
	c, line, s := newController(t)
	require.Nil(t, c.Blink(context.Background(), time.Second, 300*time.Millisecond, 0))
	assert.Empty(t, line.Writes())
	assert.Empty(t, s.Slept())
}

func TestBlinkInvalid(t *testing.T) {
	patterns := []struct {
		name       string
		interval   time.Duration
		onDuration time.Duration
		count      int
	}{
		{"on exceeds interval", 200 * time.Millisecond, 500 * time.Millisecond, 3},
		{"negative on", time.Second, -time.Millisecond, 3},
		{"negative interval", -time.Second, -2 * time.Second, 1},
		{"negative count", time.Second, 300 * time.Millisecond, -2},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			c, line, s := newController(t)
			err := c.Blink(context.Background(), p.interval, p.onDuration, p.count)
			assert.True(t, errors.Is(err, blink.ErrInvalidArgument))
			assert.Empty(t, line.Writes())
			assert.Empty(t, s.Slept())
		})
	}
}

func TestBlinkEqualInterval(t *testing.T) {
	c, line, s := newController(t)
	require.Nil(t, c.Blink(context.Background(), 200*time.Millisecond, 200*time.Millisecond, 3))
	assert.Equal(t, alternating(3), line.Writes())
	// no pause between blinks when the output is on for the whole interval.
	on := 200 * time.Millisecond
	assert.Equal(t, []time.Duration{on, on, on}, s.Slept())
}

func TestBlinkPattern(t *testing.T) {
	c, line, s := newController(t)
	require.Nil(t, c.BlinkPattern(context.Background(), blink.PresetFast, 2))
	assert.Equal(t, alternating(2), line.Writes())
	on := 200 * time.Millisecond
	assert.Equal(t, []time.Duration{on, 300 * time.Millisecond, on}, s.Slept())
}

func TestBlinkPatternFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	c, line, s := newController(t, blink.WithLogger(logger))
	require.Nil(t, c.BlinkPattern(context.Background(), "bogus", 1))

	cd, lined, sd := newController(t)
	require.Nil(t, cd.BlinkPattern(context.Background(), blink.PresetNormal, 1))

	assert.Equal(t, lined.Writes(), line.Writes())
	assert.Equal(t, sd.Slept(), s.Slept())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "preset=bogus")
	assert.Contains(t, buf.String(), "default=normal")
}

func TestBlinkPatternCustomPresets(t *testing.T) {
	pp, err := blink.NewPresets(map[string]blink.Pattern{
		"heartbeat": {Interval: 1500 * time.Millisecond, OnDuration: 50 * time.Millisecond},
	}, "heartbeat")
	require.Nil(t, err)
	c, line, s := newController(t, blink.WithPresets(pp))
	require.Nil(t, c.BlinkPattern(context.Background(), blink.PresetFast, 2))
	assert.Equal(t, alternating(2), line.Writes())
	on := 50 * time.Millisecond
	assert.Equal(t, []time.Duration{on, 1450 * time.Millisecond, on}, s.Slept())
	assert.Equal(t, pp, c.Presets())
}

func TestDoubleBlink(t *testing.T) {
	c, line, s := newController(t)
	require.Nil(t, c.DoubleBlink(context.Background(), 2))
	assert.Equal(t, alternating(4), line.Writes())
	ms100 := 100 * time.Millisecond
	assert.Equal(t, []time.Duration{
		ms100, ms100, ms100,
		time.Second,
		ms100, ms100, ms100,
	}, s.Slept())
}

func TestDoubleBlinkInvalid(t *testing.T) {
	c, line, _ := newController(t)
	err := c.DoubleBlink(context.Background(), -3)
	assert.True(t, errors.Is(err, blink.ErrInvalidArgument))
	assert.Empty(t, line.Writes())
	require.Nil(t, c.DoubleBlink(context.Background(), 0))
	assert.Empty(t, line.Writes())
}

func TestBlinkForeverCancel(t *testing.T) {
	patterns := []struct {
		name string
		at   int
	}{
		{"during on", 4},
		{"during pause", 5},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			c, line, s := newController(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			s.OnSleep = func(n int) {
				if n == p.at {
					cancel()
				}
			}
			err := c.Blink(ctx, time.Second, 300*time.Millisecond, blink.Forever)
			assert.True(t, errors.Is(err, context.Canceled))
			assert.False(t, c.IsOn())
			lvl, err := line.Level()
			require.Nil(t, err)
			assert.Equal(t, blink.Low, lvl)
			assert.Len(t, s.Slept(), p.at)
		})
	}
}

func TestDoubleBlinkForeverCancel(t *testing.T) {
	c, line, s := newController(t, blink.AsActiveLow())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.OnSleep = func(n int) {
		if n == 9 {
			cancel()
		}
	}
	err := c.DoubleBlink(ctx, blink.Forever)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, c.IsOn())
	lvl, err := line.Level()
	require.Nil(t, err)
	assert.Equal(t, blink.High, lvl)
}

func TestBlinkCancelledTimer(t *testing.T) {
	line := mock.NewLine("LED", blink.Low)
	c, err := blink.New(line)
	require.Nil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Blink(ctx, 10*time.Second, 5*time.Second, blink.Forever)
	}()
	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	cancel()
	select {
	case err = <-done:
	case <-time.After(time.Second):
		t.Fatal("blink not cancelled")
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.True(t, errors.Is(err, context.Canceled))
	lvl, err := line.Level()
	require.Nil(t, err)
	assert.Equal(t, blink.Low, lvl)
	assert.False(t, c.IsOn())
}

func TestBlinkPreCancelled(t *testing.T) {
	c, line, s := newController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Blink(ctx, time.Second, 300*time.Millisecond, 3)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []blink.Level{blink.Low}, line.Writes())
	assert.Empty(t, s.Slept())
}

func TestWriteFault(t *testing.T) {
	c, line, _ := newController(t)
	line.FailWrites(errDisconnected)
	err := c.On()
	var hf *blink.HardwareFault
	require.True(t, errors.As(err, &hf))
	assert.Equal(t, "write", hf.Op)
	assert.True(t, errors.Is(err, errDisconnected))
	assert.False(t, c.IsOn())

	line.FailWrites(nil)
	require.Nil(t, c.On())
	line.FailWrites(errDisconnected)
	assert.NotNil(t, c.Toggle())
	assert.True(t, c.IsOn())
}

func TestWriteFaultPassthrough(t *testing.T) {
	c, line, _ := newController(t)
	hf := &blink.HardwareFault{Line: "GPIO4", Op: "write", Err: errDisconnected}
	line.FailWrites(hf)
	err := c.Off()
	assert.Equal(t, hf, err)
}

func TestBlinkFault(t *testing.T) {
	c, line, s := newController(t)
	line.FailWritesAfter(3, errDisconnected)
	err := c.Blink(context.Background(), time.Second, 300*time.Millisecond, 5)
	assert.True(t, errors.Is(err, errDisconnected))
	// the second blink turned on but could not turn off.
	assert.Equal(t, []blink.Level{blink.High, blink.Low, blink.High}, line.Writes())
	assert.True(t, c.IsOn())
	assert.Len(t, s.Slept(), 3)
}

func TestStatus(t *testing.T) {
	c, line, _ := newController(t, blink.AsActiveLow())
	s, err := c.Status()
	require.Nil(t, err)
	assert.Equal(t, blink.Status{Line: "LED", On: false, Level: blink.High}, s)
	assert.Empty(t, line.Writes())
	assert.Equal(t, 1, line.Reads())

	line.FailReads(errDisconnected)
	_, err = c.Status()
	var hf *blink.HardwareFault
	require.True(t, errors.As(err, &hf))
	assert.Equal(t, "read", hf.Op)
}

func TestRelease(t *testing.T) {
	c, line, _ := newController(t)
	require.Nil(t, c.On())
	require.Nil(t, c.Release())
	assert.Equal(t, []blink.Level{blink.High, blink.Low}, line.Writes())
	require.Nil(t, c.Release())
	assert.Len(t, line.Writes(), 2)

	ctx := context.Background()
	ops := map[string]func() error{
		"On":           c.On,
		"Off":          c.Off,
		"Toggle":       c.Toggle,
		"BlinkOnce":    func() error { return c.BlinkOnce(ctx, time.Millisecond) },
		"Blink":        func() error { return c.Blink(ctx, time.Second, time.Millisecond, 1) },
		"BlinkPattern": func() error { return c.BlinkPattern(ctx, blink.PresetFast, 1) },
		"DoubleBlink":  func() error { return c.DoubleBlink(ctx, 1) },
		"Status": func() error {
			_, err := c.Status()
			return err
		},
	}
	for name, op := range ops {
		assert.Equal(t, blink.ErrReleased, op(), name)
	}
	assert.Len(t, line.Writes(), 2)
}

func TestReleaseFault(t *testing.T) {
	c, line, _ := newController(t)
	require.Nil(t, c.On())
	line.FailWrites(errDisconnected)
	assert.True(t, errors.Is(c.Release(), errDisconnected))
	assert.True(t, c.IsOn())

	line.FailWrites(nil)
	require.Nil(t, c.Release())
	assert.False(t, c.IsOn())
	assert.Equal(t, blink.ErrReleased, c.On())
}
