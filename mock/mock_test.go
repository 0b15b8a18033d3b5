// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mock

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/blink"
)

func TestLine(t *testing.T) {
	l := NewLine("GPIO2", blink.High)
	assert.Equal(t, "GPIO2", l.Name())
	v, err := l.Level()
	assert.Nil(t, err)
	assert.Equal(t, blink.High, v)

	assert.Nil(t, l.SetLevel(blink.Low))
	assert.Nil(t, l.SetLevel(blink.Low))
	v, _ = l.Level()
	assert.Equal(t, blink.Low, v)
	assert.Equal(t, []blink.Level{blink.Low, blink.Low}, l.Writes())
	assert.Equal(t, 2, l.Reads())

	l.Reset()
	assert.Empty(t, l.Writes())
	assert.Zero(t, l.Reads())
}

func TestLineFaults(t *testing.T) {
	errFail := errors.New("fail")
	l := NewLine("GPIO2", blink.Low)
	l.FailWritesAfter(1, errFail)
	assert.Nil(t, l.SetLevel(blink.High))
	assert.Equal(t, errFail, l.SetLevel(blink.Low))
	v, _ := l.Level()
	assert.Equal(t, blink.High, v)

	l.FailWrites(nil)
	assert.Nil(t, l.SetLevel(blink.Low))

	l.FailReads(errFail)
	_, err := l.Level()
	assert.Equal(t, errFail, err)
}

func TestLineMonitor(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine("GPIO2", blink.Low)
	l.Monitor(&buf)
	l.SetLevel(blink.High)
	l.SetLevel(blink.High)
	l.SetLevel(blink.Low)
	assert.Equal(t,
		"[line GPIO2] level changed to high\n[line GPIO2] level changed to low\n",
		buf.String())
}

func TestSleeper(t *testing.T) {
	s := &Sleeper{}
	ctx, cancel := context.WithCancel(context.Background())
	s.OnSleep = func(n int) {
		if n == 1 {
			cancel()
		}
	}
	assert.Nil(t, s.Sleep(ctx, time.Second))
	assert.Equal(t, context.Canceled, s.Sleep(ctx, time.Minute))
	assert.Equal(t, []time.Duration{time.Second}, s.Slept())
}
