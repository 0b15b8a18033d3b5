// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/warthog618/blink"
	"github.com/warthog618/blink/metrics"
	"github.com/warthog618/blink/mock"
	"github.com/warthog618/blink/rpi"
	"github.com/warthog618/blink/rpio"
	"github.com/warthog618/blink/sysfs"
)

// openLine opens the line selected by the driver setting.
// Resources to be freed when the session ends are added to its closers.
func (sess *session) openLine() (blink.Line, error) {
	s := sess.s
	switch s.Driver {
	case "rpi":
		if err := rpi.Open(); err != nil {
			return nil, err
		}
		sess.closers = append(sess.closers, rpi.Close)
		pin, err := rpi.NewPin(s.Pin)
		if err != nil {
			return nil, err
		}
		if err := pin.Output(); err != nil {
			return nil, err
		}
		if sess.release {
			sess.closers = append(sess.closers, pin.Input)
		}
		return pin, nil
	case "rpio":
		if err := rpio.Open(); err != nil {
			return nil, err
		}
		sess.closers = append(sess.closers, rpio.Close)
		l, err := rpio.NewLine(s.Pin)
		if err != nil {
			return nil, err
		}
		if sess.release {
			sess.closers = append(sess.closers, func() error {
				l.Release()
				return nil
			})
		}
		return l, nil
	case "sysfs":
		l, err := sysfs.NewLED(s.LED)
		if err != nil {
			return nil, err
		}
		if sess.release {
			sess.closers = append(sess.closers, l.Release)
		}
		return l, nil
	case "mock":
		l := mock.NewLine(fmt.Sprintf("GPIO%d", s.Pin), blink.Low)
		l.Monitor(os.Stdout)
		return l, nil
	}
	return nil, errors.Errorf("unknown driver '%s'", s.Driver)
}

// serveMetrics instruments the line and serves the metrics over HTTP until
// the session is closed.
func (sess *session) serveMetrics(line blink.Line, logger blink.Logger) blink.Line {
	reg := prometheus.NewRegistry()
	col := metrics.NewCollector(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              sess.s.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "addr", srv.Addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", srv.Addr)
	sess.closers = append(sess.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return col.Instrument(line)
}
