// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/blink"
	"github.com/warthog618/blink/rpi"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "blinkio",
	Short:         "blinkio is a utility to blink an LED attached to a GPIO line",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	Version: version,
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())
}

// addConfigFlags adds the flags that override the configuration.
func addConfigFlags(pf *pflag.FlagSet) {
	pf.StringP("config", "c", "", "config file (default blinkio.json)")
	pf.String("driver", "", "line driver [rpi|rpio|sysfs|mock]")
	pf.StringP("pin", "p", "", "GPIO pin, by number (0-27) or name (J8pXX)")
	pf.String("led", "", "sysfs LED name")
	pf.BoolP("active-low", "l", false, "treat the line as active low")
	pf.String("log-level", "", "log level [debug|info|warn|error]")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")
}

func main() {
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		logErr(cmd, err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "blinkio %s: %s\n", cmd.Name(), err)
}

// session is a controller and the resources behind it.
type session struct {
	c       *blink.Controller
	s       settings
	release bool
	closers []func() error
}

// newSession loads the configuration and builds a controller over the
// configured line.
//
// The controller adopts the current state of the line, so commands that do
// not release leave the line as they found it, other than their own changes.
func newSession(cmd *cobra.Command, release bool) (*session, error) {
	s, err := loadSettings(cmd.Flags())
	if err != nil {
		return nil, err
	}
	sess := &session{s: s, release: release}
	logger := newLogger(s.LogLevel)
	line, err := sess.openLine()
	if err != nil {
		sess.close()
		return nil, err
	}
	if s.MetricsAddr != "" {
		line = sess.serveMetrics(line, logger)
	}
	options := []blink.Option{
		blink.WithPresets(s.Presets),
		blink.WithLogger(logger),
	}
	active := blink.High
	if s.ActiveLow {
		active = blink.Low
	}
	options = append(options, blink.WithActiveLevel(active))
	if l, err := line.Level(); err == nil {
		options = append(options, blink.WithInitialState(l == active))
	}
	c, err := blink.New(line, options...)
	if err != nil {
		sess.close()
		return nil, err
	}
	sess.c = c
	logger.Debug("controller ready", "line", c.Line(), "driver", s.Driver, "active", active)
	return sess, nil
}

func (sess *session) close() error {
	var err error
	if sess.release && sess.c != nil {
		err = sess.c.Release()
	}
	for i := len(sess.closers) - 1; i >= 0; i-- {
		if cerr := sess.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// runBlink runs a blinking operation until it completes or the process is
// signalled, then releases the line.
func runBlink(cmd *cobra.Command, fn func(ctx context.Context, c *blink.Controller) error) (err error) {
	sess, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = fn(ctx, sess.c)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// count converts the count flag, where 0 means forever.
func count(n uint) int {
	if n == 0 {
		return blink.Forever
	}
	return int(n)
}

var pinNames = map[string]int{
	"J8P3":  rpi.J8p3,
	"J8P03": rpi.J8p3,
	"J8P5":  rpi.J8p5,
	"J8P05": rpi.J8p5,
	"J8P7":  rpi.J8p7,
	"J8P07": rpi.J8p7,
	"J8P8":  rpi.J8p8,
	"J8P08": rpi.J8p8,
	"J8P10": rpi.J8p10,
	"J8P11": rpi.J8p11,
	"J8P12": rpi.J8p12,
	"J8P13": rpi.J8p13,
	"J8P15": rpi.J8p15,
	"J8P16": rpi.J8p16,
	"J8P18": rpi.J8p18,
	"J8P19": rpi.J8p19,
	"J8P21": rpi.J8p21,
	"J8P22": rpi.J8p22,
	"J8P23": rpi.J8p23,
	"J8P24": rpi.J8p24,
	"J8P26": rpi.J8p26,
	"J8P29": rpi.J8p29,
	"J8P31": rpi.J8p31,
	"J8P32": rpi.J8p32,
	"J8P33": rpi.J8p33,
	"J8P35": rpi.J8p35,
	"J8P36": rpi.J8p36,
	"J8P37": rpi.J8p37,
	"J8P38": rpi.J8p38,
	"J8P40": rpi.J8p40,
}

func parsePin(arg string) (int, error) {
	uarg := strings.ToUpper(arg)
	if o, ok := pinNames[uarg]; ok {
		return o, nil
	}
	o, err := strconv.ParseUint(strings.TrimPrefix(uarg, "GPIO"), 10, 64)
	if err != nil {
		return 0, errors.Errorf("can't parse pin '%s'", arg)
	}
	if o >= rpi.MaxGPIOPin {
		return 0, errors.Errorf("unknown pin '%d'", o)
	}
	return int(o), nil
}
