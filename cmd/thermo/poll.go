package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermo/cmd/thermo/console"
	"github.com/mklimuk/thermo/poll"
	"github.com/mklimuk/thermo/snsctx"
)

// pollContext ends polling on SIGINT or SIGTERM.
var pollContext = func(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

var pollCmd = cli.Command{
	Name:  "poll",
	Usage: "initialize the sensor and print a reading every interval until interrupted",
	Flags: append([]cli.Flag{
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   poll.DefaultInterval,
			Usage:   "time between readings",
		},
		&cli.BoolFlag{
			Name:  "range-check",
			Usage: "warn about readings outside -40..125 °C",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, stop := pollContext(c.Context)
		defer stop()
		ctx = snsctx.SetVerbose(ctx, c.Bool("verbose"))

		sensor, closeBus, err := openSensor(ctx, cfg)
		if err != nil {
			return console.Exit(1, "could not open sensor: %s", console.Red(err))
		}
		defer func() {
			if err := closeBus(); err != nil {
				slog.Warn("could not release bus", "error", err)
			}
		}()
		err = sensor.Initialize(ctx)
		if err != nil {
			// the sensor may still answer with its power-on configuration
			slog.Warn("sensor initialization failed", "sensor", sensor, "error", err)
		}
		p, err := poll.New(sensor,
			poll.WithInterval(cfg.Interval),
			poll.WithOutput(console.Output()),
			poll.WithRangeCheck(cfg.RangeCheck),
		)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		err = p.Run(ctx)
		stats := p.Stats()
		slog.Debug("polling stopped", "readings", stats.Readings, "failures", stats.Failures)
		return err
	},
}

// withVerbose returns the command context marked verbose when the global flag is set.
func withVerbose(c *cli.Context) context.Context {
	return snsctx.SetVerbose(c.Context, c.Bool("verbose"))
}
