package main

import (
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermo/cmd/thermo/console"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"temp"},
	Usage:   "print a single temperature reading",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "no-init",
			Usage: "read without writing the configuration register first",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx := withVerbose(c)
		sensor, closeBus, err := openSensor(ctx, cfg)
		if err != nil {
			return console.Exit(1, "could not open sensor: %s", console.Red(err))
		}
		defer func() {
			if err := closeBus(); err != nil {
				slog.Warn("could not release bus", "error", err)
			}
		}()
		if !c.Bool("no-init") {
			err = sensor.Initialize(ctx)
			if err != nil {
				return console.Exit(1, "error initializing sensor: %s", console.Red(err))
			}
		}
		temp, err := sensor.ReadTemperature(ctx)
		if err != nil {
			return console.Exit(1, "error getting temperature read: %s", console.Red(err))
		}
		console.Temperature(temp)
		return nil
	},
}

var initCmd = cli.Command{
	Name:  "init",
	Usage: "write the configuration register of the sensor",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "do not ask for confirmation",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		if cfg.Adapter != "sim" && !c.Bool("yes") {
			ok, err := console.Confirm("write configuration register of the sensor at " + cfg.Address + "?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				console.PInfof(console.PictoStop, "aborted")
				return nil
			}
		}
		ctx := withVerbose(c)
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
			return console.Exit(1, "error initializing sensor: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "%s configured", console.White(sensor))
		return nil
	},
}
