package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermo/cmd/thermo/console"
	"github.com/mklimuk/thermo/environment"
)

var shellCmd = cli.Command{
	Name:  "shell",
	Usage: "interactive session with a single sensor",
	Flags: busFlags,
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
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          fmt.Sprintf("%s> ", sensor),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			return console.Exit(1, "could not start shell: %s", console.Red(err))
		}
		defer func() { _ = rl.Close() }()

		sh := &shell{sensor: sensor, out: rl.Stdout()}
		sh.help()
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return console.Exit(1, "input error: %s", console.Red(err))
			}
			if sh.exec(ctx, line) {
				return nil
			}
		}
	},
}

type shell struct {
	sensor *environment.TMP102
	out    io.Writer
}

// exec runs one shell line and reports whether the session should end.
func (s *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "read", "r":
		temp, err := s.sensor.ReadTemperature(ctx)
		if err != nil {
			s.printf("%s: %v\n", console.Red("ERROR"), err)
			return false
		}
		s.printf("%s %.2f °C\n", console.PictoThermometer, temp)
	case "init", "i":
		err := s.sensor.Initialize(ctx)
		if err != nil {
			s.printf("%s: %v\n", console.Red("ERROR"), err)
			return false
		}
		s.printf("%s %s configured\n", console.PictoPin, s.sensor)
	case "decode", "d":
		raw, err := parseRegisterValue(fields[1:])
		if err != nil {
			s.printf("%s: %v\n", console.Red("ERROR"), err)
			return false
		}
		s.printf("%s %.2f °C\n", console.PictoThermometer, environment.DecodeTemperature(raw))
	case "help", "?":
		s.help()
	case "quit", "exit", "q":
		return true
	default:
		s.printf("unknown command %q, type help\n", fields[0])
	}
	return false
}

func (s *shell) help() {
	s.printf("commands:\n" +
		"  read            read temperature\n" +
		"  init            write configuration register\n" +
		"  decode <hex>    decode a raw register value\n" +
		"  quit            leave the shell\n")
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
