package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermo/cmd/thermo/console"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := cli.NewApp()
	app.Name = "thermo"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "TMP102 temperature sensor cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML file with default bus and polling settings",
			EnvVars: []string{"THERMO_CONFIG"},
		},
	}
	app.Before = func(ctx *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if ctx.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	// exit codes are handled below instead of inside the library
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Commands = cli.Commands{
		&pollCmd,
		&readCmd,
		&initCmd,
		&decodeCmd,
		&shellCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	err := app.Run(args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			console.Errorf("%v", err)
			return exerr.ExitCode()
		}
		log.Printf("unexpected error: %v", err)
		return 1
	}
	return 0
}
