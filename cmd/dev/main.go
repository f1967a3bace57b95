package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mklimuk/thermo/cmd/dev/cmd"
)

var (
	debug   bool
	version string
)

const longHelp = `Build, run and test the thermo TMP102 cli.

Everything except integration-test works without hardware: "run" polls the
simulated sensor by default and "test" only uses the simulated bus and mocks.
integration-test expects a TMP102 reachable through one of the real adapters
(mcp2221, generic /dev/i2c-N or gobot on a NanoPi); build cross-compiles the
cli for the board inside the docker build image.`

func newLogger(level log.Level) *slog.Logger {
	charm := log.NewWithOptions(os.Stdout, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "thermo",
		Level:           level,
	})
	charm.SetColorProfile(termenv.TrueColor)
	return slog.New(charm)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "dev",
		Short: "build/run/test tool for the thermo cli (simulated or real sensor)",
		Long:  longHelp,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if debug {
				level = log.DebugLevel
			}
			slog.SetDefault(newLogger(level))
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (also makes run pass --verbose)")
	rootCmd.PersistentFlags().StringVar(&version, "version", "latest", "version for build")

	rootCmd.AddCommand(
		cmd.BuildCmd(),
		cmd.RunCmd(),
		cmd.TestCmd(),
		cmd.IntegrationTestCmd(),
		cmd.LintCmd(),
		cmd.ChangelogCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("unexpected error", "error", err)
		os.Exit(1)
	}
}
