package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
)

// RunCmd starts the cli in polling mode, against the simulated sensor unless told otherwise.
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [-- extra thermo flags]",
		Short: "Run thermo poll from sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := cmd.Flags().GetString("adapter")
			if err != nil {
				return fmt.Errorf("could not get adapter flag: %w", err)
			}
			interval, err := cmd.Flags().GetDuration("interval")
			if err != nil {
				return fmt.Errorf("could not get interval flag: %w", err)
			}
			runArgs := []string{"run", mainPkg}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				runArgs = append(runArgs, "--verbose")
			}
			runArgs = append(runArgs, "poll", "--adapter", adapter, "--interval", interval.String())
			runArgs = append(runArgs, args...)

			slog.Info("Running thermo", "args", runArgs)
			goRun := exec.CommandContext(cmd.Context(), "go", runArgs...)
			goRun.Stdin = os.Stdin
			goRun.Stdout = os.Stdout
			goRun.Stderr = os.Stderr
			if err := goRun.Run(); err != nil {
				return fmt.Errorf("thermo exited: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("adapter", "sim", "bus adapter passed to thermo")
	cmd.Flags().Duration("interval", time.Second, "polling interval")
	return cmd
}
