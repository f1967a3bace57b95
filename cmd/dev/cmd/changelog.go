package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate or update CHANGELOG.md from git history",
		Long: `Generate CHANGELOG.md with git-chglog from conventional commits.

Commits are expected as <type>(<scope>): <description>, where scope is one of
the packages (environment, adapter, i2c, sim, poll, cli).

Examples:
  dev changelog
  dev changelog --next v0.2.0
  dev changelog --tag v0.1.0 --output CHANGES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("could not get output flag: %w", err)
			}
			next, err := cmd.Flags().GetString("next")
			if err != nil {
				return fmt.Errorf("could not get next flag: %w", err)
			}
			tag, err := cmd.Flags().GetString("tag")
			if err != nil {
				return fmt.Errorf("could not get tag flag: %w", err)
			}
			if _, err := exec.LookPath("git-chglog"); err != nil {
				slog.Error("git-chglog not found in PATH, install it with: go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest")
				return fmt.Errorf("git-chglog not installed: %w", err)
			}

			chglogArgs := []string{"--output", output}
			if next != "" {
				chglogArgs = append(chglogArgs, "--next-tag", next)
			}
			if tag != "" {
				chglogArgs = append(chglogArgs, tag)
			}
			slog.Info("Running git-chglog", "args", chglogArgs)
			gitChglog := exec.CommandContext(cmd.Context(), "git-chglog", chglogArgs...)
			gitChglog.Stdout = os.Stdout
			gitChglog.Stderr = os.Stderr
			if err := gitChglog.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			slog.Info("Changelog generated", "output", output)
			return nil
		},
	}

	cmd.Flags().String("next", "", "next version tag (e.g. v0.2.0)")
	cmd.Flags().String("output", "CHANGELOG.md", "output file path")
	cmd.Flags().String("tag", "", "generate changelog for a specific tag")

	return cmd
}
