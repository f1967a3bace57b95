package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

func task(use, short, what string, fn func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := fn()
			if err != nil {
				return fmt.Errorf("failed to run %s: %w", what, err)
			}
			return nil
		},
	}
}

func TestCmd() *cobra.Command {
	return task("test", "Run unit tests (simulated bus and mocks only)", "tests", func() error { return test.Test() })
}

func LintCmd() *cobra.Command {
	return task("lint", "Run linting", "linting", func() error { return test.Lint() })
}

// IntegrationTestCmd runs tests that need a sensor attached to a real bus.
func IntegrationTestCmd() *cobra.Command {
	return task("integration-test", "Run tests against attached hardware", "integration testing", func() error { return test.Integ() })
}
