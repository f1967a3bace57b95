package main

import (
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/thermo/adapter"
	"github.com/mklimuk/thermo/cmd/thermo/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 USB-I2C bridge maintenance",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Usage: "print bridge status",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221()
		status, err := a.Status(withVerbose(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and release the I2C bus",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221()
		status, err := a.ReleaseBus(withVerbose(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(status)
	},
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(console.Output())
	defer func() { _ = enc.Close() }()
	err := enc.Encode(v)
	if err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
