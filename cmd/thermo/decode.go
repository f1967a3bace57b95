package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermo/cmd/thermo/console"
	"github.com/mklimuk/thermo/environment"
)

var decodeCmd = cli.Command{
	Name:      "decode",
	Usage:     "decode a raw temperature register value",
	ArgsUsage: "<hex bytes, e.g. 1900 or 0x19 0x00>",
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return console.Exit(2, "missing register value")
		}
		raw, err := parseRegisterValue(c.Args().Slice())
		if err != nil {
			return console.Exit(2, "%s", console.Red(err))
		}
		temp := environment.DecodeTemperature(raw)
		count := int16(binary.BigEndian.Uint16(raw)) >> 4
		console.Temperature(temp)
		console.Printf("raw count: %d (%#04x)\n", count, binary.BigEndian.Uint16(raw))
		if !environment.InNominalRange(temp) {
			console.Warnf("value outside nominal range %.0f..%.0f °C",
				environment.MinimumTemperature, environment.MaximumTemperature)
		}
		return nil
	},
}

// parseRegisterValue joins the arguments into a single hex string and expects exactly
// the two bytes of the temperature register.
func parseRegisterValue(args []string) ([]byte, error) {
	var joined strings.Builder
	for _, a := range args {
		a = strings.TrimPrefix(strings.ToLower(a), "0x")
		joined.WriteString(a)
	}
	raw, err := hex.DecodeString(joined.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex value: %w", err)
	}
	if len(raw) != 2 {
		return nil, fmt.Errorf("expected 2 bytes, got %d", len(raw))
	}
	return raw, nil
}
