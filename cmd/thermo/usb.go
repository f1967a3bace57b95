package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/thermo/adapter"
	"github.com/mklimuk/thermo/cmd/thermo/console"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "inspect USB HID devices usable as I2C bridges",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name: "ls",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(console.Output(), 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")
		for _, dev := range hid.Enumerate(0, 0) {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
				dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
		}
		return w.Flush()
	},
}

var knownBridges = map[string][2]uint16{
	"MCP2221": {adapter.VendorID, adapter.ProductID},
}

var usbDetectCmd = cli.Command{
	Name: "detect",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(console.Output(), 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "VENDOR\tPRODUCT\tDEVICE\tPATH\n")
		for _, dev := range hid.Enumerate(0, 0) {
			for name, codes := range knownBridges {
				if codes[0] == dev.VendorID && codes[1] == dev.ProductID {
					_, _ = fmt.Fprintf(w, "%#x\t%#x\t%s\t%s\n", dev.VendorID, dev.ProductID, name, dev.Path)
				}
			}
		}
		return w.Flush()
	},
}
