package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/bme69x/cmd/bme69x/console"
	"github.com/mklimuk/bme69x/i2c"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "USB bridge maintenance (backend mcp2221)",
	Subcommands: []*cli.Command{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		a := i2c.NewMCP2221(i2c.WithHexDump(settings(c).Verbose))
		status, err := a.Status()
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeStatus(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel a stuck transfer and free the bus",
	Action: func(c *cli.Context) error {
		a := i2c.NewMCP2221(i2c.WithHexDump(settings(c).Verbose))
		status, err := a.ReleaseBus()
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeStatus(status)
	},
}

func encodeStatus(status *i2c.MCP2221Status) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(status); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
