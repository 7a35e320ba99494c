package main

import (
	"encoding/hex"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/bme69x"
	"github.com/mklimuk/bme69x/cmd/bme69x/console"
	"github.com/mklimuk/bme69x/rpi"
)

var regCmd = cli.Command{
	Name:    "register",
	Aliases: []string{"reg"},
	Usage:   "raw register access",
	Subcommands: []*cli.Command{
		&regReadCmd,
		&regWriteCmd,
	},
}

var regReadCmd = cli.Command{
	Name:      "read",
	Aliases:   []string{"rd"},
	ArgsUsage: "<register> [length]",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 || c.NArg() > 2 {
			return console.Exit(1, "expected 1 or 2 arguments, got %d", c.NArg())
		}
		reg, err := parseRegister(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "invalid register: %v", err)
		}
		length := uint64(1)
		if c.NArg() == 2 {
			length, err = strconv.ParseUint(c.Args().Get(1), 0, 8)
			if err != nil || length == 0 {
				return console.Exit(1, "invalid length %q", c.Args().Get(1))
			}
		}
		dev, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "interface initialization error: %s", console.Red(err))
		}
		defer closeDevice(dev)

		buf := make([]byte, length)
		rslt := dev.GetRegs(reg, buf)
		rpi.CheckRslt("bme69x_get_regs", rslt)
		if rslt != bme69x.OK {
			return console.Exit(1, "register read failed: %s", console.Red(rslt))
		}
		console.Printf("%s", hex.Dump(buf))
		return nil
	},
}

var regWriteCmd = cli.Command{
	Name:      "write",
	Aliases:   []string{"wr"},
	ArgsUsage: "<register> <hex bytes>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		reg, err := parseRegister(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "invalid register: %v", err)
		}
		data, err := hex.DecodeString(c.Args().Get(1))
		if err != nil || len(data) == 0 {
			return console.Exit(1, "invalid data %q", c.Args().Get(1))
		}
		dev, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "interface initialization error: %s", console.Red(err))
		}
		defer closeDevice(dev)

		rslt := dev.SetRegs(reg, data)
		rpi.CheckRslt("bme69x_set_regs", rslt)
		if rslt != bme69x.OK {
			return console.Exit(1, "register write failed: %s", console.Red(rslt))
		}
		console.Printf("wrote %d bytes at %#x\n", len(data), reg)
		return nil
	},
}

func parseRegister(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}
