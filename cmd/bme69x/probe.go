package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/bme69x"
	"github.com/mklimuk/bme69x/cmd/bme69x/console"
	"github.com/mklimuk/bme69x/rpi"
)

var probeCmd = cli.Command{
	Name:  "probe",
	Usage: "initialize the interface, soft reset the sensor and verify its chip id",
	Action: func(c *cli.Context) error {
		start := rpi.TimestampUs()
		dev, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "interface initialization error: %s", console.Red(err))
		}
		defer closeDevice(dev)

		rslt := dev.SoftReset()
		rpi.CheckRslt("bme69x_soft_reset", rslt)
		if rslt != bme69x.OK {
			return console.Exit(1, "soft reset failed: %s", console.Red(rslt))
		}
		id, rslt := dev.ChipIDMatches()
		rpi.CheckRslt("bme69x_init", rslt)
		if rslt != bme69x.OK {
			return console.Exit(1, "unexpected chip id %#x (want %#x)", id, bme69x.ChipID)
		}
		handle := dev.IntfPtr.(*rpi.BusHandle)
		console.PInfof(console.PictoCheck, "BME69x chip id %s at %s (%d us)",
			console.Green(fmt.Sprintf("%#x", id)),
			console.White(fmt.Sprintf("%#x", handle.Address())),
			rpi.TimestampUs()-start)
		console.PInfof(console.PictoThermometer, "heater baseline %d degC", dev.AmbTemp)
		return nil
	},
}
