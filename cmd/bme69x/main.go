package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/bme69x"
	"github.com/mklimuk/bme69x/cmd/bme69x/console"
	"github.com/mklimuk/bme69x/i2c"
	"github.com/mklimuk/bme69x/pkg/config"
	"github.com/mklimuk/bme69x/rpi"
)

const settingsKey = "settings"

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.NewApp()
	app.Name = "bme69x"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", config.Version, config.Date, config.Commit)
	app.Usage = "BME69x bus diagnostics"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "/etc/bme69x.yaml",
			Usage:   "config file, ignored when missing",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable verbose logging",
		},
		&cli.StringFlag{
			Name:    "bus",
			Aliases: []string{"d"},
			Usage:   "i2c bus device node",
		},
		&cli.StringFlag{
			Name:    "address",
			Aliases: []string{"a"},
			Usage:   "sensor address (0x76 or 0x77)",
		},
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   fmt.Sprintf("bus backend %v", i2c.Backends()),
		},
		&cli.StringFlag{
			Name:  "interface",
			Value: "i2c",
			Usage: "sensor interface (i2c; spi is not supported and aborts)",
		},
	}
	app.Before = func(c *cli.Context) error {
		cfg, err := loadSettings(c)
		if err != nil {
			return err
		}
		charm := chlog.NewWithOptions(os.Stdout, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if cfg.Verbose {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		c.App.Metadata = map[string]interface{}{settingsKey: cfg}
		return nil
	}
	app.Commands = cli.Commands{
		&probeCmd,
		&regCmd,
		&mcp2221Cmd,
	}
	err := app.Run(os.Args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			log.Printf("unexpected error: %v", err)
			return exerr.ExitCode()
		}
		log.Printf("error: %v", err)
		return 1
	}
	return 0
}

func loadSettings(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, cli.Exit(err.Error(), 2)
	}
	if c.IsSet("bus") {
		cfg.Bus = c.String("bus")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("address") {
		addr, err := strconv.ParseUint(c.String("address"), 0, 16)
		if err != nil {
			return cfg, cli.Exit(fmt.Sprintf("invalid address: %v", err), 2)
		}
		cfg.Address = uint16(addr)
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, cli.Exit(err.Error(), 2)
	}
	return cfg, nil
}

func settings(c *cli.Context) config.Config {
	cfg, ok := c.App.Metadata[settingsKey].(config.Config)
	if !ok {
		return config.Default()
	}
	return cfg
}

func interfaceKind(c *cli.Context) (bme69x.Interface, error) {
	switch c.String("interface") {
	case "i2c":
		return bme69x.I2CIntf, nil
	case "spi":
		return bme69x.SPIIntf, nil
	default:
		return 0, cli.Exit(fmt.Sprintf("unknown interface %q", c.String("interface")), 2)
	}
}

// openDevice runs interface init and reports its result.
func openDevice(c *cli.Context) (*bme69x.Dev, error) {
	intf, err := interfaceKind(c)
	if err != nil {
		return nil, err
	}
	cfg := settings(c)
	dev := &bme69x.Dev{}
	rslt := rpi.InterfaceInit(dev, intf, cfg.Options()...)
	rpi.CheckRslt("bme69x_interface_init", rslt)
	if rslt != bme69x.OK {
		return nil, rslt
	}
	return dev, nil
}

// closeDevice deinitializes and, unlike deinit alone, releases the bus.
func closeDevice(dev *bme69x.Dev) {
	rpi.I2CDeinit()
	handle, ok := dev.IntfPtr.(*rpi.BusHandle)
	if !ok {
		return
	}
	if err := handle.Close(); err != nil {
		console.Errorf("could not release bus: %s", console.Red(err))
	}
}
