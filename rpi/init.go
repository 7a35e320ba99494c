// Package rpi binds the BME69x driver contract to a Raspberry Pi (or any
// Linux host) I2C bus.
//
// Typical usage:
//
//	var dev bme69x.Dev
//	rslt := rpi.InterfaceInit(&dev, bme69x.I2CIntf)
//	rpi.CheckRslt("bme69x_interface_init", rslt)
//	...
//	rpi.I2CDeinit()
package rpi

import (
	"log/slog"
	"os"

	"github.com/mklimuk/bme69x"
	"github.com/mklimuk/bme69x/i2c"
)

const (
	// settleDelayUs is waited once after interface setup.
	settleDelayUs = 100
	// DefaultAmbientTemperature is the heater baseline in deg C.
	DefaultAmbientTemperature int8 = 25
)

// exit terminates the process on an unsupported interface selection.
var exit = os.Exit

type Config struct {
	BusPath string
	Address uint16
	Backend string
	// Opener overrides Backend when set.
	Opener  i2c.Opener
	Logger  *slog.Logger
	AmbTemp int8
}

type Option func(*Config)

func WithBusPath(path string) Option {
	return func(c *Config) {
		c.BusPath = path
	}
}

func WithAddress(address uint16) Option {
	return func(c *Config) {
		c.Address = address
	}
}

// WithBackend selects one of i2c.Backends().
func WithBackend(backend string) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

func WithOpener(open i2c.Opener) Option {
	return func(c *Config) {
		c.Opener = open
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithAmbientTemperature(temp int8) Option {
	return func(c *Config) {
		c.AmbTemp = temp
	}
}

func newConfig(opts ...Option) *Config {
	config := &Config{
		BusPath: i2c.DefaultBusPath,
		Address: bme69x.I2CAddrLow,
		Backend: i2c.DefaultBackend,
		AmbTemp: DefaultAmbientTemperature,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return config
}

// InterfaceInit opens the bus for intf and wires the driver slots of dev.
// Selecting SPI terminates the process.
func InterfaceInit(dev *bme69x.Dev, intf bme69x.Interface, opts ...Option) bme69x.ResultCode {
	if dev == nil {
		return bme69x.ErrNullPtr
	}
	config := newConfig(opts...)
	rslt := bme69x.OK
	switch intf {
	case bme69x.I2CIntf:
		printf("I2C Interface\n")
		handle, code := openI2C(config)
		if code != bme69x.OK {
			return code
		}
		dev.Intf = bme69x.I2CIntf
		dev.Read = I2CRead
		dev.Write = I2CWrite
		dev.DelayUs = DelayUs
		dev.IntfPtr = handle
	case bme69x.SPIIntf:
		unsupportedSPI()
		return bme69x.ErrComFail
	default:
		config.Logger.Error("unknown interface", "intf", uint8(intf))
		rslt = bme69x.ErrComFail
	}
	DelayUs(settleDelayUs, dev.IntfPtr)
	dev.AmbTemp = config.AmbTemp
	return rslt
}

func openI2C(config *Config) (*BusHandle, bme69x.ResultCode) {
	open := config.Opener
	if open == nil {
		var err error
		open, err = i2c.OpenerFor(config.Backend)
		if err != nil {
			config.Logger.Error("Failed to open I2C device", "error", err)
			return nil, bme69x.ErrComFail
		}
	}
	port, err := open(config.BusPath)
	if err != nil {
		config.Logger.Error("Failed to open I2C device", "bus", config.BusPath, "error", err)
		return nil, bme69x.ErrComFail
	}
	// the port is left open on failure, like the descriptor on deinit
	if err := port.SetAddress(config.Address); err != nil {
		config.Logger.Error("Failed to set I2C address", "address", config.Address, "error", err)
		return nil, bme69x.ErrComFail
	}
	return &BusHandle{port: port, address: config.Address, logger: config.Logger}, bme69x.OK
}

// unsupportedSPI stands in for an SPI transport. There is none, and going
// on with an unwired device would corrupt driver state, so it exits.
func unsupportedSPI() {
	printf("SPI Interface not supported\n")
	exit(1)
}

// I2CDeinit announces shutdown. The bus stays open; callers wanting to
// release it close the BusHandle themselves.
func I2CDeinit() {
	printf("Exiting....\n")
}
