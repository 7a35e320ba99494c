package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/bme69x"
	"github.com/mklimuk/bme69x/i2c"
	"github.com/mklimuk/bme69x/rpi"
)

// set by the build tool
var (
	Version = "latest"
	Commit  string
	Date    string
)

type Config struct {
	Bus                string `yaml:"bus"`
	Address            uint16 `yaml:"address"`
	Backend            string `yaml:"backend"`
	AmbientTemperature int8   `yaml:"ambient_temperature"`
	Verbose            bool   `yaml:"verbose"`
}

func Default() Config {
	return Config{
		Bus:                i2c.DefaultBusPath,
		Address:            bme69x.I2CAddrLow,
		Backend:            i2c.DefaultBackend,
		AmbientTemperature: rpi.DefaultAmbientTemperature,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Address != bme69x.I2CAddrLow && c.Address != bme69x.I2CAddrHigh {
		return fmt.Errorf("address %#x is not a BME69x address (%#x or %#x)", c.Address, bme69x.I2CAddrLow, bme69x.I2CAddrHigh)
	}
	if _, err := i2c.OpenerFor(c.Backend); err != nil {
		return err
	}
	return nil
}

// Options turns the config into interface init options.
func (c Config) Options() []rpi.Option {
	return []rpi.Option{
		rpi.WithBusPath(c.Bus),
		rpi.WithAddress(c.Address),
		rpi.WithBackend(c.Backend),
		rpi.WithAmbientTemperature(c.AmbientTemperature),
	}
}
