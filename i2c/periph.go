package i2c

import (
	"fmt"
	"log/slog"

	pi2c "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var _ Port = &PeriphPort{}

// PeriphPort runs each Read or Write as one periph.io Tx at the bound address.
type PeriphPort struct {
	bus   pi2c.BusCloser
	addr  uint16
	bound bool
}

func OpenPeriph(path string) (Port, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return NewPeriphPort(bus), nil
}

func NewPeriphPort(bus pi2c.BusCloser) *PeriphPort {
	return &PeriphPort{bus: bus}
}

func (p *PeriphPort) SetAddress(addr uint16) error {
	if err := checkAddress(addr); err != nil {
		return err
	}
	p.addr = addr
	p.bound = true
	return nil
}

func (p *PeriphPort) Read(b []byte) (int, error) {
	if !p.bound {
		return 0, ErrAddressNotSet
	}
	err := p.bus.Tx(p.addr, nil, b)
	if err != nil {
		return 0, fmt.Errorf("could not read from i2c bus %x: %w", p.addr, err)
	}
	return len(b), nil
}

func (p *PeriphPort) Write(b []byte) (int, error) {
	if !p.bound {
		return 0, ErrAddressNotSet
	}
	err := p.bus.Tx(p.addr, b, nil)
	if err != nil {
		return 0, fmt.Errorf("could not write to i2c bus %x: %w", p.addr, err)
	}
	return len(b), nil
}

func (p *PeriphPort) Close() error {
	return p.bus.Close()
}
