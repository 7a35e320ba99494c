package i2c

import (
	"fmt"
	"io"

	"gobot.io/x/gobot/v2/platforms/raspi"
)

var _ Port = &GobotPort{}

// GobotPort uses the gobot Raspberry Pi adaptor. The connection is created
// lazily by SetAddress since gobot binds the address per connection.
type GobotPort struct {
	adaptor *raspi.Adaptor
	busNr   int
	conn    io.ReadWriteCloser
}

func OpenGobot(path string) (Port, error) {
	busNr, err := BusNumber(path)
	if err != nil {
		return nil, err
	}
	a := raspi.NewAdaptor()
	if err := a.Connect(); err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	return &GobotPort{adaptor: a, busNr: busNr}, nil
}

func (p *GobotPort) SetAddress(addr uint16) error {
	if err := checkAddress(addr); err != nil {
		return err
	}
	conn, err := p.adaptor.GetI2cConnection(int(addr), p.busNr)
	if err != nil {
		return fmt.Errorf("could not get i2c connection to %#x on bus %d: %w", addr, p.busNr, err)
	}
	p.conn = conn
	return nil
}

func (p *GobotPort) Read(b []byte) (int, error) {
	if p.conn == nil {
		return 0, ErrAddressNotSet
	}
	return p.conn.Read(b)
}

func (p *GobotPort) Write(b []byte) (int, error) {
	if p.conn == nil {
		return 0, ErrAddressNotSet
	}
	return p.conn.Write(b)
}

// Close finalizes the adaptor, which also closes the open connection.
func (p *GobotPort) Close() error {
	return p.adaptor.Finalize()
}
