//go:build linux

package i2c

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// i2cSlave is I2C_SLAVE from linux/i2c-dev.h.
const i2cSlave = 0x0703

var _ Port = &DevfsPort{}

// DevfsPort drives /dev/i2c-* with plain read(2)/write(2) after binding the
// slave address with the I2C_SLAVE ioctl.
type DevfsPort struct {
	f    *os.File
	path string
}

func OpenDevfs(path string) (Port, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %s: %w", path, err)
	}
	return &DevfsPort{f: f, path: path}, nil
}

func (p *DevfsPort) SetAddress(addr uint16) error {
	if err := checkAddress(addr); err != nil {
		return err
	}
	err := unix.IoctlSetInt(int(p.f.Fd()), i2cSlave, int(addr))
	if err != nil {
		return fmt.Errorf("could not set slave address %#x on %s: %w", addr, p.path, err)
	}
	return nil
}

func (p *DevfsPort) Read(b []byte) (int, error) {
	return p.f.Read(b)
}

func (p *DevfsPort) Write(b []byte) (int, error) {
	return p.f.Write(b)
}

func (p *DevfsPort) Close() error {
	if p == nil || p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}
