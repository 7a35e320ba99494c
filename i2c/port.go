// Package i2c opens host I2C buses for the BME69x binding. Every backend
// exposes the same Port: a byte stream bound to one 7-bit device address
// where each Read or Write call is a single bus transaction.
package i2c

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	BackendDevfs   = "devfs"
	BackendPeriph  = "periph"
	BackendGobot   = "gobot"
	BackendMCP2221 = "mcp2221"
)

// DefaultBackend talks to the kernel i2c-dev node directly.
const DefaultBackend = BackendDevfs

// DefaultBusPath is the user-facing I2C bus on a Raspberry Pi.
const DefaultBusPath = "/dev/i2c-1"

var (
	ErrUnknownBackend  = errors.New("unknown i2c backend")
	ErrAddressNotSet   = errors.New("i2c device address not set")
	ErrInvalidAddress  = errors.New("invalid 7-bit i2c address")
	ErrUnsupportedHost = errors.New("i2c backend not supported on this host")
)

// Port is an open bus with a bound device address. Read and Write return
// the number of bytes actually transferred.
type Port interface {
	io.ReadWriteCloser
	SetAddress(addr uint16) error
}

// Opener opens the bus identified by path.
type Opener func(path string) (Port, error)

var backends = map[string]Opener{
	BackendDevfs:   OpenDevfs,
	BackendPeriph:  OpenPeriph,
	BackendGobot:   OpenGobot,
	BackendMCP2221: OpenMCP2221,
}

// Backends lists registered backend names in lexical order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenerFor resolves a backend name. An empty name selects DefaultBackend.
func OpenerFor(backend string) (Opener, error) {
	if backend == "" {
		backend = DefaultBackend
	}
	open, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
	}
	return open, nil
}

// Open opens path with the named backend.
func Open(backend, path string) (Port, error) {
	open, err := OpenerFor(backend)
	if err != nil {
		return nil, err
	}
	return open(path)
}

// BusNumber extracts the adapter number from a node path such as
// /dev/i2c-1. A bare number is accepted as well.
func BusNumber(path string) (int, error) {
	base := strings.TrimPrefix(filepath.Base(path), "i2c-")
	n, err := strconv.Atoi(base)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("could not get bus number from %q", path)
	}
	return n, nil
}

func checkAddress(addr uint16) error {
	if addr == 0 || addr > 0x7F {
		return fmt.Errorf("%w: %#x", ErrInvalidAddress, addr)
	}
	return nil
}
