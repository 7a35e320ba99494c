package i2c

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"
)

const (
	MCP2221VendorID  = 0x04D8
	MCP2221ProductID = 0x00DD
)

// maximum payload of a single HID I2C report
const mcp2221MaxPayload = 60

const (
	mcp2221CmdStatus   = 0x10
	mcp2221CmdWrite    = 0x90
	mcp2221CmdRead     = 0x91
	mcp2221CmdReadData = 0x40
)

var (
	ErrBusBusy          = errors.New("i2c engine is busy (command not completed)")
	ErrMCP2221NotFound  = errors.New("MCP2221 device not found")
	ErrTransferTooLarge = fmt.Errorf("transfer exceeds %d bytes", mcp2221MaxPayload)
)

// MCP2221Status is the I2C engine state reported by the bridge.
type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"speed_divider"`
	I2CTimeout             int    `yaml:"timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent"`
	ReadPending            int    `yaml:"read_pending"`
}

// MCP2221 is a Microchip USB-to-I2C bridge, handy for driving a sensor
// breakout from a desktop.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	verbose      bool
}

type MCP2221Opt func(*MCP2221)

func WithResponseWait(wait time.Duration) MCP2221Opt {
	return func(d *MCP2221) {
		d.responseWait = wait
	}
}

// WithHexDump logs every HID report at debug level.
func WithHexDump(enabled bool) MCP2221Opt {
	return func(d *MCP2221) {
		d.verbose = enabled
	}
}

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	d := &MCP2221{
		request:      make([]byte, 64),
		response:     make([]byte, 64),
		responseWait: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *MCP2221) WriteToAddr(address byte, buffer []byte) error {
	if len(buffer) > mcp2221MaxPayload {
		return ErrTransferTooLarge
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = mcp2221CmdWrite
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send()
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	if d.response[1] == 0x01 {
		slog.Debug("adapter busy")
		return ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(address byte, buffer []byte) error {
	if len(buffer) > mcp2221MaxPayload {
		return ErrTransferTooLarge
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = mcp2221CmdRead
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send()
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	d.request[0] = mcp2221CmdReadData
	resetBuffer(d.response)
	err = d.send()
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == 0x41 {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == 127 || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

func (d *MCP2221) Status() (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = mcp2221CmdStatus
	if err := d.send(); err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

// ReleaseBus cancels the current I2C transfer and frees the bus.
func (d *MCP2221) ReleaseBus() (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = mcp2221CmdStatus
	d.request[2] = 0x10
	if err := d.send(); err != nil {
		return nil, fmt.Errorf("release request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9-10: requested I2C transfer length (LE)
		11-12: already transferred number of bytes (LE)
		13: internal I2C data buffer counter
		14: current I2C communication speed divider
		15: current I2C timeout
		16-17: I2C address being used
		25: read pending
	*/
	return &MCP2221Status{
		I2CDataBufferCounter:   int(buffer[13]),
		I2CSpeedDivider:        int(buffer[14]),
		I2CTimeout:             int(buffer[15]),
		ReadPending:            int(buffer[25]),
		CurrentAddress:         hex.EncodeToString(buffer[16:18]),
		LastWriteRequestedSize: binary.LittleEndian.Uint16(buffer[9:11]),
		LastWriteSentSize:      binary.LittleEndian.Uint16(buffer[11:13]),
	}
}

func (d *MCP2221) send() error {
	devs := hid.Enumerate(MCP2221VendorID, MCP2221ProductID)
	if len(devs) > 1 {
		return fmt.Errorf("ambiguous device identification")
	}
	if len(devs) == 0 {
		return ErrMCP2221NotFound
	}
	dev, err := devs[0].Open()
	if err != nil {
		return fmt.Errorf("error opening device: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			slog.Debug("could not close hid device", "error", err)
		}
	}()
	if d.verbose {
		slog.Debug("sending message to adapter", "dump", hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short write: %d", n)
	}
	time.Sleep(d.responseWait)
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short read: %d", n)
	}
	if d.verbose {
		slog.Debug("read message from adapter", "dump", hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}

var _ Port = &MCP2221Port{}

// MCP2221Port adapts the bridge to Port.
type MCP2221Port struct {
	dev   *MCP2221
	addr  byte
	bound bool
}

// OpenMCP2221 ignores path: the bridge is found by USB vendor/product id.
func OpenMCP2221(path string) (Port, error) {
	if !hid.Supported() {
		return nil, fmt.Errorf("%w: no hid support", ErrUnsupportedHost)
	}
	return NewMCP2221Port(NewMCP2221()), nil
}

func NewMCP2221Port(dev *MCP2221) *MCP2221Port {
	return &MCP2221Port{dev: dev}
}

func (p *MCP2221Port) Adapter() *MCP2221 {
	return p.dev
}

func (p *MCP2221Port) SetAddress(addr uint16) error {
	if err := checkAddress(addr); err != nil {
		return err
	}
	p.addr = byte(addr)
	p.bound = true
	return nil
}

func (p *MCP2221Port) Read(b []byte) (int, error) {
	if !p.bound {
		return 0, ErrAddressNotSet
	}
	if err := p.dev.ReadFromAddr(p.addr, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p *MCP2221Port) Write(b []byte) (int, error) {
	if !p.bound {
		return 0, ErrAddressNotSet
	}
	if err := p.dev.WriteToAddr(p.addr, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p *MCP2221Port) Close() error {
	return nil
}
