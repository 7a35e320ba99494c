package rpi

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mklimuk/bme69x"
	"github.com/mklimuk/bme69x/i2c"
)

var _ bme69x.Transport = &BusHandle{}

// writeScratch covers a register address plus a 64 byte burst, more than
// any single BME69x register write.
const writeScratch = 65

var writeBufs = sync.Pool{
	New: func() any { return new([writeScratch]byte) },
}

// BusHandle is the open bus and the device address bound to it. It is the
// context reference stored in bme69x.Dev.IntfPtr.
//
// A handle has no lock: all calls must come from a single owner goroutine.
type BusHandle struct {
	port    i2c.Port
	address uint16
	logger  *slog.Logger
}

// Address returns the 7-bit device address bound to the bus.
func (h *BusHandle) Address() uint16 {
	return h.address
}

// Close releases the bus port. I2CDeinit does not call it.
func (h *BusHandle) Close() error {
	if h == nil || h.port == nil {
		return nil
	}
	err := h.port.Close()
	h.port = nil
	if err != nil {
		return fmt.Errorf("could not close i2c bus: %w", err)
	}
	return nil
}

// ReadRegister writes the register address then reads len(data) bytes.
// The read is issued even when the address write came up short.
func (h *BusHandle) ReadRegister(reg byte, data []byte) bme69x.ResultCode {
	rslt := bme69x.OK
	n, err := h.port.Write([]byte{reg})
	if n != 1 {
		h.logger.Error("rpi_read register", "reg", reg, "want", 1, "got", n, "error", err)
		rslt = bme69x.ErrComFail
	}
	n, err = h.port.Read(data)
	if n != len(data) {
		h.logger.Error("rpi_read data", "reg", reg, "want", len(data), "got", n, "error", err)
		rslt = bme69x.ErrComFail
	}
	return rslt
}

// WriteRegister sends reg followed by data as one transfer.
func (h *BusHandle) WriteRegister(reg byte, data []byte) bme69x.ResultCode {
	var buf []byte
	if len(data) < writeScratch {
		scratch := writeBufs.Get().(*[writeScratch]byte)
		defer writeBufs.Put(scratch)
		buf = scratch[:len(data)+1]
	} else {
		buf = make([]byte, len(data)+1)
	}
	buf[0] = reg
	copy(buf[1:], data)
	n, err := h.port.Write(buf)
	if n != len(buf) {
		h.logger.Error("rpi_write", "reg", reg, "want", len(buf), "got", n, "error", err)
		return bme69x.ErrComFail
	}
	return bme69x.OK
}

func (h *BusHandle) Delay(period uint32) {
	DelayUs(period, h)
}

// I2CRead is the driver read slot. intf must be the Transport stored by
// InterfaceInit.
func I2CRead(reg byte, data []byte, intf any) bme69x.ResultCode {
	t, ok := intf.(bme69x.Transport)
	if !ok {
		return bme69x.ErrNullPtr
	}
	return t.ReadRegister(reg, data)
}

// I2CWrite is the driver write slot.
func I2CWrite(reg byte, data []byte, intf any) bme69x.ResultCode {
	t, ok := intf.(bme69x.Transport)
	if !ok {
		return bme69x.ErrNullPtr
	}
	return t.WriteRegister(reg, data)
}

// DelayUs is the driver delay slot. intf is unused.
func DelayUs(period uint32, _ any) {
	time.Sleep(time.Duration(period) * time.Microsecond)
}
