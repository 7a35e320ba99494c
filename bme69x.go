package bme69x

// Interface selects the physical bus a BME69x is wired to.
type Interface uint8

const (
	SPIIntf Interface = 0
	I2CIntf Interface = 1
)

func (i Interface) String() string {
	switch i {
	case SPIIntf:
		return "SPI"
	case I2CIntf:
		return "I2C"
	default:
		return "unknown"
	}
}

// I2C addresses selectable with the SDO pin.
const (
	I2CAddrLow  = 0x76
	I2CAddrHigh = 0x77
)

// Registers touched outside the driver proper.
const (
	RegChipID    byte = 0xD0
	RegSoftReset byte = 0xE0

	ChipID        byte = 0x61
	SoftResetCmd  byte = 0xB6
	PeriodResetUs      = 10000
)

// ReadFunc reads len(data) bytes starting at reg. intf is the context
// reference stored in Dev.IntfPtr.
type ReadFunc func(reg byte, data []byte, intf any) ResultCode

// WriteFunc writes data starting at reg.
type WriteFunc func(reg byte, data []byte, intf any) ResultCode

// DelayFunc blocks for at least period microseconds.
type DelayFunc func(period uint32, intf any)

// Transport is the capability set a bus binding provides to the driver.
type Transport interface {
	ReadRegister(reg byte, data []byte) ResultCode
	WriteRegister(reg byte, data []byte) ResultCode
	Delay(period uint32)
}

// Dev is the device record owned by the sensor driver. The platform
// binding fills the function slots and the context reference once; the
// driver calls through them for every hardware access.
type Dev struct {
	Read    ReadFunc
	Write   WriteFunc
	DelayUs DelayFunc
	// IntfPtr is handed back to every slot call. The driver never owns it.
	IntfPtr any
	Intf    Interface
	// AmbTemp is the ambient temperature in deg C used for heater set points.
	AmbTemp int8
}

// Wired reports whether all capability slots are populated.
func (d *Dev) Wired() bool {
	return d != nil && d.Read != nil && d.Write != nil && d.DelayUs != nil && d.IntfPtr != nil
}

// GetRegs reads len(data) bytes from reg through the read slot.
func (d *Dev) GetRegs(reg byte, data []byte) ResultCode {
	if !d.Wired() {
		return ErrNullPtr
	}
	if len(data) == 0 {
		return ErrInvalidLength
	}
	return d.Read(reg, data, d.IntfPtr)
}

// SetRegs writes data to reg through the write slot.
func (d *Dev) SetRegs(reg byte, data []byte) ResultCode {
	if !d.Wired() {
		return ErrNullPtr
	}
	if len(data) == 0 {
		return ErrInvalidLength
	}
	return d.Write(reg, data, d.IntfPtr)
}

// SoftReset issues the reset command and waits for the device to come back.
func (d *Dev) SoftReset() ResultCode {
	rslt := d.SetRegs(RegSoftReset, []byte{SoftResetCmd})
	if rslt != OK {
		return rslt
	}
	d.DelayUs(PeriodResetUs, d.IntfPtr)
	return OK
}

// ChipIDMatches reads the chip id register and compares it with ChipID.
func (d *Dev) ChipIDMatches() (byte, ResultCode) {
	var id [1]byte
	rslt := d.GetRegs(RegChipID, id[:])
	if rslt != OK {
		return 0, rslt
	}
	if id[0] != ChipID {
		return id[0], ErrDevNotFound
	}
	return id[0], OK
}
