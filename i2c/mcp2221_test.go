package i2c

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCP2221_BufferToStatus(t *testing.T) {
	buf := make([]byte, 64)
	buf[9], buf[10] = 0x05, 0x00
	buf[11], buf[12] = 0x03, 0x00
	buf[13] = 2
	buf[14] = 0x76
	buf[15] = 10
	buf[16], buf[17] = 0xEC, 0x00
	buf[25] = 1

	status := bufferToStatus(buf)
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   2,
		I2CSpeedDivider:        0x76,
		I2CTimeout:             10,
		CurrentAddress:         "ec00",
		LastWriteRequestedSize: 5,
		LastWriteSentSize:      3,
		ReadPending:            1,
	}, status)
}

func TestMCP2221Port_Guards(t *testing.T) {
	p := NewMCP2221Port(NewMCP2221())

	_, err := p.Write([]byte{0x00})
	assert.ErrorIs(t, err, ErrAddressNotSet)
	_, err = p.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrAddressNotSet)
	assert.ErrorIs(t, p.SetAddress(0x00), ErrInvalidAddress)

	assert.NoError(t, p.SetAddress(0x77))
	// payload checks happen before any USB access
	n, err := p.Write(make([]byte, mcp2221MaxPayload+1))
	assert.ErrorIs(t, err, ErrTransferTooLarge)
	assert.Equal(t, 0, n)
	_, err = p.Read(make([]byte, mcp2221MaxPayload+1))
	assert.ErrorIs(t, err, ErrTransferTooLarge)
	assert.NoError(t, p.Close())
}

func TestResetBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	resetBuffer(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}
