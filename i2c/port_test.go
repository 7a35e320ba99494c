package i2c

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenerFor(t *testing.T) {
	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			open, err := OpenerFor(name)
			require.NoError(t, err)
			assert.NotNil(t, open)
		})
	}

	open, err := OpenerFor("")
	require.NoError(t, err)
	assert.NotNil(t, open)

	_, err = OpenerFor("spi")
	assert.True(t, errors.Is(err, ErrUnknownBackend))
	assert.Contains(t, err.Error(), "devfs, gobot, mcp2221, periph")

	_, err = Open("bogus", DefaultBusPath)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestBusNumber(t *testing.T) {
	tests := []struct {
		given    string
		expected int
		fail     bool
	}{
		{"/dev/i2c-1", 1, false},
		{"/dev/i2c-22", 22, false},
		{"3", 3, false},
		{"/dev/spidev0.0", 0, true},
		{"", 0, true},
		{"/dev/i2c--1", 0, true},
	}
	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			n, err := BusNumber(test.given)
			if test.fail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, n)
		})
	}
}

func TestCheckAddress(t *testing.T) {
	assert.NoError(t, checkAddress(0x76))
	assert.NoError(t, checkAddress(0x7F))
	assert.ErrorIs(t, checkAddress(0x00), ErrInvalidAddress)
	assert.ErrorIs(t, checkAddress(0x80), ErrInvalidAddress)
}
