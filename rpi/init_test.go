package rpi

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/bme69x"
	"github.com/mklimuk/bme69x/i2c"
)

// MockPort is a testify mock of i2c.Port.
type MockPort struct {
	mock.Mock
}

func (m *MockPort) Read(b []byte) (int, error) {
	args := m.Called(b)
	if data, ok := args.Get(0).([]byte); ok {
		copy(b, data)
	}
	return args.Int(1), args.Error(2)
}

func (m *MockPort) Write(b []byte) (int, error) {
	args := m.Called(b)
	return args.Int(0), args.Error(1)
}

func (m *MockPort) SetAddress(addr uint16) error {
	return m.Called(addr).Error(0)
}

func (m *MockPort) Close() error {
	return m.Called().Error(0)
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	SetOutput(&out)
	t.Cleanup(func() { SetOutput(nil) })
	return &out
}

func quietLogger() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInterfaceInit_NilDevice(t *testing.T) {
	out := captureOutput(t)
	opened := 0
	opener := func(path string) (i2c.Port, error) {
		opened++
		return &MockPort{}, nil
	}

	rslt := InterfaceInit(nil, bme69x.I2CIntf, WithOpener(opener))
	assert.Equal(t, bme69x.ErrNullPtr, rslt)
	assert.Zero(t, opened)
	assert.Empty(t, out.String())
}

func TestInterfaceInit_I2C(t *testing.T) {
	out := captureOutput(t)
	port := &MockPort{}
	port.On("SetAddress", uint16(bme69x.I2CAddrLow)).Return(nil).Once()
	var openedPath string
	opener := func(path string) (i2c.Port, error) {
		openedPath = path
		return port, nil
	}

	var dev bme69x.Dev
	rslt := InterfaceInit(&dev, bme69x.I2CIntf, WithOpener(opener), quietLogger())
	require.Equal(t, bme69x.OK, rslt)
	assert.Equal(t, "/dev/i2c-1", openedPath)
	assert.True(t, dev.Wired())
	assert.Equal(t, bme69x.I2CIntf, dev.Intf)
	assert.Equal(t, int8(25), dev.AmbTemp)
	handle, ok := dev.IntfPtr.(*BusHandle)
	require.True(t, ok)
	assert.Equal(t, uint16(0x76), handle.Address())
	assert.Equal(t, "I2C Interface\n", out.String())

	// the slots reach the port through the stored handle
	port.On("Write", []byte{0xE0, 0xB6}).Return(2, nil).Once()
	assert.Equal(t, bme69x.OK, dev.Write(0xE0, []byte{0xB6}, dev.IntfPtr))

	out.Reset()
	I2CDeinit()
	I2CDeinit()
	assert.Equal(t, "Exiting....\nExiting....\n", out.String())
	port.AssertNotCalled(t, "Close")
	port.AssertExpectations(t)
}

func TestInterfaceInit_Options(t *testing.T) {
	captureOutput(t)
	port := &MockPort{}
	port.On("SetAddress", uint16(bme69x.I2CAddrHigh)).Return(nil).Once()
	var openedPath string
	opener := func(path string) (i2c.Port, error) {
		openedPath = path
		return port, nil
	}

	var dev bme69x.Dev
	rslt := InterfaceInit(&dev, bme69x.I2CIntf,
		WithOpener(opener),
		WithBusPath("/dev/i2c-3"),
		WithAddress(bme69x.I2CAddrHigh),
		WithAmbientTemperature(18),
		quietLogger(),
	)
	require.Equal(t, bme69x.OK, rslt)
	assert.Equal(t, "/dev/i2c-3", openedPath)
	assert.Equal(t, int8(18), dev.AmbTemp)
	port.AssertExpectations(t)
}

func TestInterfaceInit_Failures(t *testing.T) {
	tests := []struct {
		name   string
		opts   func() []Option
		logged string
	}{
		{
			name: "open",
			opts: func() []Option {
				return []Option{WithOpener(func(string) (i2c.Port, error) {
					return nil, errors.New("no such file or directory")
				})}
			},
			logged: "Failed to open I2C device",
		},
		{
			name: "set address",
			opts: func() []Option {
				port := &MockPort{}
				port.On("SetAddress", mock.Anything).Return(errors.New("device or resource busy"))
				return []Option{WithOpener(func(string) (i2c.Port, error) { return port, nil })}
			},
			logged: "Failed to set I2C address",
		},
		{
			name:   "unknown backend",
			opts:   func() []Option { return []Option{WithBackend("spidev")} },
			logged: "unknown i2c backend",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			var logs bytes.Buffer
			opts := append(tt.opts(), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

			var dev bme69x.Dev
			rslt := InterfaceInit(&dev, bme69x.I2CIntf, opts...)
			assert.Equal(t, bme69x.ErrComFail, rslt)
			assert.False(t, dev.Wired())
			assert.Contains(t, logs.String(), tt.logged)
		})
	}
}

func TestInterfaceInit_UnknownInterface(t *testing.T) {
	out := captureOutput(t)
	var dev bme69x.Dev
	rslt := InterfaceInit(&dev, bme69x.Interface(7), quietLogger())
	assert.Equal(t, bme69x.ErrComFail, rslt)
	assert.False(t, dev.Wired())
	assert.Equal(t, int8(25), dev.AmbTemp)
	assert.Empty(t, out.String())
}

func TestInterfaceInit_SPIExits(t *testing.T) {
	out := captureOutput(t)
	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	var dev bme69x.Dev
	InterfaceInit(&dev, bme69x.SPIIntf)
	assert.Equal(t, 1, code)
	assert.Equal(t, "SPI Interface not supported\n", out.String())
	assert.False(t, dev.Wired())
}

func TestInterfaceInit_SPITerminatesProcess(t *testing.T) {
	if os.Getenv("BME69X_SPI_SUBPROCESS") == "1" {
		var dev bme69x.Dev
		InterfaceInit(&dev, bme69x.SPIIntf)
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=^TestInterfaceInit_SPITerminatesProcess$")
	cmd.Env = append(os.Environ(), "BME69X_SPI_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "process should exit with an error, got %v", err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "SPI Interface not supported")
}
