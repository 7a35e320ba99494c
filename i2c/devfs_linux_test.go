//go:build linux

package i2c

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDevfs_OpenMissingNode(t *testing.T) {
	_, err := OpenDevfs(filepath.Join(t.TempDir(), "i2c-9"))
	assert.Error(t, err)
}

// A regular file stands in for the device node: transfers go through but
// the I2C_SLAVE ioctl is rejected.
func TestDevfs_RegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i2c-1")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	p, err := OpenDevfs(path)
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	assert.ErrorIs(t, p.SetAddress(0x80), ErrInvalidAddress)
	// the ioctl reaches the kernel, which refuses it for a non-device file
	assert.ErrorIs(t, p.SetAddress(0x76), unix.ENOTTY)
	assert.Equal(t, 0x0703, i2cSlave)

	n, err := p.Write([]byte{0xD0, 0x61})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD0, 0x61}, data)

	require.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}
