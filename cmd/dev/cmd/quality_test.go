package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSensor(t *testing.T) {
	t.Setenv(busEnv, "/dev/i2c-0")
	t.Setenv(addressEnv, "")

	require.NoError(t, exportSensor("", "0x77"))
	assert.Equal(t, "/dev/i2c-0", os.Getenv(busEnv), "empty flag keeps inherited bus")
	assert.Equal(t, "0x77", os.Getenv(addressEnv))

	require.NoError(t, exportSensor("/dev/i2c-3", ""))
	assert.Equal(t, "/dev/i2c-3", os.Getenv(busEnv))
	assert.Equal(t, "0x77", os.Getenv(addressEnv))
}

func TestIntegrationTestCmd_Flags(t *testing.T) {
	cmd := IntegrationTestCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--bus", "/dev/i2c-4", "--address", "0x76"}))
	assert.Equal(t, "/dev/i2c-4", cmd.Flags().Lookup("bus").Value.String())
	assert.Equal(t, "0x76", cmd.Flags().Lookup("address").Value.String())
}
