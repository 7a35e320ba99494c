package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// Read by rpi/integration_test.go.
const (
	busEnv     = "BME69X_BUS"
	addressEnv = "BME69X_ADDRESS"
)

func TestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run unit tests (no hardware needed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Test(); err != nil {
				return fmt.Errorf("unit tests failed: %w", err)
			}
			return nil
		},
	}
}

func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run linters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Lint(); err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}
			return nil
		},
	}
}

func IntegrationTestCmd() *cobra.Command {
	var bus, address string
	cmd := &cobra.Command{
		Use:   "integration-test",
		Short: "Probe a BME69x on a local I2C bus",
		Long: "Runs the integration-tagged tests. The sensor location is handed to them through " +
			busEnv + " and " + addressEnv + "; tests skip when the bus node is missing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exportSensor(bus, address); err != nil {
				return err
			}
			slog.Info("running integration tests", "bus", os.Getenv(busEnv), "address", os.Getenv(addressEnv))
			if err := test.Integ(); err != nil {
				return fmt.Errorf("integration tests failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bus, "bus", "", "i2c bus device node (default /dev/i2c-1)")
	cmd.Flags().StringVar(&address, "address", "", "sensor address, 0x76 or 0x77")
	return cmd
}

// exportSensor sets the environment the integration tests read. Empty values
// leave an inherited setting untouched.
func exportSensor(bus, address string) error {
	for key, val := range map[string]string{busEnv: bus, addressEnv: address} {
		if val == "" {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return fmt.Errorf("could not set %s: %w", key, err)
		}
	}
	return nil
}
