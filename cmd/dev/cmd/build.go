package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gophertribe/devtool/build"
	"github.com/spf13/cobra"
)

// Raspberry Pi OS 64-bit
const (
	piOS   = "linux"
	piArch = "arm64"
)

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the bme69x diagnostics binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			version, _ := flags.GetString("version")
			goos, _ := flags.GetString("os")
			arch, _ := flags.GetString("arch")
			crossOs, _ := flags.GetString("cross-os")
			crossArch, _ := flags.GetString("cross-arch")
			if pi, _ := flags.GetBool("pi"); pi {
				crossOs, crossArch = piOS, piArch
			}

			// the hid backend needs cgo: a native build runs in place or,
			// inside the build container, cross-compiles with its toolchain
			if goos == runtime.GOOS && arch == runtime.GOARCH {
				if crossOs != "" && crossArch != "" {
					goos, arch = crossOs, crossArch
				}
				out := fmt.Sprintf("dist/bme69x-%s-%s", goos, arch)
				slog.Info("go build", "out", out, "version", version)
				return build.GoBuild(out, "./cmd/bme69x", build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: "github.com/mklimuk/bme69x/pkg/config",
					EnableCgo:     true,
					Arch:          arch,
					OS:            goos,
				})
			}
			noCache, err := flags.GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			slog.Info("docker build", "os", goos, "arch", arch, "version", version)
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", goos, arch),
				[]string{"build", "--version", version, "--cross-os", crossOs, "--cross-arch", crossArch},
				build.DockerBuildOpts{
					NoCache: noCache,
					Image:   "gophertribe/gobuild:1.25-bookworm",
				})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	cmd.Flags().Bool("pi", false, "cross-compile for Raspberry Pi OS (linux/arm64)")
	return cmd
}
