package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

const (
	binary     = "dist/thermo"
	mainPkg    = "./cmd/thermo"
	buildImage = "gophertribe/gobuild:1.25-bookworm"
)

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build thermo cli",
		Long: `Build the thermo cli natively or, when os/arch differ from the host, inside the build image.

The hid library used by the mcp2221 adapter needs cgo, so cross builds for the
board (e.g. --os linux --arch arm) always go through docker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			goos := cmd.Flag("os").Value.String()
			arch := cmd.Flag("arch").Value.String()
			version := cmd.Flag("version").Value.String()
			crossOs := cmd.Flag("cross-os").Value.String()
			crossArch := cmd.Flag("cross-arch").Value.String()

			if goos == runtime.GOOS && arch == runtime.GOARCH {
				if crossOs != "" && crossArch != "" {
					goos = crossOs
					arch = crossArch
				}
				return build.GoBuild(binary, mainPkg, build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: "main",
					EnableCgo:     true,
					Arch:          arch,
					OS:            goos,
				})
			}

			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", goos, arch),
				[]string{"build", "--version", version, "--cross-os", crossOs, "--cross-arch", crossArch},
				build.DockerBuildOpts{
					NoCache: noCache,
					Image:   buildImage,
				})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")

	return cmd
}
