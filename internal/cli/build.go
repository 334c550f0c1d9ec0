package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"crebforge/internal/app"
)

type buildOptions struct {
	Descriptor string
	Store      string
	OutputDir  string
	Platform   string
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build packages.default for one platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, opts)
		},
	}
	addPlatformFlags(cmd, &opts)
	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildOptions) error {
	service := newAppService()
	result, err := service.Build(ctx, app.BuildRequest{
		DescriptorPath: resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		StoreDir:       resolveString(cmd, opts.Store, "store", "store"),
		OutputDir:      resolveString(cmd, opts.OutputDir, "output", "output"),
		Platform:       resolveString(cmd, opts.Platform, "platform", "platform"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("built: %s (%s) -> %s\n", result.Artifact.Name, result.Artifact.Platform, result.Artifact.StorePath)
	return nil
}

func addPlatformFlags(cmd *cobra.Command, opts *buildOptions) {
	cmd.Flags().StringVar(&opts.Descriptor, "descriptor", "crebforge.yaml", "Descriptor file path")
	cmd.Flags().StringVar(&opts.Store, "store", "", "Content-addressed store directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory")
	cmd.Flags().StringVar(&opts.Platform, "platform", hostPlatform(), "Target platform")

	_ = viper.BindPFlag("descriptor", cmd.Flags().Lookup("descriptor"))
	_ = viper.BindPFlag("store", cmd.Flags().Lookup("store"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("platform", cmd.Flags().Lookup("platform"))
}

// hostPlatform maps the running process to a platform identifier. The
// only place "current system" exists; everything below the CLI takes
// the platform as an explicit parameter.
func hostPlatform() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}
	return fmt.Sprintf("%s-%s", arch, runtime.GOOS)
}
