package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"crebforge/internal/app"
)

type shellOptions = buildOptions

func newShellCommand() *cobra.Command {
	opts := shellOptions{}
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Compose the dev shell for one platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), cmd, opts)
		},
	}
	addPlatformFlags(cmd, &opts)
	return cmd
}

func runShell(ctx context.Context, cmd *cobra.Command, opts shellOptions) error {
	service := newAppService()
	result, err := service.Shell(ctx, app.ShellRequest{
		DescriptorPath: resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		StoreDir:       resolveString(cmd, opts.Store, "store", "store"),
		OutputDir:      resolveString(cmd, opts.OutputDir, "output", "output"),
		Platform:       resolveString(cmd, opts.Platform, "platform", "platform"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("shell: %s (%s), %d tools -> %s\n", result.Shell.Name, result.Shell.Platform, len(result.Shell.Tools), result.OutputDir)
	return nil
}
