package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"crebforge/internal/app"
)

type evaluateOptions struct {
	Descriptor string
	Store      string
	OutputDir  string
}

func newEvaluateCommand() *cobra.Command {
	opts := evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate all declared platforms and write every output",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Descriptor, "descriptor", "crebforge.yaml", "Descriptor file path")
	cmd.Flags().StringVar(&opts.Store, "store", "", "Content-addressed store directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory")

	_ = viper.BindPFlag("descriptor", cmd.Flags().Lookup("descriptor"))
	_ = viper.BindPFlag("store", cmd.Flags().Lookup("store"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runEvaluate(ctx context.Context, cmd *cobra.Command, opts evaluateOptions) error {
	service := newAppService()
	result, err := service.Evaluate(ctx, app.EvaluateRequest{
		DescriptorPath: resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		StoreDir:       resolveString(cmd, opts.Store, "store", "store"),
		OutputDir:      resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("evaluated: %s (%d platforms) -> %s\n", result.Name, len(result.Platforms), result.OutputDir)
	return nil
}
