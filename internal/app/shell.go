package app

import (
	"context"

	"crebforge/internal/adapters"
)

// Shell produces the devShell descriptor for one explicit platform and
// writes the activatable env file.
func (s Service) Shell(ctx context.Context, req ShellRequest) (ShellResult, error) {
	platform, err := requirePlatform(req.Platform)
	if err != nil {
		return ShellResult{}, err
	}
	eval, err := s.prepare(ctx, req.DescriptorPath, req.StoreDir, req.OutputDir)
	if err != nil {
		return ShellResult{}, err
	}
	if err := declaredPlatform(eval.descriptor, platform); err != nil {
		return ShellResult{}, err
	}
	outputs, err := s.evaluatePlatform(ctx, eval, platform)
	if err != nil {
		return ShellResult{}, err
	}
	output := adapters.NewOutputFileAdapter(eval.outputDir)
	if err := output.WriteShellEnv(outputs.DevShell); err != nil {
		return ShellResult{}, err
	}
	return ShellResult{Shell: outputs.DevShell, OutputDir: eval.outputDir}, nil
}
