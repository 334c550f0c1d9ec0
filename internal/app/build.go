package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crebforge/internal/adapters"
	"crebforge/internal/types"
)

// Build produces packages.default for one explicit platform. The
// platform is always a parameter, never ambient state; the CLI layer
// decides what "current platform" means.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	platform, err := requirePlatform(req.Platform)
	if err != nil {
		return BuildResult{}, err
	}
	eval, err := s.prepare(ctx, req.DescriptorPath, req.StoreDir, req.OutputDir)
	if err != nil {
		return BuildResult{}, err
	}
	if err := declaredPlatform(eval.descriptor, platform); err != nil {
		return BuildResult{}, err
	}
	outputs, err := s.evaluatePlatform(ctx, eval, platform)
	if err != nil {
		return BuildResult{}, err
	}
	artifact := outputs.Packages[types.DefaultPackageKey]
	output := adapters.NewOutputFileAdapter(eval.outputDir)
	if err := output.WriteRecipe(artifact); err != nil {
		return BuildResult{}, err
	}
	return BuildResult{Artifact: artifact, OutputDir: eval.outputDir}, nil
}

func requirePlatform(value string) (types.Platform, error) {
	platform := strings.TrimSpace(value)
	if platform == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("platform is required")
	}
	return types.Platform(platform), nil
}

func declaredPlatform(descriptor types.Descriptor, platform types.Platform) error {
	for _, declared := range descriptor.Platforms {
		if types.Platform(declared) == platform {
			return nil
		}
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("platform is not declared by the descriptor: " + string(platform))
}
