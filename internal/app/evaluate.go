package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"crebforge/internal/adapters"
	"crebforge/internal/core"
	"crebforge/internal/policies"
	"crebforge/internal/types"
)

// evaluation is the prepared state shared by Evaluate, Build, and
// Shell: the validated descriptor, the resolved registry, and the
// store-scoped adapters.
type evaluation struct {
	descriptor types.Descriptor
	baseDir    string
	storeDir   string
	outputDir  string
	fetcher    *adapters.SourceFetchAdapter
	registry   types.Registry
	pkgDesc    types.PackageDescriptor
	report     types.EvaluationReport
}

func (s Service) Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResult, error) {
	started := timeNow(s.Clock)
	eval, err := s.prepare(ctx, req.DescriptorPath, req.StoreDir, req.OutputDir)
	if err != nil {
		return EvaluateResult{}, err
	}

	platforms := make([]types.Platform, 0, len(eval.descriptor.Platforms))
	for _, platform := range eval.descriptor.Platforms {
		platforms = append(platforms, types.Platform(platform))
	}

	results := map[types.Platform]types.PlatformOutputs{}
	for _, platform := range platforms {
		outputs, err := s.evaluatePlatform(ctx, eval, platform)
		if err != nil {
			return EvaluateResult{}, err
		}
		results[platform] = outputs
	}
	set, err := core.AggregateOutputs(platforms, results)
	if err != nil {
		return EvaluateResult{}, err
	}

	output := adapters.NewOutputFileAdapter(eval.outputDir)
	if err := output.WriteSourceLock(sourceLock(eval.registry)); err != nil {
		return EvaluateResult{}, err
	}
	for _, platform := range platforms {
		outputs := set[platform]
		if err := output.WriteRecipe(outputs.Packages[types.DefaultPackageKey]); err != nil {
			return EvaluateResult{}, err
		}
		if err := output.WriteShellEnv(outputs.DevShell); err != nil {
			return EvaluateResult{}, err
		}
	}
	if err := output.WriteEvaluationReport(eval.report); err != nil {
		return EvaluateResult{}, err
	}
	log.Ctx(ctx).Info().
		Str("descriptor", eval.descriptor.Metadata.Name).
		Int("platforms", len(platforms)).
		Dur("took", timeNow(s.Clock).Sub(started)).
		Msg("evaluation completed")
	return EvaluateResult{
		Name:      eval.descriptor.Metadata.Name,
		Platforms: platforms,
		Outputs:   set,
		OutputDir: eval.outputDir,
	}, nil
}

// evaluatePlatform produces one platform's full output pair. Platforms
// are independent; nothing here reads another platform's state.
func (s Service) evaluatePlatform(ctx context.Context, eval evaluation, platform types.Platform) (types.PlatformOutputs, error) {
	resolver := core.NewPlatformResolver(s.Collection, s.Toolchains)
	env, err := resolver.Resolve(ctx, eval.registry, eval.descriptor.Toolchain, platform)
	if err != nil {
		return types.PlatformOutputs{}, err
	}
	toolchain, err := core.SelectToolchain(ctx, env.Provider, env.Channels, platform, eval.descriptor.Toolchain.Channel)
	if err != nil {
		return types.PlatformOutputs{}, err
	}
	recipes := core.NewRecipeBuilder(s.Manifests, eval.fetcher, adapters.NewBuildHelperAdapter(eval.storeDir))
	artifact, err := recipes.Build(ctx, env.Catalog, toolchain, eval.pkgDesc)
	if err != nil {
		return types.PlatformOutputs{}, err
	}
	shell, err := core.NewShellBuilder().Build(ctx, eval.descriptor.Package.Name, eval.descriptor.Shell, env.Catalog, toolchain, eval.registry)
	if err != nil {
		return types.PlatformOutputs{}, err
	}
	return types.PlatformOutputs{
		Packages: map[string]types.BuildArtifactRef{types.DefaultPackageKey: artifact},
		DevShell: shell,
	}, nil
}

// prepare loads and validates the descriptor, resolves the source
// registry, and applies the lock policy. Everything downstream is a
// pure function of what prepare returns.
func (s Service) prepare(ctx context.Context, descriptorPath string, storeDir string, outputDir string) (evaluation, error) {
	path := strings.TrimSpace(descriptorPath)
	if path == "" {
		return evaluation{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor path is required")
	}
	descriptor, err := s.Descriptors.LoadDescriptor(path)
	if err != nil {
		return evaluation{}, err
	}
	if err := core.NewDescriptorCompiler().ValidateDescriptor(ctx, descriptor); err != nil {
		return evaluation{}, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return evaluation{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve descriptor path").
			WithCause(err)
	}
	baseDir := filepath.Dir(absPath)

	eval := evaluation{
		descriptor: descriptor,
		baseDir:    baseDir,
		storeDir:   pickDir(storeDir, descriptor.Defaults.Store, baseDir, ".crebforge/store"),
		outputDir:  pickDir(outputDir, descriptor.Defaults.Output, baseDir, "out"),
	}
	if err := os.MkdirAll(eval.storeDir, 0755); err != nil {
		return evaluation{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create store directory").
			WithCause(err)
	}
	eval.fetcher = adapters.NewSourceFetchAdapter(eval.storeDir)

	decls := localizeSources(descriptor.Sources, baseDir)
	registry, records, err := core.NewRegistryResolver(eval.fetcher).Resolve(ctx, decls)
	if err != nil {
		return evaluation{}, err
	}
	eval.registry = registry
	eval.report.Records = records

	pkgDesc, lockRecord, err := policies.NewLockPolicy().Descriptor(descriptor.Package, baseDir)
	if err != nil {
		return evaluation{}, err
	}
	eval.pkgDesc = pkgDesc
	eval.report.Records = append(eval.report.Records, lockRecord)
	return eval, nil
}

// localizeSources resolves relative path: locators against the
// descriptor's directory so evaluation does not depend on the working
// directory it runs from.
func localizeSources(decls []types.SourceDecl, baseDir string) []types.SourceDecl {
	out := make([]types.SourceDecl, 0, len(decls))
	for _, decl := range decls {
		if rest, ok := strings.CutPrefix(decl.Locator, "path:"); ok && !filepath.IsAbs(rest) {
			decl.Locator = "path:" + filepath.Join(baseDir, rest)
		}
		out = append(out, decl)
	}
	return out
}

func sourceLock(registry types.Registry) types.SourceLock {
	return types.SourceLock{
		Version: types.SourceLockVersion,
		Sources: registry,
	}
}

func pickDir(explicit string, fromDescriptor string, baseDir string, fallback string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if strings.TrimSpace(fromDescriptor) != "" {
		if filepath.IsAbs(fromDescriptor) {
			return fromDescriptor
		}
		return filepath.Join(baseDir, fromDescriptor)
	}
	return filepath.Join(baseDir, fallback)
}
