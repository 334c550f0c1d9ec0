package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"crebforge/internal/policies"
	"crebforge/internal/types"
)

type DescriptorCompiler struct{}

func NewDescriptorCompiler() DescriptorCompiler {
	return DescriptorCompiler{}
}

// ValidateDescriptor checks the static shape of a descriptor before
// any source is fetched. Everything here is an authoring defect, not a
// runtime condition.
func (c DescriptorCompiler) ValidateDescriptor(ctx context.Context, d types.Descriptor) error {
	assert.NotEmpty(ctx, d.APIVersion, "api_version must be set")
	assert.NotEmpty(ctx, string(d.Kind), "kind must be set")
	assert.NotEmpty(ctx, d.Metadata.Name, "metadata.name must be set")
	assert.NotEmpty(ctx, d.Metadata.Version, "metadata.version must be set")
	if d.Kind != types.DescriptorKindProject {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("descriptor kind must be project: %s", d.Kind))
	}
	if len(d.Metadata.Owners) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.owners must not be empty")
	}
	if len(d.Platforms) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("platforms must not be empty")
	}
	seenPlatforms := map[string]bool{}
	for _, platform := range d.Platforms {
		if platform == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("platforms must not contain empty entries")
		}
		if seenPlatforms[platform] {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate platform: %s", platform))
		}
		seenPlatforms[platform] = true
	}
	declared, err := validateSources(d.Sources)
	if err != nil {
		return err
	}
	if err := policies.NewOverridePolicy(d.Sources).Validate(); err != nil {
		return err
	}
	if err := validateToolchain(d.Toolchain, declared); err != nil {
		return err
	}
	if err := validatePackage(d.Package); err != nil {
		return err
	}
	for _, tool := range d.Shell.Tools {
		if _, err := ParseConstraint(tool, "shell:tools"); err != nil {
			return err
		}
	}
	for _, env := range d.Shell.Env {
		if env.Name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("shell.env entries must be named")
		}
	}
	log.Ctx(ctx).Debug().Str("descriptor", d.Metadata.Name).Msg("descriptor validated")
	return nil
}

func validateSources(sources []types.SourceDecl) (map[string]bool, error) {
	if len(sources) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sources must not be empty")
	}
	declared := map[string]bool{}
	for _, source := range sources {
		if source.Name == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("source name must not be empty")
		}
		if declared[source.Name] {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate source name: %s", source.Name))
		}
		if source.Locator == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("source %s has no locator", source.Name))
		}
		declared[source.Name] = true
	}
	return declared, nil
}

func validateToolchain(spec types.ToolchainSpec, declared map[string]bool) error {
	if spec.Provider == "" || spec.Collection == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("toolchain.provider and toolchain.collection are required")
	}
	if !declared[spec.Provider] {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("toolchain.provider references undeclared source: %s", spec.Provider))
	}
	if !declared[spec.Collection] {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("toolchain.collection references undeclared source: %s", spec.Collection))
	}
	if spec.Channel == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("toolchain.channel must be set")
	}
	if !spec.Channel.IsTrack() {
		if _, err := debversion.NewVersion(string(spec.Channel)); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("toolchain.channel is neither a track nor a version: %s", spec.Channel)).
				WithCause(err)
		}
	}
	return nil
}

func validatePackage(spec types.PackageSpec) error {
	if spec.Name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package.name must not be empty")
	}
	if spec.Source == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package.source must not be empty")
	}
	return policies.NewLockPolicy().ValidateSpec(spec)
}
