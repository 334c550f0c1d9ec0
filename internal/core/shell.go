package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"crebforge/internal/ports"
	"crebforge/internal/types"
)

// ShellBuilder composes the interactive development environment. It is
// pure composition: tool specifiers are resolved against the already
// opened catalog in declaration order, environment variable values are
// expanded against the resolved toolchain and registry, and nothing is
// built.
type ShellBuilder struct{}

func NewShellBuilder() ShellBuilder {
	return ShellBuilder{}
}

func (ShellBuilder) Build(ctx context.Context, name string, spec types.ShellSpec, catalog ports.CatalogPort, toolchain types.ToolchainHandle, registry types.Registry) (types.ShellDescriptor, error) {
	shell := types.ShellDescriptor{
		Name:     name,
		Platform: catalog.Platform(),
	}
	if spec.Name != "" {
		shell.Name = spec.Name
	}

	for _, raw := range spec.Tools {
		constraint, err := ParseConstraint(raw, "shell:tools")
		if err != nil {
			return types.ShellDescriptor{}, err
		}
		available, err := catalog.AvailableVersions(constraint.Name)
		if err != nil {
			return types.ShellDescriptor{}, err
		}
		version, err := bestToolVersion(constraint, available)
		if err != nil {
			return types.ShellDescriptor{}, err
		}
		entry, err := catalog.Entry(constraint.Name, version)
		if err != nil {
			return types.ShellDescriptor{}, err
		}
		shell.Tools = append(shell.Tools, types.ResolvedTool{
			Name:      entry.Name,
			Version:   entry.Version,
			StorePath: entry.StorePath,
		})
	}

	for _, env := range spec.Env {
		value, err := expandEnvValue(env.Value, toolchain, registry)
		if err != nil {
			return types.ShellDescriptor{}, err
		}
		shell.Env = append(shell.Env, types.EnvVar{Name: env.Name, Value: value})
	}
	log.Ctx(ctx).Debug().
		Str("shell", shell.Name).
		Int("tools", len(shell.Tools)).
		Msg("dev shell composed")
	return shell, nil
}

// expandEnvValue substitutes ${toolchain.*} and ${source:<name>}
// placeholders with paths from the resolved evaluation. Unknown
// placeholders are authoring errors.
func expandEnvValue(value string, toolchain types.ToolchainHandle, registry types.Registry) (string, error) {
	var expandErr error
	expanded := os.Expand(value, func(key string) string {
		switch key {
		case "toolchain.compiler":
			return toolchain.CompilerPath
		case "toolchain.linker":
			return toolchain.LinkerPath
		case "toolchain.stdlib_src":
			return toolchain.StdlibSrcPath
		case "toolchain.version":
			return toolchain.Version
		}
		if name, ok := strings.CutPrefix(key, "source:"); ok {
			if pinned, found := registry[name]; found {
				return pinned.StorePath
			}
			expandErr = errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("shell env references unresolved source: %s", name))
			return ""
		}
		expandErr = errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("shell env references unknown placeholder: %s", key))
		return ""
	})
	if expandErr != nil {
		return "", expandErr
	}
	return expanded, nil
}
