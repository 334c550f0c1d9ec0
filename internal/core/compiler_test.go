package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crebforge/internal/types"
)

func baseDescriptor() types.Descriptor {
	return types.Descriptor{
		APIVersion: "crebforge/v1",
		Kind:       types.DescriptorKindProject,
		Metadata: types.Metadata{
			Name:    "creb",
			Version: "0.1.0",
			Owners:  []string{"platform-team"},
		},
		Sources: []types.SourceDecl{
			{Name: "toolchain-provider", Locator: "path:provider"},
			{Name: "package-collection", Locator: "path:collection"},
		},
		Platforms: []string{"x86_64-linux", "aarch64-darwin"},
		Toolchain: types.ToolchainSpec{
			Provider:   "toolchain-provider",
			Collection: "package-collection",
			Channel:    types.ChannelStable,
		},
		Package: types.PackageSpec{
			Name:   "creb",
			Source: "crate",
		},
		Shell: types.ShellSpec{
			Tools: []string{"git>=2.40"},
			Env:   []types.EnvVar{{Name: "RUST_SRC_PATH", Value: "${toolchain.stdlib_src}"}},
		},
	}
}

func TestDescriptorCompilerValidateCases(t *testing.T) {
	compiler := NewDescriptorCompiler()

	tests := []struct {
		name    string
		build   func() types.Descriptor
		wantErr string
	}{
		{
			name:  "valid descriptor",
			build: baseDescriptor,
		},
		{
			name: "wrong kind",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Kind = "workspace"
				return d
			},
			wantErr: "kind must be project",
		},
		{
			name: "no owners",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Metadata.Owners = nil
				return d
			},
			wantErr: "owners must not be empty",
		},
		{
			name: "no platforms",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Platforms = nil
				return d
			},
			wantErr: "platforms must not be empty",
		},
		{
			name: "duplicate platform",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Platforms = []string{"x86_64-linux", "x86_64-linux"}
				return d
			},
			wantErr: "duplicate platform",
		},
		{
			name: "no sources",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Sources = nil
				return d
			},
			wantErr: "sources must not be empty",
		},
		{
			name: "source without locator",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Sources[0].Locator = ""
				return d
			},
			wantErr: "has no locator",
		},
		{
			name: "follow references undeclared source",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Sources[0].Follows = map[string]string{"collection": "nope"}
				return d
			},
			wantErr: "undeclared source",
		},
		{
			name: "toolchain provider undeclared",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Toolchain.Provider = "missing"
				return d
			},
			wantErr: "references undeclared source",
		},
		{
			name: "channel neither track nor version",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Toolchain.Channel = "!!!"
				return d
			},
			wantErr: "neither a track nor a version",
		},
		{
			name: "channel exact version pin",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Toolchain.Channel = "1.70.0"
				return d
			},
		},
		{
			name: "package without source",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Package.Source = ""
				return d
			},
			wantErr: "package.source must not be empty",
		},
		{
			name: "pinned lock mode without lock file",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Package.LockMode = types.LockModePinned
				return d
			},
			wantErr: "requires lock_file",
		},
		{
			name: "invalid shell tool specifier",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Shell.Tools = []string{">=2.40"}
				return d
			},
			wantErr: "invalid constraint",
		},
		{
			name: "unnamed shell env entry",
			build: func() types.Descriptor {
				d := baseDescriptor()
				d.Shell.Env = []types.EnvVar{{Value: "x"}}
				return d
			},
			wantErr: "must be named",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := compiler.ValidateDescriptor(t.Context(), tt.build())
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
