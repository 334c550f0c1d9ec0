package ports

import (
	"context"

	"crebforge/internal/types"
)

// BuildHelperPort is the build-helper library: a generic "compile this
// source tree" operation. WithToolchain overrides the helper's default
// compiler and linker, producing a specialized builder bound to one
// ToolchainHandle.
type BuildHelperPort interface {
	WithToolchain(toolchain types.ToolchainHandle) SpecializedBuilder
}

// SpecializedBuilder realizes a content-addressed build artifact from a
// package descriptor and its verified lock data. It does not retry and
// does not fall back; any failure aborts the evaluation.
type SpecializedBuilder interface {
	Build(ctx context.Context, desc types.PackageDescriptor, sourceDigest string, deps []types.LockedDependency) (types.BuildArtifactRef, error)
}
