package adapters

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"crebforge/internal/ports"
	"crebforge/internal/shared"
	"crebforge/internal/types"
)

// BuildHelperAdapter is the build-helper library: it realizes
// content-addressed build recipes into the store. WithToolchain
// replaces the helper's default compiler and linker with the selected
// handle; the returned builder is bound to that toolchain for its
// lifetime.
type BuildHelperAdapter struct {
	StoreDir string
}

func NewBuildHelperAdapter(storeDir string) BuildHelperAdapter {
	return BuildHelperAdapter{StoreDir: storeDir}
}

func (a BuildHelperAdapter) WithToolchain(toolchain types.ToolchainHandle) ports.SpecializedBuilder {
	return specializedBuilder{storeDir: a.StoreDir, toolchain: toolchain}
}

type specializedBuilder struct {
	storeDir  string
	toolchain types.ToolchainHandle
}

// recipeDocument is the realized artifact: the reproducible build plan
// written into the store.
type recipeDocument struct {
	Name         string                   `yaml:"name"`
	Platform     types.Platform           `yaml:"platform"`
	Derivation   string                   `yaml:"derivation"`
	SourceDigest string                   `yaml:"source_digest"`
	Toolchain    types.ToolchainHandle    `yaml:"toolchain"`
	Dependencies []types.LockedDependency `yaml:"dependencies"`
	Phases       []recipePhase            `yaml:"phases"`
}

type recipePhase struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

func (b specializedBuilder) Build(ctx context.Context, desc types.PackageDescriptor, sourceDigest string, deps []types.LockedDependency) (types.BuildArtifactRef, error) {
	_ = ctx
	if b.storeDir == "" {
		return types.BuildArtifactRef{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build helper store directory is empty")
	}
	derivation := derivationHash(desc.Name, b.toolchain, sourceDigest, deps)
	storePath := filepath.Join(b.storeDir, fmt.Sprintf("%s-%s-%s",
		shared.ShortDigest(derivation),
		shared.NormalizeSourceName(desc.Name),
		b.toolchain.Platform))

	artifact := types.BuildArtifactRef{
		Name:           desc.Name,
		Platform:       b.toolchain.Platform,
		DerivationHash: derivation,
		StorePath:      storePath,
		SourceDigest:   sourceDigest,
		Toolchain:      b.toolchain,
		Dependencies:   deps,
	}
	if err := b.realize(artifact); err != nil {
		return types.BuildArtifactRef{}, err
	}
	return artifact, nil
}

// realize writes the recipe document into the store. An existing entry
// under the same derivation hash is already the same recipe.
func (b specializedBuilder) realize(artifact types.BuildArtifactRef) error {
	if _, err := os.Stat(artifact.StorePath); err == nil {
		return nil
	}
	doc := recipeDocument{
		Name:         artifact.Name,
		Platform:     artifact.Platform,
		Derivation:   artifact.DerivationHash,
		SourceDigest: artifact.SourceDigest,
		Toolchain:    artifact.Toolchain,
		Dependencies: artifact.Dependencies,
		Phases: []recipePhase{
			{Name: "unpack", Command: fmt.Sprintf("stage source tree %s", artifact.SourceDigest)},
			{Name: "compile", Command: fmt.Sprintf("%s --edition 2021 src", artifact.Toolchain.CompilerPath)},
			{Name: "link", Command: fmt.Sprintf("%s -o bin/%s", artifact.Toolchain.LinkerPath, artifact.Name)},
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode recipe document").
			WithCause(err)
	}
	if err := os.MkdirAll(artifact.StorePath, 0755); err != nil {
		return storeError(artifact.StorePath, err)
	}
	if err := os.WriteFile(filepath.Join(artifact.StorePath, "recipe.yaml"), data, 0644); err != nil {
		return storeError(artifact.StorePath, err)
	}
	return nil
}

// derivationHash folds everything the artifact depends on into one
// content address: same pins, same hash.
func derivationHash(name string, toolchain types.ToolchainHandle, sourceDigest string, deps []types.LockedDependency) string {
	var builder strings.Builder
	builder.WriteString(name)
	builder.WriteString("\n")
	builder.WriteString(string(toolchain.Platform))
	builder.WriteString("\n")
	builder.WriteString(toolchain.Digest)
	builder.WriteString("\n")
	builder.WriteString(sourceDigest)
	builder.WriteString("\n")
	for _, dep := range deps {
		builder.WriteString(dep.Name)
		builder.WriteString("=")
		builder.WriteString(dep.Version)
		builder.WriteString("#")
		builder.WriteString(dep.Checksum)
		builder.WriteString("\n")
	}
	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}

var _ ports.BuildHelperPort = BuildHelperAdapter{}
