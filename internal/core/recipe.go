package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"crebforge/internal/ports"
	"crebforge/internal/types"
)

// RecipeBuilder composes the package collection, the build-helper
// library specialized to one toolchain, and a package descriptor into
// a single buildable artifact. Dependency resolution is verification,
// not search: the lock data names exact versions, and every one of
// them must satisfy its manifest constraint and exist in the catalog.
// Nothing is retried and there is no fallback.
type RecipeBuilder struct {
	Manifests ports.ManifestPort
	Digests   ports.TreeDigestPort
	Helper    ports.BuildHelperPort
}

func NewRecipeBuilder(manifests ports.ManifestPort, digests ports.TreeDigestPort, helper ports.BuildHelperPort) RecipeBuilder {
	return RecipeBuilder{Manifests: manifests, Digests: digests, Helper: helper}
}

func (b RecipeBuilder) Build(ctx context.Context, catalog ports.CatalogPort, toolchain types.ToolchainHandle, desc types.PackageDescriptor) (types.BuildArtifactRef, error) {
	if b.Manifests == nil || b.Digests == nil || b.Helper == nil {
		return types.BuildArtifactRef{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("recipe builder requires manifest, digest, and helper ports")
	}

	manifest, err := b.Manifests.LoadManifest(desc.SourcePath)
	if err != nil {
		return types.BuildArtifactRef{}, err
	}

	lock, err := b.loadLock(desc)
	if err != nil {
		return types.BuildArtifactRef{}, err
	}

	deps, err := verifyDependencies(manifest, lock, catalog)
	if err != nil {
		return types.BuildArtifactRef{}, err
	}

	sourceDigest, err := b.Digests.DigestTree(desc.SourcePath)
	if err != nil {
		return types.BuildArtifactRef{}, err
	}

	specialized := b.Helper.WithToolchain(toolchain)
	artifact, err := specialized.Build(ctx, desc, sourceDigest, deps)
	if err != nil {
		return types.BuildArtifactRef{}, err
	}
	log.Ctx(ctx).Debug().
		Str("package", desc.Name).
		Str("platform", string(toolchain.Platform)).
		Str("derivation", artifact.DerivationHash).
		Msg("recipe built")
	return artifact, nil
}

func (b RecipeBuilder) loadLock(desc types.PackageDescriptor) (types.LockData, error) {
	switch desc.LockMode {
	case types.LockModePinned:
		if desc.LockFile == nil || desc.LockFile.Path == "" {
			return types.LockData{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("pinned lock mode without a lock file reference")
		}
		return b.Manifests.LoadLock(desc.LockFile.Path)
	default:
		path, ok := b.Manifests.DiscoverLock(desc.SourcePath)
		if !ok {
			return types.LockData{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("no lock data discovered in package source: %s", desc.SourcePath))
		}
		return b.Manifests.LoadLock(path)
	}
}

// verifyDependencies checks every manifest dependency against the lock
// and the platform catalog, returning the sorted locked set.
func verifyDependencies(manifest types.PackageManifest, lock types.LockData, catalog ports.CatalogPort) ([]types.LockedDependency, error) {
	locked := map[string]types.LockedDependency{}
	for _, entry := range lock.Packages {
		locked[entry.Name] = entry
	}
	cache := newVersionCache()

	var out []types.LockedDependency
	for _, dep := range manifest.Dependencies {
		entry, ok := locked[dep.Name]
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("dependency %s declared by manifest is missing from lock data", dep.Name))
		}
		ok, err := lockedSatisfies(cache, entry.Version, dep.Constraint)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("locked version %s of %s does not satisfy manifest constraint %s%s",
					entry.Version, dep.Name, dep.Constraint.Op, dep.Constraint.Version))
		}
		if _, err := catalog.Entry(dep.Name, entry.Version); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("dependency %s %s is not satisfiable from the package collection for %s",
					dep.Name, entry.Version, catalog.Platform())).
				WithCause(err)
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}
