package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"crebforge/internal/ports"
	"crebforge/internal/types"
)

// PlatformEnv bundles the platform-scoped handles every downstream
// component works against: the catalog view of the package collection
// and the provider's channel manifest, both rooted in pinned sources.
// Envs are instantiated independently per platform and never shared.
type PlatformEnv struct {
	Platform   types.Platform
	Collection types.PinnedSource
	Provider   types.PinnedSource
	Catalog    ports.CatalogPort
	Channels   types.ChannelManifest
}

// PlatformResolver instantiates PlatformEnvs from a resolved registry.
// A pure function of (registry, platform); the underlying adapters may
// memoize reads but expose no other side effects.
type PlatformResolver struct {
	Collection ports.CollectionPort
	Toolchains ports.ToolchainManifestPort
}

func NewPlatformResolver(collection ports.CollectionPort, toolchains ports.ToolchainManifestPort) PlatformResolver {
	return PlatformResolver{Collection: collection, Toolchains: toolchains}
}

func (r PlatformResolver) Resolve(ctx context.Context, registry types.Registry, spec types.ToolchainSpec, platform types.Platform) (PlatformEnv, error) {
	collection, ok := registry[spec.Collection]
	if !ok {
		return PlatformEnv{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("collection source not resolved: %s", spec.Collection))
	}
	provider, ok := registry[spec.Provider]
	if !ok {
		return PlatformEnv{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("provider source not resolved: %s", spec.Provider))
	}
	catalog, err := r.Collection.Open(collection, platform)
	if err != nil {
		return PlatformEnv{}, err
	}
	channels, err := r.Toolchains.LoadManifest(provider)
	if err != nil {
		return PlatformEnv{}, err
	}
	log.Ctx(ctx).Debug().Str("platform", string(platform)).Msg("platform environment resolved")
	return PlatformEnv{
		Platform:   platform,
		Collection: collection,
		Provider:   provider,
		Catalog:    catalog,
		Channels:   channels,
	}, nil
}
