package ports

import (
	"crebforge/internal/types"
)

// CatalogPort is a platform-scoped view of the package collection.
type CatalogPort interface {
	// AvailableVersions lists every version of the named package that
	// the collection offers for this catalog's platform, unordered.
	AvailableVersions(name string) ([]string, error)

	// Entry returns the installable build for an exact name+version.
	Entry(name string, version string) (types.CatalogEntry, error)

	// Platform reports which platform this catalog was opened for.
	Platform() types.Platform
}

// CollectionPort opens platform-scoped catalogs from a pinned package
// collection source.
type CollectionPort interface {
	Open(pinned types.PinnedSource, platform types.Platform) (CatalogPort, error)
}

// ToolchainManifestPort reads the provider's channel manifest out of
// its pinned source tree.
type ToolchainManifestPort interface {
	LoadManifest(pinned types.PinnedSource) (types.ChannelManifest, error)
}
