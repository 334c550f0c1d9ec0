package ports

import (
	"crebforge/internal/types"
)

// ManifestPort reads package manifest and lock data from a source tree.
type ManifestPort interface {
	// LoadManifest parses the package manifest rooted at sourcePath.
	// A missing or unreadable manifest is a dependency-resolution
	// error (CodeFailedPrecondition).
	LoadManifest(sourcePath string) (types.PackageManifest, error)

	// DiscoverLock locates the embedded lock file next to the
	// manifest. ok is false when the source tree carries none.
	DiscoverLock(sourcePath string) (path string, ok bool)

	// LoadLock parses lock data from an explicit path.
	LoadLock(path string) (types.LockData, error)
}
