package ports

import (
	"context"

	"crebforge/internal/types"
)

// SourceFetchPort dereferences a declared locator into a pinned,
// content-addressed source tree. Fetching the same locator twice must
// yield the same digest; the adapter may serve repeat fetches from the
// store without touching the origin.
type SourceFetchPort interface {
	Fetch(ctx context.Context, name string, locator string) (types.PinnedSource, error)
}

// TreeDigestPort computes the content digest of an arbitrary local
// tree, used to pin the package source path itself.
type TreeDigestPort interface {
	DigestTree(root string) (string, error)
}
