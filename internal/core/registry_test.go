package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crebforge/internal/policies"
	"crebforge/internal/types"
)

// fakeFetcher pins every locator deterministically without touching the
// filesystem, recording the fetch order.
type fakeFetcher struct {
	order []string
	fail  map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, name string, locator string) (types.PinnedSource, error) {
	if err, ok := f.fail[name]; ok {
		return types.PinnedSource{}, err
	}
	f.order = append(f.order, name)
	return types.PinnedSource{
		Name:      name,
		Locator:   locator,
		Digest:    "digest-" + name,
		StorePath: "/store/" + name,
	}, nil
}

func TestRegistryResolverPinsAllSources(t *testing.T) {
	fetcher := &fakeFetcher{}
	resolver := NewRegistryResolver(fetcher)

	registry, records, err := resolver.Resolve(t.Context(), []types.SourceDecl{
		{Name: "provider", Locator: "path:/tmp/provider"},
		{Name: "collection", Locator: "path:/tmp/collection"},
	})
	require.NoError(t, err)
	require.Len(t, registry, 2)
	assert.Empty(t, records)
	assert.Equal(t, "digest-provider", registry["provider"].Digest)
	assert.Equal(t, "/store/collection", registry["collection"].StorePath)
	// Fetch order is name-sorted, not declaration order.
	assert.Equal(t, []string{"collection", "provider"}, fetcher.order)
}

func TestRegistryResolverAppliesFollows(t *testing.T) {
	resolver := NewRegistryResolver(&fakeFetcher{})

	registry, records, err := resolver.Resolve(t.Context(), []types.SourceDecl{
		{
			Name:    "provider",
			Locator: "path:/tmp/provider",
			Follows: map[string]string{"collection": "collection"},
		},
		{Name: "collection", Locator: "path:/tmp/collection"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "provider", records[0].Subject)
	assert.Equal(t, policies.ActionInputFollows, records[0].Action)
	assert.Equal(t, "digest-collection", registry["provider"].Inputs["collection"])
	assert.Nil(t, registry["collection"].Inputs)
}

func TestRegistryResolverDuplicateName(t *testing.T) {
	resolver := NewRegistryResolver(&fakeFetcher{})
	_, _, err := resolver.Resolve(t.Context(), []types.SourceDecl{
		{Name: "provider", Locator: "path:/a"},
		{Name: "provider", Locator: "path:/b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate source name")
}

func TestRegistryResolverDanglingFollow(t *testing.T) {
	resolver := NewRegistryResolver(&fakeFetcher{})
	_, _, err := resolver.Resolve(t.Context(), []types.SourceDecl{
		{
			Name:    "provider",
			Locator: "path:/tmp/provider",
			Follows: map[string]string{"collection": "missing"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared source")
}

func TestRegistryResolverFetchFailureAborts(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]error{"collection": fmt.Errorf("unreachable")}}
	resolver := NewRegistryResolver(fetcher)
	_, _, err := resolver.Resolve(t.Context(), []types.SourceDecl{
		{Name: "provider", Locator: "path:/tmp/provider"},
		{Name: "collection", Locator: "path:/tmp/collection"},
	})
	require.Error(t, err)
	// collection sorts first, so nothing else was fetched.
	assert.Empty(t, fetcher.order)
}

func TestRegistryResolverEmptyDecls(t *testing.T) {
	resolver := NewRegistryResolver(&fakeFetcher{})
	_, _, err := resolver.Resolve(t.Context(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sources declared")
}
