package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crebforge/internal/types"
)

func testManifest() types.ChannelManifest {
	stable := types.ToolchainRelease{
		Version: "1.78.0",
		Platforms: map[types.Platform]types.ToolchainComponents{
			"x86_64-linux": {
				Compiler:  "toolchains/1.78.0/x86_64-linux/bin/rustc",
				Linker:    "toolchains/1.78.0/x86_64-linux/bin/cc",
				StdlibSrc: "toolchains/1.78.0/src",
			},
		},
	}
	older := types.ToolchainRelease{
		Version: "1.70.0",
		Platforms: map[types.Platform]types.ToolchainComponents{
			"x86_64-linux": {
				Compiler:  "toolchains/1.70.0/x86_64-linux/bin/rustc",
				Linker:    "toolchains/1.70.0/x86_64-linux/bin/cc",
				StdlibSrc: "toolchains/1.70.0/src",
			},
		},
	}
	return types.ChannelManifest{
		Channels: map[types.Channel]types.ToolchainRelease{types.ChannelStable: stable},
		Releases: []types.ToolchainRelease{stable, older},
	}
}

func testProvider() types.PinnedSource {
	return types.PinnedSource{
		Name:      "toolchain-provider",
		Digest:    "abc123",
		StorePath: "/store/abc123-toolchain-provider",
	}
}

func TestSelectToolchainStableTrack(t *testing.T) {
	handle, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "x86_64-linux", types.ChannelStable)
	require.NoError(t, err)
	assert.Equal(t, "1.78.0", handle.Version)
	assert.Equal(t, "/store/abc123-toolchain-provider/toolchains/1.78.0/x86_64-linux/bin/rustc", handle.CompilerPath)
	assert.Equal(t, "/store/abc123-toolchain-provider/toolchains/1.78.0/src", handle.StdlibSrcPath)
	assert.NotEmpty(t, handle.Digest)
}

func TestSelectToolchainExactVersionPin(t *testing.T) {
	handle, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "x86_64-linux", "1.70.0")
	require.NoError(t, err)
	assert.Equal(t, "1.70.0", handle.Version)
}

func TestSelectToolchainDeterministicDigest(t *testing.T) {
	first, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "x86_64-linux", types.ChannelStable)
	require.NoError(t, err)
	second, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "x86_64-linux", types.ChannelStable)
	require.NoError(t, err)
	assert.Equal(t, first.Digest, second.Digest)
}

func TestSelectToolchainDigestVariesWithProviderPin(t *testing.T) {
	first, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "x86_64-linux", types.ChannelStable)
	require.NoError(t, err)

	moved := testProvider()
	moved.Digest = "def456"
	second, err := SelectToolchain(t.Context(), moved, testManifest(), "x86_64-linux", types.ChannelStable)
	require.NoError(t, err)
	assert.NotEqual(t, first.Digest, second.Digest)
}

func TestSelectToolchainUnknownTrack(t *testing.T) {
	_, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "x86_64-linux", types.ChannelNightly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel not published")
}

func TestSelectToolchainUnknownVersionPin(t *testing.T) {
	_, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "x86_64-linux", "9.9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not published by provider")
}

func TestSelectToolchainMissingPlatform(t *testing.T) {
	_, err := SelectToolchain(t.Context(), testProvider(), testManifest(), "aarch64-darwin", types.ChannelStable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available for platform")
}
