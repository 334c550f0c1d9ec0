package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"crebforge/internal/types"
)

// SelectToolchain resolves a channel to a concrete ToolchainHandle for
// one platform. The same (provider digest, platform, channel) triple
// always yields the same handle: component paths are rooted in the
// provider's pinned store tree and the handle digest is derived from
// the pin, not from when the selection ran.
func SelectToolchain(ctx context.Context, provider types.PinnedSource, manifest types.ChannelManifest, platform types.Platform, channel types.Channel) (types.ToolchainHandle, error) {
	release, err := findRelease(manifest, channel)
	if err != nil {
		return types.ToolchainHandle{}, err
	}
	components, ok := release.Platforms[platform]
	if !ok {
		return types.ToolchainHandle{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("toolchain %s %s is not available for platform %s", channel, release.Version, platform))
	}
	if components.Compiler == "" || components.StdlibSrc == "" {
		return types.ToolchainHandle{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("toolchain release %s has incomplete components for %s", release.Version, platform))
	}
	handle := types.ToolchainHandle{
		Platform:      platform,
		Channel:       channel,
		Version:       release.Version,
		CompilerPath:  filepath.Join(provider.StorePath, components.Compiler),
		LinkerPath:    filepath.Join(provider.StorePath, components.Linker),
		StdlibSrcPath: filepath.Join(provider.StorePath, components.StdlibSrc),
		Digest:        toolchainDigest(provider.Digest, platform, release.Version),
	}
	log.Ctx(ctx).Debug().
		Str("platform", string(platform)).
		Str("channel", string(channel)).
		Str("version", release.Version).
		Msg("toolchain selected")
	return handle, nil
}

func findRelease(manifest types.ChannelManifest, channel types.Channel) (types.ToolchainRelease, error) {
	if channel.IsTrack() {
		release, ok := manifest.Channels[channel]
		if !ok {
			return types.ToolchainRelease{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("toolchain channel not published by provider: %s", channel))
		}
		return release, nil
	}
	cache := newVersionCache()
	for _, release := range manifest.Releases {
		if sameRelease(cache, release.Version, string(channel)) {
			return release, nil
		}
	}
	return types.ToolchainRelease{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("pinned toolchain version not published by provider: %s", channel))
}

func toolchainDigest(providerDigest string, platform types.Platform, version string) string {
	var builder strings.Builder
	builder.WriteString(providerDigest)
	builder.WriteString("\n")
	builder.WriteString(string(platform))
	builder.WriteString("\n")
	builder.WriteString(version)
	builder.WriteString("\n")
	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}
