package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"crebforge/internal/ports"
	"crebforge/internal/types"
)

// channelManifestFile is the index a toolchain provider publishes at
// the root of its source tree.
const channelManifestFile = "channels.yaml"

type ToolchainManifestAdapter struct{}

func NewToolchainManifestAdapter() ToolchainManifestAdapter {
	return ToolchainManifestAdapter{}
}

func (a ToolchainManifestAdapter) LoadManifest(pinned types.PinnedSource) (types.ChannelManifest, error) {
	path := filepath.Join(pinned.StorePath, channelManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ChannelManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("toolchain provider %s publishes no channel manifest", pinned.Name)).
			WithCause(err)
	}
	var manifest types.ChannelManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return types.ChannelManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse channel manifest of %s", pinned.Name)).
			WithCause(err)
	}
	if len(manifest.Channels) == 0 && len(manifest.Releases) == 0 {
		return types.ChannelManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("channel manifest of %s is empty", pinned.Name))
	}
	return manifest, nil
}

var _ ports.ToolchainManifestPort = ToolchainManifestAdapter{}
