package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crebforge/internal/types"
)

const testDescriptorYAML = `api_version: crebforge/v1
kind: project
metadata:
  name: creb
  version: "0.1.0"
  owners: [platform-team]
platforms: [x86_64-linux]
sources:
  - name: toolchain-provider
    locator: path:provider
    follows:
      collection: package-collection
  - name: package-collection
    locator: path:collection
toolchain:
  provider: toolchain-provider
  collection: package-collection
  channel: stable
package:
  name: creb
  source: crate
shell:
  tools: [git>=2.40]
`

func TestDescriptorFileAdapterLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crebforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDescriptorYAML), 0644))

	descriptor, err := NewDescriptorFileAdapter().LoadDescriptor(path)
	require.NoError(t, err)
	assert.Equal(t, types.DescriptorKindProject, descriptor.Kind)
	assert.Equal(t, "creb", descriptor.Metadata.Name)
	require.Len(t, descriptor.Sources, 2)
	assert.Equal(t, "package-collection", descriptor.Sources[0].Follows["collection"])
	assert.Equal(t, types.ChannelStable, descriptor.Toolchain.Channel)
	assert.Equal(t, []string{"git>=2.40"}, descriptor.Shell.Tools)
}

func TestDescriptorFileAdapterMissingFile(t *testing.T) {
	_, err := NewDescriptorFileAdapter().LoadDescriptor(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDescriptorFileAdapterInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crebforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: [broken\n"), 0644))

	_, err := NewDescriptorFileAdapter().LoadDescriptor(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse descriptor")
}
