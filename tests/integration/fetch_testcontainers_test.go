//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"crebforge/internal/adapters"
)

// tarballServerScript builds a release-style tarball (single top-level
// directory) inside the container and serves it over HTTP.
const tarballServerScript = `import os, tarfile
root = "/srv/release/provider-1.0"
os.makedirs(os.path.join(root, "toolchains", "1.78.0", "src"), exist_ok=True)
with open(os.path.join(root, "channels.yaml"), "w") as f:
    f.write("channels:\n  stable: 1.78.0\n")
with open(os.path.join(root, "toolchains", "1.78.0", "src", "lib.rs"), "w") as f:
    f.write("// stdlib sources\n")
os.makedirs("/srv/www", exist_ok=True)
with tarfile.open("/srv/www/provider.tar.gz", "w:gz") as tar:
    tar.add(root, arcname="provider-1.0")
os.execvp("python", ["python", "-m", "http.server", "8081", "--directory", "/srv/www"])
`

func startTarballServer(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8081/tcp"},
		Cmd:          []string{"python", "-c", tarballServerScript},
		WaitingFor:   wait.ForListeningPort("8081/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8081/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}

func TestFetchHTTPTarballWithTestcontainers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers integration in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startTarballServer(ctx, t)
	t.Cleanup(cleanup)

	storeDir := t.TempDir()
	adapter := adapters.NewSourceFetchAdapter(storeDir)

	locator := endpoint + "/provider.tar.gz"
	pinned, err := adapter.Fetch(ctx, "toolchain-provider", locator)
	require.NoError(t, err)
	assert.Equal(t, "toolchain-provider", pinned.Name)
	assert.Equal(t, locator, pinned.Locator)
	assert.NotEmpty(t, pinned.Digest)

	// The top-level directory of the release tarball is unwrapped.
	assert.FileExists(t, filepath.Join(pinned.StorePath, "channels.yaml"))
	assert.FileExists(t, filepath.Join(pinned.StorePath, "toolchains", "1.78.0", "src", "lib.rs"))

	// The digest is content-addressed: a local tree with the same layout
	// and bytes hashes to the same value the fetch pinned.
	local := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(local, "toolchains", "1.78.0", "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(local, "channels.yaml"),
		[]byte("channels:\n  stable: 1.78.0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(local, "toolchains", "1.78.0", "src", "lib.rs"),
		[]byte("// stdlib sources\n"), 0644))
	localDigest, err := adapter.DigestTree(local)
	require.NoError(t, err)
	assert.Equal(t, localDigest, pinned.Digest)

	// A repeat fetch of pinned content is served from the store.
	again, err := adapter.Fetch(ctx, "toolchain-provider", locator)
	require.NoError(t, err)
	assert.Equal(t, pinned.StorePath, again.StorePath)
	assert.Equal(t, pinned.Digest, again.Digest)
}
