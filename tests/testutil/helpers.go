// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"crebforge/internal/types"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// WriteProviderTree lays out a toolchain provider source under dir:
// channels.yaml plus the component trees the manifest points at. The
// stable track maps to 1.78.0 and the release list additionally offers
// 1.70.0 for exact version pins.
func WriteProviderTree(t *testing.T, dir string, platforms ...string) {
	t.Helper()
	releases := []types.ToolchainRelease{
		providerRelease(t, dir, "1.78.0", platforms),
		providerRelease(t, dir, "1.70.0", platforms),
	}
	manifest := types.ChannelManifest{
		Channels: map[types.Channel]types.ToolchainRelease{
			types.ChannelStable: releases[0],
		},
		Releases: releases,
	}
	data, err := yaml.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channels.yaml"), data, 0644))
}

func providerRelease(t *testing.T, dir string, version string, platforms []string) types.ToolchainRelease {
	t.Helper()
	release := types.ToolchainRelease{
		Version:   version,
		Platforms: map[types.Platform]types.ToolchainComponents{},
	}
	srcRel := filepath.Join("toolchains", version, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, srcRel), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, srcRel, "lib.rs"), []byte("// stdlib\n"), 0644))
	for _, platform := range platforms {
		binRel := filepath.Join("toolchains", version, platform, "bin")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, binRel), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, binRel, "rustc"), []byte("#!/bin/sh\n"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, binRel, "cc"), []byte("#!/bin/sh\n"), 0755))
		release.Platforms[types.Platform(platform)] = types.ToolchainComponents{
			Compiler:  filepath.Join(binRel, "rustc"),
			Linker:    filepath.Join(binRel, "cc"),
			StdlibSrc: srcRel,
		}
	}
	return release
}

// WriteCollectionTree lays out a package collection source under dir:
// catalog.yaml offering serde, epub, and git builds for the given
// platforms, plus the package trees the catalog points at.
func WriteCollectionTree(t *testing.T, dir string, platforms ...string) {
	t.Helper()
	list := fmt.Sprintf("[%s]", strings.Join(platforms, ", "))
	catalog := fmt.Sprintf(`packages:
  serde:
    versions:
      "1.0.200":
        platforms: %s
        path: pkgs/serde/1.0.200
  epub:
    versions:
      "0.5.1":
        platforms: %s
        path: pkgs/epub/0.5.1
  git:
    versions:
      "2.40.1":
        platforms: %s
        path: pkgs/git/2.40.1
      "2.39.0":
        platforms: %s
        path: pkgs/git/2.39.0
`, list, list, list, list)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(catalog), 0644))
	for _, rel := range []string{
		"pkgs/serde/1.0.200",
		"pkgs/epub/0.5.1",
		"pkgs/git/2.40.1/bin",
		"pkgs/git/2.39.0/bin",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, rel), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkgs/git/2.40.1/bin/git"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkgs/git/2.39.0/bin/git"), []byte("#!/bin/sh\n"), 0755))
}

// WriteCrateTree lays out a buildable crate under dir: Cargo.toml with
// both shorthand and table dependency declarations, and the matching
// Cargo.lock.
func WriteCrateTree(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	manifest := `[package]
name = "creb"
version = "0.1.0"
edition = "2021"

[dependencies]
serde = "1.0"
epub = { version = "0.5", features = ["reader"] }
`
	lock := `version = 3

[[package]]
name = "creb"
version = "0.1.0"

[[package]]
name = "epub"
version = "0.5.1"
checksum = "3f0c7d4b9a1e"

[[package]]
name = "serde"
version = "1.0.200"
checksum = "8b9f2a6c1d5e"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.lock"), []byte(lock), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.rs"), []byte("fn main() {}\n"), 0644))
}

// WriteDescriptor writes a crebforge.yaml under dir wiring the
// provider, collection, and crate trees together, and returns its path.
// The provider follows the collection so both resolve to the same
// snapshot.
func WriteDescriptor(t *testing.T, dir string, channel string, platforms ...string) string {
	t.Helper()
	descriptor := fmt.Sprintf(`api_version: crebforge/v1
kind: project
metadata:
  name: creb
  version: "0.1.0"
  owners: [platform-team]
platforms: [%s]
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
  channel: "%s"
package:
  name: creb
  source: crate
shell:
  tools:
    - git>=2.40
  env:
    - name: RUST_SRC_PATH
      value: ${toolchain.stdlib_src}
    - name: COLLECTION_ROOT
      value: ${source:package-collection}
`, strings.Join(platforms, ", "), channel)
	path := filepath.Join(dir, "crebforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(descriptor), 0644))
	return path
}

// WriteProjectFixture builds a complete evaluatable project under dir
// and returns the descriptor path.
func WriteProjectFixture(t *testing.T, dir string, channel string, platforms ...string) string {
	t.Helper()
	WriteProviderTree(t, filepath.Join(dir, "provider"), platforms...)
	WriteCollectionTree(t, filepath.Join(dir, "collection"), platforms...)
	WriteCrateTree(t, filepath.Join(dir, "crate"))
	return WriteDescriptor(t, dir, channel, platforms...)
}
