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

// catalogIndexFile is the index a package collection publishes at the
// root of its source tree.
const catalogIndexFile = "catalog.yaml"

type catalogIndex struct {
	Packages map[string]catalogPackage `yaml:"packages"`
}

type catalogPackage struct {
	Versions map[string]catalogBuild `yaml:"versions"`
}

type catalogBuild struct {
	Platforms []string `yaml:"platforms"`
	Path      string   `yaml:"path"`
}

// CollectionFileAdapter opens platform-scoped catalog views over a
// pinned package collection tree.
type CollectionFileAdapter struct{}

func NewCollectionFileAdapter() CollectionFileAdapter {
	return CollectionFileAdapter{}
}

func (a CollectionFileAdapter) Open(pinned types.PinnedSource, platform types.Platform) (ports.CatalogPort, error) {
	path := filepath.Join(pinned.StorePath, catalogIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package collection %s publishes no catalog", pinned.Name)).
			WithCause(err)
	}
	var index catalogIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse catalog of %s", pinned.Name)).
			WithCause(err)
	}
	return catalogView{pinned: pinned, platform: platform, index: index}, nil
}

type catalogView struct {
	pinned   types.PinnedSource
	platform types.Platform
	index    catalogIndex
}

func (v catalogView) Platform() types.Platform {
	return v.platform
}

func (v catalogView) AvailableVersions(name string) ([]string, error) {
	pkg, ok := v.index.Packages[name]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package collection does not offer %s", name))
	}
	var versions []string
	for version, build := range pkg.Versions {
		if build.supports(v.platform) {
			versions = append(versions, version)
		}
	}
	return versions, nil
}

func (v catalogView) Entry(name string, version string) (types.CatalogEntry, error) {
	pkg, ok := v.index.Packages[name]
	if !ok {
		return types.CatalogEntry{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package collection does not offer %s", name))
	}
	build, ok := pkg.Versions[version]
	if !ok {
		return types.CatalogEntry{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package collection does not offer %s %s", name, version))
	}
	if !build.supports(v.platform) {
		return types.CatalogEntry{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package %s %s is not built for %s", name, version, v.platform))
	}
	return types.CatalogEntry{
		Name:      name,
		Version:   version,
		StorePath: filepath.Join(v.pinned.StorePath, build.Path),
	}, nil
}

func (b catalogBuild) supports(platform types.Platform) bool {
	for _, candidate := range b.Platforms {
		if types.Platform(candidate) == platform {
			return true
		}
	}
	return false
}

var _ ports.CollectionPort = CollectionFileAdapter{}
