package adapters

import (
	"archive/tar"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/gzip"
	"github.com/zeebo/blake3"

	"crebforge/internal/ports"
	"crebforge/internal/shared"
	"crebforge/internal/types"
)

// SourceFetchAdapter dereferences source locators into a local
// content-addressed store. Supported schemes:
//
//	path:<dir>          a local tree, copied into the store
//	http(s)://...       a gzip-compressed tarball, unpacked into the store
//
// The store key is the blake3 digest of the unpacked tree, so fetching
// the same content twice lands on the same store path and repeat
// fetches of an already-stored tree are served locally.
type SourceFetchAdapter struct {
	StoreDir string
	Client   *http.Client
}

func NewSourceFetchAdapter(storeDir string) *SourceFetchAdapter {
	return &SourceFetchAdapter{
		StoreDir: storeDir,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *SourceFetchAdapter) Fetch(ctx context.Context, name string, locator string) (types.PinnedSource, error) {
	if a.StoreDir == "" {
		return types.PinnedSource{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("store directory is empty")
	}
	var (
		tree string
		err  error
	)
	switch {
	case strings.HasPrefix(locator, "path:"):
		tree = strings.TrimPrefix(locator, "path:")
		if _, statErr := os.Stat(tree); statErr != nil {
			return types.PinnedSource{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("source locator does not resolve: %s", locator)).
				WithCause(statErr)
		}
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		tmp, downloadErr := a.download(ctx, locator)
		if downloadErr != nil {
			return types.PinnedSource{}, downloadErr
		}
		// Remove the whole staging dir, not just the unwrapped subtree.
		defer os.RemoveAll(tmp)
		tree, err = archiveRoot(tmp)
		if err != nil {
			return types.PinnedSource{}, storeError(tmp, err)
		}
	default:
		return types.PinnedSource{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported source locator scheme: %s", locator))
	}

	digest, err := a.DigestTree(tree)
	if err != nil {
		return types.PinnedSource{}, err
	}
	storePath, err := a.install(tree, digest, name)
	if err != nil {
		return types.PinnedSource{}, err
	}
	return types.PinnedSource{
		Name:      name,
		Locator:   locator,
		Digest:    digest,
		StorePath: storePath,
	}, nil
}

// DigestTree computes the blake3 digest of a tree: relative paths and
// file contents, in sorted walk order. Directory layout is part of the
// digest; timestamps and ownership are not.
func (a *SourceFetchAdapter) DigestTree(root string) (string, error) {
	hasher := blake3.New()
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hasher.Write([]byte(filepath.ToSlash(rel)))
		hasher.Write([]byte{0})
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if _, err := io.Copy(hasher, file); err != nil {
			return err
		}
		hasher.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to digest tree: %s", root)).
			WithCause(err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// install copies the tree into the store under its digest-derived name.
// An existing store entry is trusted and reused untouched.
func (a *SourceFetchAdapter) install(tree string, digest string, name string) (string, error) {
	target := filepath.Join(a.StoreDir, fmt.Sprintf("%s-%s", shared.ShortDigest(digest), shared.NormalizeSourceName(name)))
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	staging := target + ".tmp"
	if err := os.RemoveAll(staging); err != nil {
		return "", storeError(target, err)
	}
	if err := copyTree(tree, staging); err != nil {
		return "", storeError(target, err)
	}
	if err := os.Rename(staging, target); err != nil {
		return "", storeError(target, err)
	}
	return target, nil
}

func (a *SourceFetchAdapter) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid source locator: %s", url)).
			WithCause(err)
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg(fmt.Sprintf("failed to fetch source: %s", url)).
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("source fetch returned an error status").
			WithCause(shared.HTTPStatusError(resp.StatusCode, url))
	}

	tmp, err := os.MkdirTemp(a.StoreDir, "fetch-")
	if err != nil {
		return "", storeError(a.StoreDir, err)
	}
	if err := extractTarGz(resp.Body, tmp); err != nil {
		os.RemoveAll(tmp)
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to unpack source archive: %s", url)).
			WithCause(err)
	}
	return tmp, nil
}

// archiveRoot unwraps the single top-level directory convention of
// release tarballs; anything else is used as-is.
func archiveRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()
	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		rel := filepath.Clean(header.Name)
		if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
			continue
		}
		target := filepath.Join(dest, rel)
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(file, reader); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
		}
	}
}

func copyTree(src string, dest string) error {
	entries := []string{}
	err := filepath.WalkDir(src, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		entries = append(entries, path)
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(entries)
	for _, path := range entries {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, info.Mode()&0777); err != nil {
			return err
		}
	}
	return nil
}

func storeError(path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("store operation failed: %s", path)).
		WithCause(err)
}

var (
	_ ports.SourceFetchPort = (*SourceFetchAdapter)(nil)
	_ ports.TreeDigestPort  = (*SourceFetchAdapter)(nil)
)
