package types

// Platform is an opaque architecture+OS identifier such as
// "x86_64-linux". Every per-platform artifact is produced once per
// declared platform; platforms never share intermediate state.
type Platform string

// PinnedSource is the fetched-and-pinned resolution of a SourceDecl.
// StorePath roots the unpacked tree inside the content-addressed store;
// Digest is the blake3 tree digest the store path is derived from.
// Inputs records, per overridden input name, the digest of the declared
// source the input was redirected to follow.
type PinnedSource struct {
	Name      string            `json:"name"`
	Locator   string            `json:"locator"`
	Digest    string            `json:"digest"`
	StorePath string            `json:"storePath"`
	Inputs    map[string]string `json:"inputs,omitempty"`
}

// Registry maps symbolic source names to their pinned resolutions. It
// is resolved exactly once per evaluation and never mutated afterwards.
type Registry map[string]PinnedSource

// SourceLock is the serialized form of a resolved Registry, written as
// sources.lock. Version identifies the lock format.
type SourceLock struct {
	Version int                     `json:"version"`
	Sources map[string]PinnedSource `json:"sources"`
}

const SourceLockVersion = 1
