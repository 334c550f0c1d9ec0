package types

// ToolchainHandle is the resolved compiler bundle for one platform and
// channel. Paths are absolute, rooted inside the provider's pinned
// store tree. Immutable once resolved; shared read-only between the
// recipe builder and the shell builder of the same platform.
type ToolchainHandle struct {
	Platform      Platform `yaml:"platform"`
	Channel       Channel  `yaml:"channel"`
	Version       string   `yaml:"version"`
	CompilerPath  string   `yaml:"compiler"`
	LinkerPath    string   `yaml:"linker"`
	StdlibSrcPath string   `yaml:"stdlib_src"`
	Digest        string   `yaml:"digest"`
}

// ToolchainComponents locates one release's binaries and stdlib source
// relative to the provider tree, per platform.
type ToolchainComponents struct {
	Compiler  string `yaml:"compiler"`
	Linker    string `yaml:"linker"`
	StdlibSrc string `yaml:"stdlib_src"`
}

// ToolchainRelease is one versioned toolchain build offered by the
// provider, with per-platform component paths.
type ToolchainRelease struct {
	Version   string                           `yaml:"version"`
	Platforms map[Platform]ToolchainComponents `yaml:"platforms"`
}

// ChannelManifest is the provider's published index: named tracks
// pointing at a release, plus the full release list for exact pins.
// The manifest lives at channels.yaml inside the provider source tree.
type ChannelManifest struct {
	Channels map[Channel]ToolchainRelease `yaml:"channels"`
	Releases []ToolchainRelease           `yaml:"releases,omitempty"`
}
