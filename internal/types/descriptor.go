package types

type Metadata struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Owners      []string `yaml:"owners"`
	Description string   `yaml:"description,omitempty"`
}

// DescriptorDefaults provides project-level defaults that the CLI and
// application layer use when a value is not explicitly provided via
// flags or environment variables.
type DescriptorDefaults struct {
	Store  string `yaml:"store,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// SourceDecl declares one pinned external source: a symbolic name and a
// dereferenceable locator. Supported locator schemes are "path:<dir>"
// for local trees and "http(s)://.../*.tar.gz" for remote archives.
//
// Follows redirects one of the source's named inputs to reuse another
// declared source's resolution instead of fetching independently. This
// is how a toolchain provider is held to the same package-collection
// snapshot used elsewhere in the descriptor.
type SourceDecl struct {
	Name    string            `yaml:"name"`
	Locator string            `yaml:"locator"`
	Follows map[string]string `yaml:"follows,omitempty"`
}

// ToolchainSpec names the sources that play the provider and collection
// roles and selects a release channel. Channel accepts the named tracks
// (stable, beta, nightly) or an exact version pin.
type ToolchainSpec struct {
	Provider   string  `yaml:"provider"`
	Collection string  `yaml:"collection"`
	Channel    Channel `yaml:"channel"`
}

// PackageSpec describes the package the descriptor builds: a name, a
// local source path holding the manifest, and the lock file policy.
//
// LockMode defaults to "pinned" when LockFile is set and "embedded"
// otherwise; setting it explicitly makes the reproducibility trade-off
// visible in the descriptor rather than implied by field presence.
type PackageSpec struct {
	Name     string   `yaml:"name"`
	Source   string   `yaml:"source"`
	LockFile string   `yaml:"lock_file,omitempty"`
	LockMode LockMode `yaml:"lock_mode,omitempty"`
}

type EnvVar struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ShellSpec describes the interactive development shell: an ordered
// list of tool specifiers (e.g. "git>=2.40") resolved from the package
// collection, plus literal environment variable bindings. Values may
// reference the resolved evaluation through ${toolchain.compiler},
// ${toolchain.linker}, ${toolchain.stdlib_src}, ${toolchain.version},
// and ${source:<name>} placeholders.
type ShellSpec struct {
	Name  string   `yaml:"name,omitempty"`
	Tools []string `yaml:"tools"`
	Env   []EnvVar `yaml:"env,omitempty"`
}

// Descriptor is the top-level structure of a crebforge.yaml file. It is
// the system's only configuration surface: pinned sources, target
// platforms, the toolchain selection, the package to build, and the
// dev shell composition.
type Descriptor struct {
	APIVersion string             `yaml:"api_version"`
	Kind       DescriptorKind     `yaml:"kind"`
	Metadata   Metadata           `yaml:"metadata"`
	Defaults   DescriptorDefaults `yaml:"defaults,omitempty"`
	Sources    []SourceDecl       `yaml:"sources"`
	Platforms  []string           `yaml:"platforms"`
	Toolchain  ToolchainSpec      `yaml:"toolchain"`
	Package    PackageSpec        `yaml:"package"`
	Shell      ShellSpec          `yaml:"shell"`
}

// EffectiveLockMode resolves the lock mode defaulting rule.
func (p PackageSpec) EffectiveLockMode() LockMode {
	if p.LockMode != "" {
		return p.LockMode
	}
	if p.LockFile != "" {
		return LockModePinned
	}
	return LockModeEmbedded
}
