package types

// Constraint is a single parsed version constraint attached to a
// dependency name. Source records where the constraint came from
// (manifest, lock pin, shell spec) for diagnostics.
type Constraint struct {
	Name    string
	Op      ConstraintOp
	Version string
	Source  string
}

// ManifestDependency is one dependency declared by the package
// manifest, before lock verification.
type ManifestDependency struct {
	Name       string
	Constraint Constraint
}

// PackageManifest is the parsed package manifest (Cargo.toml for the
// packages this tool was built around).
type PackageManifest struct {
	Name         string
	Version      string
	Dependencies []ManifestDependency
}

// LockData is the parsed dependency lock: exact versions the builder
// verifies against the manifest and the package collection.
type LockData struct {
	Path     string
	Packages []LockedDependency
}

// PackageDescriptor is the recipe builder's input: constructed once at
// evaluation time, never mutated, consumed exactly once.
type PackageDescriptor struct {
	Name       string
	SourcePath string
	LockMode   LockMode

	// LockFile is the optional external lock pin. Nil means the
	// builder trusts its own lock discovery inside SourcePath.
	LockFile *LockFileRef
}

// LockFileRef points at an explicit external lock file.
type LockFileRef struct {
	Path string
}

// CatalogEntry is one installable package build offered by the package
// collection for a specific version and platform.
type CatalogEntry struct {
	Name      string
	Version   string
	StorePath string
}
