package types

// LockedDependency is one exact dependency pin taken from the package
// lock data and verified against the manifest and the collection.
type LockedDependency struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Checksum string `yaml:"checksum,omitempty"`
}

// BuildArtifactRef is the content-addressed result of the build recipe
// builder: the realized recipe in the store plus everything the
// derivation hash was computed over.
type BuildArtifactRef struct {
	Name           string             `yaml:"name"`
	Platform       Platform           `yaml:"platform"`
	DerivationHash string             `yaml:"derivation_hash"`
	StorePath      string             `yaml:"store_path"`
	SourceDigest   string             `yaml:"source_digest"`
	Toolchain      ToolchainHandle    `yaml:"toolchain"`
	Dependencies   []LockedDependency `yaml:"dependencies"`
}

// ResolvedTool is a shell tool resolved from the package collection.
type ResolvedTool struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	StorePath string `yaml:"store_path"`
}

// ShellDescriptor enumerates what the interactive environment needs:
// tools placed on the path in declaration order and literal environment
// variable bindings with placeholders already expanded. No building
// happens here; the descriptor only references already-resolved trees.
type ShellDescriptor struct {
	Name     string         `yaml:"name"`
	Platform Platform       `yaml:"platform"`
	Tools    []ResolvedTool `yaml:"tools"`
	Env      []EnvVar       `yaml:"env"`
}

// PlatformOutputs is one platform's complete public result: the named
// buildable packages and the dev shell.
type PlatformOutputs struct {
	Packages map[string]BuildArtifactRef `yaml:"packages"`
	DevShell ShellDescriptor             `yaml:"dev_shell"`
}

// OutputSet is the system's only externally visible entity, keyed first
// by platform and then by output name. "default" is the conventional
// package key.
type OutputSet map[Platform]PlatformOutputs

const DefaultPackageKey = "default"

// EvaluationRecord documents one policy decision taken during
// evaluation (an input override applied, a lock mode chosen). Records
// are written to the evaluation report for audit.
type EvaluationRecord struct {
	Subject string
	Action  string
	Value   string
	Detail  string
}

// EvaluationReport collects the records of a single evaluation.
type EvaluationReport struct {
	Records []EvaluationRecord
}
