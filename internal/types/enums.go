package types

// Channel is a toolchain release track. Besides the named tracks, a
// channel may be an exact version string (e.g. "1.78.0"), which pins
// the toolchain to a specific release from the provider's release list.
type Channel string

const (
	ChannelStable  Channel = "stable"
	ChannelBeta    Channel = "beta"
	ChannelNightly Channel = "nightly"
)

// IsTrack reports whether the channel is one of the named release
// tracks as opposed to an exact pinned version.
func (c Channel) IsTrack() bool {
	switch c {
	case ChannelStable, ChannelBeta, ChannelNightly:
		return true
	default:
		return false
	}
}

// LockMode controls where the build recipe builder takes its dependency
// lock data from.
type LockMode string

const (
	// LockModeEmbedded trusts lock discovery inside the package source
	// tree (the builder finds the lock file next to the manifest).
	LockModeEmbedded LockMode = "embedded"

	// LockModePinned requires an explicit external lock file reference
	// and fails when it is absent.
	LockModePinned LockMode = "pinned"
)

type DescriptorKind string

const (
	DescriptorKindProject DescriptorKind = "project"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)
