package policies

import (
	"fmt"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crebforge/internal/types"
)

// LockPolicy turns the descriptor's lock file configuration into an
// explicit PackageDescriptor choice. The two states carry different
// reproducibility guarantees and are never chosen silently:
//
//   - embedded: the builder trusts lock discovery inside the package
//     source tree; reproducibility depends on the source shipping its
//     own lock data.
//   - pinned: an external lock file reference overrides whatever the
//     source carries; the reference must be present.
type LockPolicy struct{}

func NewLockPolicy() LockPolicy {
	return LockPolicy{}
}

// ValidateSpec rejects incoherent lock configurations at descriptor
// compile time.
func (LockPolicy) ValidateSpec(spec types.PackageSpec) error {
	switch spec.LockMode {
	case "", types.LockModeEmbedded, types.LockModePinned:
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package lock_mode must be embedded or pinned: %s", spec.LockMode))
	}
	if spec.LockMode == types.LockModePinned && spec.LockFile == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package lock_mode pinned requires lock_file")
	}
	if spec.LockMode == types.LockModeEmbedded && spec.LockFile != "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package lock_mode embedded contradicts an explicit lock_file")
	}
	return nil
}

// Descriptor builds the immutable PackageDescriptor consumed by the
// recipe builder, resolving relative paths against baseDir and
// recording which lock state was chosen.
func (p LockPolicy) Descriptor(spec types.PackageSpec, baseDir string) (types.PackageDescriptor, types.EvaluationRecord, error) {
	if err := p.ValidateSpec(spec); err != nil {
		return types.PackageDescriptor{}, types.EvaluationRecord{}, err
	}
	desc := types.PackageDescriptor{
		Name:       spec.Name,
		SourcePath: resolvePath(baseDir, spec.Source),
		LockMode:   spec.EffectiveLockMode(),
	}
	if desc.LockMode == types.LockModePinned {
		desc.LockFile = &types.LockFileRef{Path: resolvePath(baseDir, spec.LockFile)}
		return desc, types.EvaluationRecord{
			Subject: spec.Name,
			Action:  ActionLockPinned,
			Value:   spec.LockFile,
			Detail:  "external lock file pin overrides embedded lock discovery",
		}, nil
	}
	return desc, types.EvaluationRecord{
		Subject: spec.Name,
		Action:  ActionLockEmbedded,
		Detail:  "builder trusts lock discovery inside the package source",
	}, nil
}

func resolvePath(baseDir string, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
