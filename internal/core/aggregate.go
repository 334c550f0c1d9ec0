package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crebforge/internal/types"
)

// AggregateOutputs folds per-platform results into the final OutputSet.
// A pure structural merge with one invariant: every declared platform
// must appear with both a default package and a dev shell. A gap is an
// evaluation bug, surfaced as an internal error rather than a partial
// result.
func AggregateOutputs(platforms []types.Platform, results map[types.Platform]types.PlatformOutputs) (types.OutputSet, error) {
	set := types.OutputSet{}
	for _, platform := range platforms {
		outputs, ok := results[platform]
		if !ok {
			return nil, coverageError(platform, "no outputs produced")
		}
		artifact, ok := outputs.Packages[types.DefaultPackageKey]
		if !ok || artifact.DerivationHash == "" {
			return nil, coverageError(platform, "packages.default missing")
		}
		if outputs.DevShell.Name == "" {
			return nil, coverageError(platform, "devShell missing")
		}
		set[platform] = outputs
	}
	return set, nil
}

func coverageError(platform types.Platform, detail string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("incomplete outputs for platform %s: %s", platform, detail))
}
