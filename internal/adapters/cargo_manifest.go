package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/viper"

	"crebforge/internal/ports"
	"crebforge/internal/types"
)

const (
	manifestFileName = "Cargo.toml"
	lockFileName     = "Cargo.lock"
)

// CargoManifestAdapter reads the crate manifest and lock data the
// build recipe builder verifies. TOML decoding goes through viper in
// file mode, which keeps the dependency surface to what the CLI
// already carries.
type CargoManifestAdapter struct{}

func NewCargoManifestAdapter() CargoManifestAdapter {
	return CargoManifestAdapter{}
}

func (a CargoManifestAdapter) LoadManifest(sourcePath string) (types.PackageManifest, error) {
	path := filepath.Join(sourcePath, manifestFileName)
	if _, err := os.Stat(path); err != nil {
		return types.PackageManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no recognizable package manifest in %s", sourcePath)).
			WithCause(err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return types.PackageManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("failed to parse package manifest: %s", path)).
			WithCause(err)
	}
	manifest := types.PackageManifest{
		Name:    v.GetString("package.name"),
		Version: v.GetString("package.version"),
	}
	if manifest.Name == "" {
		return types.PackageManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("package manifest declares no package name: %s", path))
	}
	deps := v.GetStringMap("dependencies")
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		raw, err := dependencyRequirement(deps[name])
		if err != nil {
			return types.PackageManifest{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("invalid dependency declaration for %s in %s", name, path)).
				WithCause(err)
		}
		constraint := splitRequirement(name, raw)
		manifest.Dependencies = append(manifest.Dependencies, types.ManifestDependency{
			Name:       name,
			Constraint: constraint,
		})
	}
	return manifest, nil
}

func (a CargoManifestAdapter) DiscoverLock(sourcePath string) (string, bool) {
	path := filepath.Join(sourcePath, lockFileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func (a CargoManifestAdapter) LoadLock(path string) (types.LockData, error) {
	if _, err := os.Stat(path); err != nil {
		return types.LockData{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("lock file not found: %s", path)).
			WithCause(err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return types.LockData{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("failed to parse lock file: %s", path)).
			WithCause(err)
	}
	lock := types.LockData{Path: path}
	entries, ok := v.Get("package").([]interface{})
	if !ok {
		return types.LockData{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("lock file carries no package table: %s", path))
	}
	for _, entry := range entries {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		locked := types.LockedDependency{
			Name:     stringField(fields, "name"),
			Version:  stringField(fields, "version"),
			Checksum: stringField(fields, "checksum"),
		}
		if locked.Name == "" || locked.Version == "" {
			continue
		}
		lock.Packages = append(lock.Packages, locked)
	}
	sort.Slice(lock.Packages, func(i, j int) bool {
		return lock.Packages[i].Name < lock.Packages[j].Name
	})
	return lock, nil
}

// dependencyRequirement extracts the version requirement from either
// shorthand ("1.0") or table ({ version = "1.0", ... }) declarations.
func dependencyRequirement(value interface{}) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case map[string]interface{}:
		version := stringField(typed, "version")
		if version == "" {
			return "", fmt.Errorf("dependency table has no version field")
		}
		return version, nil
	default:
		return "", fmt.Errorf("unsupported dependency declaration type %T", value)
	}
}

// requirementOps mirrors the operator tokens accepted in manifest
// requirements, longest first.
var requirementOps = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpEq,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// splitRequirement turns a raw requirement ("1.0", ">=0.9") into a
// Constraint. A bare version keeps ConstraintOpNone; the verifier
// treats it as a minimum bound.
func splitRequirement(name string, raw string) types.Constraint {
	trimmed := strings.TrimSpace(raw)
	for _, op := range requirementOps {
		if strings.HasPrefix(trimmed, string(op)) {
			return types.Constraint{
				Name:    name,
				Op:      op,
				Version: strings.TrimSpace(strings.TrimPrefix(trimmed, string(op))),
				Source:  "manifest:" + name,
			}
		}
	}
	return types.Constraint{
		Name:    name,
		Op:      types.ConstraintOpNone,
		Version: trimmed,
		Source:  "manifest:" + name,
	}
}

func stringField(fields map[string]interface{}, key string) string {
	if value, ok := fields[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

var _ ports.ManifestPort = CargoManifestAdapter{}
