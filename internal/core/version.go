package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"crebforge/internal/types"
)

// versionCache memoizes parsed version objects to avoid repeated
// parsing during constraint evaluation and sorting. Locked package
// versions use Debian ordering; shell tool specifiers use PEP 440.
type versionCache struct {
	deb  map[string]debversion.Version
	pep  map[string]pep440.Version
	spec map[string]pep440.Specifiers
}

func newVersionCache() *versionCache {
	return &versionCache{
		deb:  map[string]debversion.Version{},
		pep:  map[string]pep440.Version{},
		spec: map[string]pep440.Specifiers{},
	}
}

func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepSpec(value string) (pep440.Specifiers, error) {
	if parsed, ok := c.spec[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.NewSpecifiers(value)
	if err != nil {
		return pep440.Specifiers{}, err
	}
	c.spec[value] = parsed
	return parsed, nil
}

// sameRelease reports whether two version strings denote the same
// release under Debian version semantics.
func sameRelease(cache *versionCache, a string, b string) bool {
	v1, err := cache.debVersion(a)
	if err != nil {
		return a == b
	}
	v2, err := cache.debVersion(b)
	if err != nil {
		return a == b
	}
	return v1.Equal(v2)
}

// lockedSatisfies checks a locked version against a manifest
// constraint. A bare "1.0" manifest declaration is treated as a
// minimum bound (>=1.0); explicit operators are honored as written.
func lockedSatisfies(cache *versionCache, locked string, constraint types.Constraint) (bool, error) {
	op := constraint.Op
	if op == types.ConstraintOpNone {
		if constraint.Version == "" {
			return true, nil
		}
		op = types.ConstraintOpGte
	}
	v, err := cache.debVersion(locked)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unparsable locked version for %s: %s", constraint.Name, locked)).
			WithCause(err)
	}
	c, err := cache.debVersion(constraint.Version)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unparsable constraint version for %s: %s", constraint.Name, constraint.Version)).
			WithCause(err)
	}
	switch op {
	case types.ConstraintOpEq, types.ConstraintOpEq2:
		return v.Equal(c), nil
	case types.ConstraintOpNe:
		return !v.Equal(c), nil
	case types.ConstraintOpGte:
		return v.GreaterThan(c) || v.Equal(c), nil
	case types.ConstraintOpLte:
		return v.LessThan(c) || v.Equal(c), nil
	case types.ConstraintOpGt:
		return v.GreaterThan(c), nil
	case types.ConstraintOpLt:
		return v.LessThan(c), nil
	default:
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported constraint operator")
	}
}

// bestToolVersion selects the highest available version satisfying a
// shell tool specifier, under PEP 440 ordering and semantics.
func bestToolVersion(constraint types.Constraint, available []string) (string, error) {
	if len(available) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no available versions for %s", constraint.Name))
	}
	cache := newVersionCache()
	var specs pep440.Specifiers
	if constraint.Op != types.ConstraintOpNone {
		parsed, err := cache.pepSpec(toPep440Spec(constraint))
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid tool specifier for %s", constraint.Name)).
				WithCause(err)
		}
		specs = parsed
	}
	var candidates []string
	for _, version := range available {
		parsed, err := cache.pepVersion(version)
		if err != nil {
			continue
		}
		if constraint.Op != types.ConstraintOpNone && !specs.Check(parsed) {
			continue
		}
		candidates = append(candidates, version)
	}
	if len(candidates) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no compatible version for %s", constraint.Name))
	}
	sort.Slice(candidates, func(i, j int) bool {
		v1, err1 := cache.pepVersion(candidates[i])
		v2, err2 := cache.pepVersion(candidates[j])
		if err1 != nil || err2 != nil {
			return candidates[i] > candidates[j]
		}
		return v1.Compare(v2) > 0
	})
	return candidates[0], nil
}

// toPep440Spec converts an internal constraint to a PEP 440 specifier
// string (e.g. ">= 1.0", "~= 2.3").
func toPep440Spec(constraint types.Constraint) string {
	op := string(constraint.Op)
	switch constraint.Op {
	case types.ConstraintOpEq, types.ConstraintOpEq2:
		op = "=="
	case types.ConstraintOpNe:
		op = "!="
	case types.ConstraintOpCompat:
		op = "~="
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", op, constraint.Version))
}
