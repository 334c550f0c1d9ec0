package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crebforge/internal/types"
)

// opRunes are the characters an operator in a tool specifier such as
// "git>=2.40" can be built from.
const opRunes = "<>=!~"

// specifierOps maps an operator token onto its parsed form. Lookup by
// the full token keeps typos like "git=>2.40" from parsing as a
// different operator by accident.
var specifierOps = map[string]types.ConstraintOp{
	"=":  types.ConstraintOpEq,
	"==": types.ConstraintOpEq2,
	"!=": types.ConstraintOpNe,
	"~=": types.ConstraintOpCompat,
	">=": types.ConstraintOpGte,
	"<=": types.ConstraintOpLte,
	">":  types.ConstraintOpGt,
	"<":  types.ConstraintOpLt,
}

// ParseConstraint parses a "<name><op><version>" specifier into a
// Constraint. A specifier without an operator is a bare name reference:
// any offered version satisfies it. Source records where the specifier
// was declared, for diagnostics only.
func ParseConstraint(raw string, source string) (types.Constraint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Constraint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty constraint")
	}
	start := strings.IndexAny(raw, opRunes)
	if start < 0 {
		return types.Constraint{
			Name:   raw,
			Op:     types.ConstraintOpNone,
			Source: source,
		}, nil
	}
	end := start
	for end < len(raw) && strings.ContainsRune(opRunes, rune(raw[end])) {
		end++
	}
	op, known := specifierOps[raw[start:end]]
	name := strings.TrimSpace(raw[:start])
	version := strings.TrimSpace(raw[end:])
	if !known || name == "" || version == "" {
		return types.Constraint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid constraint: %s", raw))
	}
	return types.Constraint{
		Name:    name,
		Op:      op,
		Version: version,
		Source:  source,
	}, nil
}
