package policies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crebforge/internal/types"
)

const (
	ActionInputFollows = "input-follows"
	ActionLockEmbedded = "lock-embedded"
	ActionLockPinned   = "lock-pinned"
)

// OverridePolicy validates and applies the `follows` input overrides of
// a declared source set. An override redirects a source's named input
// to another declared source's resolution; dangling targets and cycles
// are authoring defects rejected before any fetch happens.
type OverridePolicy struct {
	decls map[string]types.SourceDecl
}

func NewOverridePolicy(decls []types.SourceDecl) OverridePolicy {
	indexed := map[string]types.SourceDecl{}
	for _, decl := range decls {
		indexed[decl.Name] = decl
	}
	return OverridePolicy{decls: indexed}
}

// Validate rejects overrides that point at undeclared sources and
// follow chains that loop back onto themselves.
func (p OverridePolicy) Validate() error {
	names := make([]string, 0, len(p.decls))
	for name := range p.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for input, target := range p.decls[name].Follows {
			if strings.TrimSpace(target) == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("source %s input %s follows an empty target", name, input))
			}
			if _, ok := p.decls[target]; !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("source %s input %s follows undeclared source %s", name, input, target))
			}
		}
	}
	for _, name := range names {
		if err := p.walk(name, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func (p OverridePolicy) walk(name string, seen map[string]bool) error {
	if seen[name] {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source follow cycle involving %s", name))
	}
	seen[name] = true
	targets := make([]string, 0, len(p.decls[name].Follows))
	for _, target := range p.decls[name].Follows {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		if err := p.walk(target, seen); err != nil {
			return err
		}
	}
	delete(seen, name)
	return nil
}

// Apply pins each overridden input of the pinned source to the digest
// of the source it follows, recording one report entry per override.
// The followed source must already be present in the registry.
func (p OverridePolicy) Apply(pinned types.PinnedSource, registry types.Registry) (types.PinnedSource, []types.EvaluationRecord, error) {
	decl, ok := p.decls[pinned.Name]
	if !ok || len(decl.Follows) == 0 {
		return pinned, nil, nil
	}
	inputs := make([]string, 0, len(decl.Follows))
	for input := range decl.Follows {
		inputs = append(inputs, input)
	}
	sort.Strings(inputs)

	var records []types.EvaluationRecord
	pinned.Inputs = map[string]string{}
	for _, input := range inputs {
		target := decl.Follows[input]
		followed, ok := registry[target]
		if !ok {
			return types.PinnedSource{}, nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("source %s follows %s which is not resolved", pinned.Name, target))
		}
		pinned.Inputs[input] = followed.Digest
		records = append(records, types.EvaluationRecord{
			Subject: pinned.Name,
			Action:  ActionInputFollows,
			Value:   fmt.Sprintf("%s=%s", input, target),
			Detail:  followed.Digest,
		})
	}
	return pinned, records, nil
}
