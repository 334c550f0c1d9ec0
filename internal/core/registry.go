package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"crebforge/internal/policies"
	"crebforge/internal/ports"
	"crebforge/internal/types"
)

// RegistryResolver resolves the declared source list into a pinned
// Registry. Resolution happens exactly once per evaluation: every
// declared locator is fetched into the content-addressed store, then
// the follows overrides are applied in a second pass so that every
// override target is already pinned. Any unresolvable locator aborts
// before outputs are computed; there are no partial registries.
type RegistryResolver struct {
	Fetcher ports.SourceFetchPort
}

func NewRegistryResolver(fetcher ports.SourceFetchPort) RegistryResolver {
	return RegistryResolver{Fetcher: fetcher}
}

func (r RegistryResolver) Resolve(ctx context.Context, decls []types.SourceDecl) (types.Registry, []types.EvaluationRecord, error) {
	if r.Fetcher == nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry resolver requires a source fetcher")
	}
	if len(decls) == 0 {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no sources declared")
	}
	seen := map[string]bool{}
	for _, decl := range decls {
		if seen[decl.Name] {
			return nil, nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate source name: %s", decl.Name))
		}
		seen[decl.Name] = true
	}

	overrides := policies.NewOverridePolicy(decls)
	if err := overrides.Validate(); err != nil {
		return nil, nil, err
	}

	ordered := append([]types.SourceDecl(nil), decls...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	registry := types.Registry{}
	for _, decl := range ordered {
		pinned, err := r.Fetcher.Fetch(ctx, decl.Name, decl.Locator)
		if err != nil {
			return nil, nil, err
		}
		registry[decl.Name] = pinned
		log.Ctx(ctx).Debug().
			Str("source", decl.Name).
			Str("digest", pinned.Digest).
			Msg("source pinned")
	}

	var records []types.EvaluationRecord
	for _, decl := range ordered {
		pinned, applied, err := overrides.Apply(registry[decl.Name], registry)
		if err != nil {
			return nil, nil, err
		}
		registry[decl.Name] = pinned
		records = append(records, applied...)
	}
	return registry, records, nil
}
