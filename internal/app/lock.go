package app

import (
	"context"

	"crebforge/internal/adapters"
)

// Lock resolves the source registry only and writes sources.lock,
// leaving recipes and shells untouched. Useful for refreshing pins
// without a full evaluation.
func (s Service) Lock(ctx context.Context, req LockRequest) (LockResult, error) {
	eval, err := s.prepare(ctx, req.DescriptorPath, req.StoreDir, req.OutputDir)
	if err != nil {
		return LockResult{}, err
	}
	output := adapters.NewOutputFileAdapter(eval.outputDir)
	if err := output.WriteSourceLock(sourceLock(eval.registry)); err != nil {
		return LockResult{}, err
	}
	return LockResult{
		Name:        eval.descriptor.Metadata.Name,
		OutputDir:   eval.outputDir,
		SourceCount: len(eval.registry),
	}, nil
}
