package ports

import (
	"crebforge/internal/types"
)

type OutputWriterPort interface {
	WriteSourceLock(lock types.SourceLock) error
	WriteRecipe(artifact types.BuildArtifactRef) error
	WriteShellEnv(shell types.ShellDescriptor) error
	WriteEvaluationReport(report types.EvaluationReport) error
}
