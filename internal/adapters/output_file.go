package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"crebforge/internal/ports"
	"crebforge/internal/types"
)

type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

func (a OutputFileAdapter) WriteSourceLock(lock types.SourceLock) error {
	path, err := a.ensurePath("", "sources.lock")
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return encodeError("sources.lock", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func (a OutputFileAdapter) WriteRecipe(artifact types.BuildArtifactRef) error {
	path, err := a.ensurePath(string(artifact.Platform), fmt.Sprintf("%s.recipe.yaml", artifact.Name))
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(artifact)
	if err != nil {
		return encodeError("recipe", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (a OutputFileAdapter) WriteShellEnv(shell types.ShellDescriptor) error {
	path, err := a.ensurePath(string(shell.Platform), "devshell.env")
	if err != nil {
		return err
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("# dev shell %s (%s)", shell.Name, shell.Platform))
	var pathEntries []string
	for _, tool := range shell.Tools {
		pathEntries = append(pathEntries, filepath.Join(tool.StorePath, "bin"))
	}
	if len(pathEntries) > 0 {
		lines = append(lines, fmt.Sprintf("export PATH=%s:$PATH", strings.Join(pathEntries, ":")))
	}
	for _, env := range shell.Env {
		lines = append(lines, fmt.Sprintf("export %s=%s", env.Name, env.Value))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func (a OutputFileAdapter) WriteEvaluationReport(report types.EvaluationReport) error {
	path, err := a.ensurePath("", "evaluation.report")
	if err != nil {
		return err
	}
	ordered := append([]types.EvaluationRecord(nil), report.Records...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Subject != ordered[j].Subject {
			return ordered[i].Subject < ordered[j].Subject
		}
		if ordered[i].Action != ordered[j].Action {
			return ordered[i].Action < ordered[j].Action
		}
		return ordered[i].Value < ordered[j].Value
	})
	var lines []string
	for _, record := range ordered {
		lines = append(lines, fmt.Sprintf("%s,%s,%s,%s",
			record.Subject, record.Action, record.Value, record.Detail))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func (a OutputFileAdapter) ensurePath(subdir string, filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	dir := a.Dir
	if subdir != "" {
		dir = filepath.Join(a.Dir, subdir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(dir, filename), nil
}

func encodeError(what string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to encode %s", what)).
		WithCause(err)
}

var _ ports.OutputWriterPort = OutputFileAdapter{}
