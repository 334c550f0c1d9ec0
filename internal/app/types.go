package app

import "crebforge/internal/types"

type ValidateRequest struct {
	DescriptorPath string
}

type ValidateResult struct {
	Name string
}

type LockRequest struct {
	DescriptorPath string
	StoreDir       string
	OutputDir      string
}

type LockResult struct {
	Name        string
	OutputDir   string
	SourceCount int
}

type EvaluateRequest struct {
	DescriptorPath string
	StoreDir       string
	OutputDir      string
}

type EvaluateResult struct {
	Name      string
	Platforms []types.Platform
	Outputs   types.OutputSet
	OutputDir string
}

type BuildRequest struct {
	DescriptorPath string
	StoreDir       string
	OutputDir      string
	Platform       string
}

type BuildResult struct {
	Artifact  types.BuildArtifactRef
	OutputDir string
}

type ShellRequest struct {
	DescriptorPath string
	StoreDir       string
	OutputDir      string
	Platform       string
}

type ShellResult struct {
	Shell     types.ShellDescriptor
	OutputDir string
}
