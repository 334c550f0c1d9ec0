package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"crebforge/internal/ports"
	"crebforge/internal/types"
)

type DescriptorFileAdapter struct{}

func NewDescriptorFileAdapter() DescriptorFileAdapter {
	return DescriptorFileAdapter{}
}

func (a DescriptorFileAdapter) LoadDescriptor(path string) (types.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Descriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("descriptor file not found").
			WithCause(err)
	}
	var descriptor types.Descriptor
	if err := yaml.Unmarshal(data, &descriptor); err != nil {
		return types.Descriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse descriptor yaml").
			WithCause(err)
	}
	return descriptor, nil
}

var _ ports.DescriptorPort = DescriptorFileAdapter{}
