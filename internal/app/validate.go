package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"crebforge/internal/core"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	path := strings.TrimSpace(req.DescriptorPath)
	if path == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor path is required")
	}
	descriptor, err := s.Descriptors.LoadDescriptor(path)
	if err != nil {
		return ValidateResult{}, err
	}
	if err := core.NewDescriptorCompiler().ValidateDescriptor(ctx, descriptor); err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{Name: descriptor.Metadata.Name}, nil
}
