package ports

import (
	"crebforge/internal/types"
)

type DescriptorPort interface {
	LoadDescriptor(path string) (types.Descriptor, error)
}
