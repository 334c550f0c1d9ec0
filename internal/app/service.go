package app

import (
	"time"

	"crebforge/internal/adapters"
	"crebforge/internal/ports"
)

type Service struct {
	Descriptors ports.DescriptorPort
	Collection  ports.CollectionPort
	Toolchains  ports.ToolchainManifestPort
	Manifests   ports.ManifestPort
	Clock       func() time.Time
}

func NewService() Service {
	return Service{
		Descriptors: adapters.NewDescriptorFileAdapter(),
		Collection:  adapters.NewCollectionFileAdapter(),
		Toolchains:  adapters.NewToolchainManifestAdapter(),
		Manifests:   adapters.NewCargoManifestAdapter(),
		Clock:       time.Now,
	}
}

func timeNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}
