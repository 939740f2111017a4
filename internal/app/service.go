package app

import (
	"time"

	"izpack/internal/adapters"
	"izpack/internal/ports"
)

type Service struct {
	Descriptors ports.DescriptorPort
	Sources     ports.PackSourcePort
	Archives    ports.ArchiveFactory
	Reader      ports.InstallerReaderPort
	SBOMWriter  ports.SBOMPort
	Reports     ports.ReportPort
	Opener      func(baseDir string) ports.ResourceOpener
	Resolver    func(skeletonPath string, baseDir string) (ports.MergeableResolver, error)
	Clock       func() time.Time
}

func NewService() Service {
	return Service{
		Descriptors: adapters.NewDescriptorFileAdapter(),
		Sources:     adapters.NewPackSourceAdapter(),
		Archives:    adapters.NewJarArchiveFactory(),
		Reader:      adapters.NewInstallerReaderAdapter(),
		SBOMWriter:  adapters.NewSBOMWriterAdapter(),
		Reports:     adapters.NewOutputFileAdapter(),
		Opener: func(baseDir string) ports.ResourceOpener {
			return adapters.NewResourceOpenerAdapter(baseDir)
		},
		Resolver: func(skeletonPath string, baseDir string) (ports.MergeableResolver, error) {
			return adapters.NewMergeResolver(skeletonPath, baseDir)
		},
		Clock: time.Now,
	}
}
