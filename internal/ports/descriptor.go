package ports

import "izpack/internal/types"

type DescriptorPort interface {
	LoadDescriptor(path string) (types.Descriptor, error)
}
