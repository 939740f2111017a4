package adapters

import (
	"bytes"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"izpack/internal/ports"
	"izpack/internal/types"
)

type DescriptorFileAdapter struct{}

func NewDescriptorFileAdapter() DescriptorFileAdapter {
	return DescriptorFileAdapter{}
}

// LoadDescriptor reads a YAML installation descriptor. Unknown keys are
// rejected so typos do not silently drop configuration.
func (a DescriptorFileAdapter) LoadDescriptor(path string) (types.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Descriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("descriptor file not found: " + path).
			WithCause(err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var descriptor types.Descriptor
	if err := decoder.Decode(&descriptor); err != nil {
		return types.Descriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse descriptor yaml").
			WithCause(err)
	}
	return descriptor, nil
}

var _ ports.DescriptorPort = DescriptorFileAdapter{}
