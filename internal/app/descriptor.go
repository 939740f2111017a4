package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/core"
	"izpack/internal/types"
)

// descriptorCandidates are looked up in the working directory when no
// descriptor path is given.
var descriptorCandidates = []string{"install.yaml", "install.yml"}

func discoverDescriptor() string {
	for _, name := range descriptorCandidates {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// loadDescriptor reads and validates the installation descriptor. It returns
// the path that was used so callers can derive the base directory from it.
func (s Service) loadDescriptor(ctx context.Context, path string) (string, types.Descriptor, error) {
	descriptorPath := strings.TrimSpace(path)
	if descriptorPath == "" {
		descriptorPath = discoverDescriptor()
	}
	if descriptorPath == "" {
		return "", types.Descriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor path is required")
	}
	descriptor, err := s.Descriptors.LoadDescriptor(descriptorPath)
	if err != nil {
		return "", types.Descriptor{}, err
	}
	if strings.TrimSpace(descriptor.Info.AppName) == "" {
		return "", types.Descriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("info.app_name is required")
	}
	if strings.TrimSpace(descriptor.Info.AppVersion) == "" {
		return "", types.Descriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("info.app_version is required")
	}
	if err := core.NewDescriptorValidator().ValidateDescriptor(ctx, descriptor); err != nil {
		return "", types.Descriptor{}, err
	}
	return filepath.Clean(descriptorPath), descriptor, nil
}
