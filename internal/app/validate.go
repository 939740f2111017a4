package app

import "context"

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	_, descriptor, err := s.loadDescriptor(ctx, req.DescriptorPath)
	if err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		AppName:    descriptor.Info.AppName,
		AppVersion: descriptor.Info.AppVersion,
		PackCount:  len(descriptor.Packs),
		PanelCount: len(descriptor.Panels),
	}, nil
}
