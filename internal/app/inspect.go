package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/types"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	installerPath := strings.TrimSpace(req.InstallerPath)
	if installerPath == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("installer path is required")
	}
	contents, err := s.Reader.Read(installerPath)
	if err != nil {
		return InspectResult{}, err
	}

	result := InspectResult{
		Path:        installerPath,
		AppName:     contents.Info.AppName,
		AppVersion:  contents.Info.AppVersion,
		Compression: contents.Info.CompressionFormat,
		Separate:    contents.Info.PackSeparateArchives(),
		EntryCount:  len(contents.Entries),
		LangPacks:   contents.LangPacks,
		Variables:   sortedKeys(contents.Variables),
	}
	for _, panel := range contents.Panels {
		name := panel.PanelID
		if name == "" {
			name = panel.ClassName
		}
		result.Panels = append(result.Panels, name)
	}
	for _, pack := range contents.Packs {
		result.Packs = append(result.Packs, summarizePack(pack))
	}

	if req.Verify {
		for _, pack := range contents.Packs {
			if pack.Pack.Loose {
				continue
			}
			for _, file := range pack.Files {
				if file.Directory {
					continue
				}
				if _, err := s.Reader.ReadPackFile(contents, file); err != nil {
					return InspectResult{}, err
				}
				result.VerifiedFiles++
			}
		}
	}
	return result, nil
}

func summarizePack(pack *types.PackInfo) InspectPackSummary {
	summary := InspectPackSummary{
		Name:     pack.Pack.Name,
		Size:     pack.Pack.Size,
		FileSize: pack.Pack.FileSize,
		Required: pack.Pack.Required,
	}
	for _, file := range pack.Files {
		switch {
		case file.Directory:
			summary.Directories++
		case file.IsBackReference():
			summary.Linked++
			summary.Files++
		default:
			summary.Files++
		}
	}
	return summary
}
