package app

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"izpack/internal/adapters"
	"izpack/internal/core"
	"izpack/internal/shared"
	"izpack/internal/streams"
	"izpack/internal/types"
)

func (s Service) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	output := strings.TrimSpace(req.Output)
	if output == "" {
		return CompileResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("installer output path is required")
	}
	descriptorPath, descriptor, err := s.loadDescriptor(ctx, req.DescriptorPath)
	if err != nil {
		return CompileResult{}, err
	}
	baseDir := strings.TrimSpace(req.BaseDir)
	if baseDir == "" {
		baseDir = filepath.Dir(descriptorPath)
	}

	var compression types.PackCompression
	if name := strings.TrimSpace(req.Compression); name != "" {
		compression, err = streams.ParsePackCompression(name)
		if err != nil {
			return CompileResult{}, err
		}
	}

	buildTime, err := shared.ParseBuildTime(req.Timestamp)
	if err != nil {
		return CompileResult{}, err
	}

	resolver, err := s.Resolver(strings.TrimSpace(req.SkeletonPath), baseDir)
	if err != nil {
		return CompileResult{}, err
	}
	logger := log.Ctx(ctx)
	packager := core.NewPackager(types.CompilerData{
		Output:           output,
		BaseDir:          baseDir,
		Mkdirs:           req.Mkdirs,
		Compression:      compression,
		CompressionLevel: req.Level,
		SkeletonPath:     strings.TrimSpace(req.SkeletonPath),
		ManifestEntries:  req.ManifestEntries,
		BuildTime:        buildTime,
	}, adapters.NewLogListener(*logger), s.Archives, resolver, s.Opener(baseDir))

	if err := s.configurePackager(packager, descriptor, baseDir); err != nil {
		return CompileResult{}, err
	}
	build, err := packager.CreateInstaller(ctx)
	if err != nil {
		return CompileResult{}, err
	}

	result := CompileResult{
		Output:       build.Output,
		PackArchives: build.PackArchives,
		EntryCount:   len(build.Entries),
		PackCount:    len(packager.PacksList()),
	}
	base := packager.Info().InstallerBase
	if req.SBOM {
		result.SBOMPath = base + ".sbom.json"
		createdAt := s.Clock().UTC()
		if !buildTime.IsZero() {
			createdAt = buildTime
		}
		if err := s.SBOMWriter.WriteSBOM(result.SBOMPath, *packager.Info(), createdAt.Format(time.RFC3339), packager.PacksList()); err != nil {
			return CompileResult{}, err
		}
	}
	if req.PackIndex {
		result.PackIndexPath = base + ".packs.xml"
		if err := s.Reports.WritePackIndex(result.PackIndexPath, build.Index); err != nil {
			return CompileResult{}, err
		}
	}
	logger.Info().
		Str("output", result.Output).
		Int("packs", result.PackCount).
		Int("entries", result.EntryCount).
		Msg("installer compiled")
	return result, nil
}

// configurePackager registers everything the descriptor declares, in the
// order the installer runtime expects panels and packs.
func (s Service) configurePackager(packager *core.Packager, descriptor types.Descriptor, baseDir string) error {
	info := descriptor.Info
	format, err := streams.ParsePackCompression(info.Compression)
	if err != nil {
		return err
	}
	packager.SetInfo(types.Info{
		AppName:                    info.AppName,
		AppVersion:                 info.AppVersion,
		AppURL:                     info.AppURL,
		AppSubpath:                 info.AppSubpath,
		Authors:                    info.Authors,
		JavaVersion:                info.JavaVersion,
		JDKRequired:                info.JDKRequired,
		WebDirURL:                  info.WebDirURL,
		UninstallerName:            info.UninstallerName,
		UninstallerPath:            info.UninstallerPath,
		CompressionFormat:          format,
		RequirePrivilegedExecution: info.RequirePrivilegedExecution,
		SummaryLogFilePath:         info.SummaryLogFilePath,
	})
	for _, name := range sortedKeys(descriptor.Variables) {
		packager.SetVariable(name, descriptor.Variables[name])
	}
	packager.SetGUIPrefs(types.GUIPrefs{
		Resizable:          descriptor.GUIPrefs.Resizable,
		Width:              descriptor.GUIPrefs.Width,
		Height:             descriptor.GUIPrefs.Height,
		LookAndFeelMapping: descriptor.GUIPrefs.LookAndFeelMapping,
		Modifier:           descriptor.GUIPrefs.Modifier,
	})
	packager.SetConsolePrefs(types.ConsolePrefs{EnableConsoleReader: descriptor.ConsolePrefs.EnableConsoleReader})

	for _, locale := range descriptor.Locales {
		if err := packager.AddLangPack(locale.ISO3, locale.XML, locale.Flag); err != nil {
			return err
		}
	}
	for _, resource := range descriptor.Resources {
		if err := packager.AddResource(resource.ID, resource.Src); err != nil {
			return err
		}
	}
	for _, library := range descriptor.NativeLibraries {
		if err := packager.AddNativeLibrary(library.ID, library.Src); err != nil {
			return err
		}
	}
	for _, jar := range descriptor.Jars {
		if err := packager.AddJarContent(jar); err != nil {
			return err
		}
	}
	for _, listener := range descriptor.Listeners {
		data := listenerData(listener)
		if strings.TrimSpace(listener.Jar) == "" {
			packager.AddCustomData(data)
			continue
		}
		if err := packager.AddCustomJar(&data, listener.Jar); err != nil {
			return err
		}
	}
	for _, condition := range descriptor.Conditions {
		packager.AddRule(types.Condition{
			ID:       condition.ID,
			Type:     types.ConditionType(condition.Type),
			Variable: condition.Variable,
			Value:    condition.Value,
			Operands: condition.Operands,
		})
	}
	for _, panel := range descriptor.Panels {
		err := packager.AddPanel(types.Panel{
			ClassName:     panel.ClassName,
			PanelID:       panel.ID,
			Condition:     panel.Condition,
			Validators:    panel.Validators,
			Configuration: panel.Configuration,
			OsConstraints: panel.OsConstraints,
		})
		if err != nil {
			return err
		}
	}
	for _, variable := range descriptor.DynamicVariables {
		packager.AddDynamicVariable(types.DynamicVariable{
			Name:          variable.Name,
			Value:         variable.Value,
			ConditionID:   variable.Condition,
			CheckOnce:     variable.CheckOnce,
			IgnoreFailure: variable.IgnoreFailure,
			Unset:         variable.Unset,
		})
	}
	packager.AddInstallerRequirements(descriptor.InstallerRequirements)
	packager.AddDynamicInstallerRequirements(descriptor.DynamicInstallerRequirements)

	for _, spec := range descriptor.Packs {
		pack, err := s.collectPack(spec, baseDir)
		if err != nil {
			return err
		}
		packager.AddPack(pack)
	}
	return nil
}

func (s Service) collectPack(spec types.PackSpec, baseDir string) (*types.PackInfo, error) {
	pack := &types.PackInfo{
		Pack: types.Pack{
			Name:          spec.Name,
			Description:   spec.Description,
			LangPackID:    spec.LangPackID,
			Size:          spec.Size,
			Loose:         spec.Loose,
			Preselected:   spec.Preselected,
			Required:      spec.Required,
			Hidden:        spec.Hidden,
			Condition:     spec.Condition,
			Dependencies:  spec.Dependencies,
			OsConstraints: spec.OsConstraints,
		},
	}
	for _, source := range spec.Files {
		files, err := s.Sources.CollectFiles(baseDir, source)
		if err != nil {
			return nil, err
		}
		pack.Files = append(pack.Files, files...)
	}
	return pack, nil
}

func listenerData(listener types.ListenerSpec) types.CustomData {
	kind := types.CustomDataInstallerListener
	if listener.Uninstaller {
		kind = types.CustomDataUninstallerListener
	}
	return types.CustomData{
		ListenerName:  listener.Name,
		Type:          kind,
		OsConstraints: listener.OsConstraints,
	}
}

func sortedKeys[V any](input map[string]V) []string {
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
