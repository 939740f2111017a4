package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/ports"
	"izpack/internal/shared"
	"izpack/internal/types"
)

// skeletonPaths are merged into every installer.
var skeletonPaths = []string{
	"installer/",
	"img/",
	"icons/",
	"api/",
	"event/",
	"core/",
	"data/",
	"gui/",
	"merge/",
	"util/",
	"logging/",
	"META-INF/native/",
}

const (
	compressSkeletonPath = "codecs/compress/"
	xzSkeletonPath       = "codecs/xz/"
)

// Packager assembles an installer archive from the data registered on it.
// One Packager builds one installer; it is not safe for concurrent use.
type Packager struct {
	compiler types.CompilerData
	listener ports.PackagerListener
	archives ports.ArchiveFactory
	resolver ports.MergeableResolver
	opener   ports.ResourceOpener
	merge    *MergeManager
	now      func() time.Time

	info                         *types.Info
	guiPrefs                     types.GUIPrefs
	consolePrefs                 types.ConsolePrefs
	variables                    map[string]string
	panels                       []types.Panel
	customData                   []types.CustomData
	langPacks                    []string
	resources                    map[string]string
	rules                        map[string]types.Condition
	dynamicVariables             map[string][]types.DynamicVariable
	dynamicInstallerRequirements []types.DynamicInstallerRequirementValidator
	installerRequirements        []types.InstallerRequirement
	packs                        []*types.PackInfo
}

func NewPackager(compiler types.CompilerData, listener ports.PackagerListener, archives ports.ArchiveFactory, resolver ports.MergeableResolver, opener ports.ResourceOpener) *Packager {
	if listener == nil {
		listener = nopListener{}
	}
	now := time.Now
	if !compiler.BuildTime.IsZero() {
		now = func() time.Time { return compiler.BuildTime }
	}
	return &Packager{
		compiler:         compiler,
		listener:         listener,
		archives:         archives,
		resolver:         resolver,
		opener:           opener,
		merge:            NewMergeManager(),
		now:              now,
		variables:        map[string]string{},
		resources:        map[string]string{},
		rules:            map[string]types.Condition{},
		dynamicVariables: map[string][]types.DynamicVariable{},
	}
}

func (p *Packager) SetInfo(info types.Info) {
	p.info = &info
}

func (p *Packager) Info() *types.Info {
	return p.info
}

func (p *Packager) SetGUIPrefs(prefs types.GUIPrefs) {
	p.guiPrefs = prefs
}

func (p *Packager) SetConsolePrefs(prefs types.ConsolePrefs) {
	p.consolePrefs = prefs
}

// Variables returns the live user variable map.
func (p *Packager) Variables() map[string]string {
	return p.variables
}

func (p *Packager) SetVariable(name string, value string) {
	p.variables[name] = value
}

// AddResource registers an installer resource. Registering the same id again
// with the same reference is a no-op; a different reference is rejected.
func (p *Packager) AddResource(id string, ref string) error {
	if existing, ok := p.resources[id]; ok {
		if existing == ref {
			return nil
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("resource %s is already registered from %s, cannot add %s", id, existing, ref))
	}
	p.sendMsg(fmt.Sprintf("Adding resource: %s", id), types.MsgVerbose)
	p.resources[id] = ref
	return nil
}

// Resources returns the registered resource references by id.
func (p *Packager) Resources() map[string]string {
	out := make(map[string]string, len(p.resources))
	for id, ref := range p.resources {
		out[id] = ref
	}
	return out
}

func (p *Packager) AddPack(pack *types.PackInfo) {
	p.packs = append(p.packs, pack)
}

func (p *Packager) PacksList() []*types.PackInfo {
	return p.packs
}

// AddPanel appends a panel to the panel order and merges its implementation.
func (p *Packager) AddPanel(panel types.Panel) error {
	p.sendMsg(fmt.Sprintf("Adding panel: %s :: Classname : %s", panel.PanelID, panel.ClassName), types.MsgVerbose)
	mergeable, err := p.resolver.PanelMergeable(panel.ClassName)
	if err != nil {
		return err
	}
	p.panels = append(p.panels, panel)
	p.merge.Add(mergeable)
	return nil
}

func (p *Packager) PanelList() []types.Panel {
	return p.panels
}

// AddLangPack registers a language pack: its flag as resource flag.<iso3> and
// its translations as langpacks/<iso3>.xml.
func (p *Packager) AddLangPack(iso3 string, xmlRef string, flagRef string) error {
	p.sendMsg(fmt.Sprintf("Adding langpack: %s", iso3), types.MsgVerbose)
	if flagRef != "" {
		if err := p.AddResource("flag."+iso3, flagRef); err != nil {
			return err
		}
	}
	p.langPacks = append(p.langPacks, iso3)
	p.resources["langpacks/"+iso3+".xml"] = xmlRef
	return nil
}

func (p *Packager) AddNativeLibrary(name string, ref string) error {
	p.sendMsg(fmt.Sprintf("Adding native library: %s", name), types.MsgVerbose)
	return p.AddResource("native/"+name, ref)
}

func (p *Packager) AddNativeUninstallerLibrary(data types.CustomData) {
	p.AddCustomData(data)
}

// AddCustomData records listener data whose classes ship with the skeleton
// runtime, so no jar is merged for it.
func (p *Packager) AddCustomData(data types.CustomData) {
	p.customData = append(p.customData, data)
}

// AddCustomJar records listener data and merges the jar holding it.
func (p *Packager) AddCustomJar(data *types.CustomData, ref string) error {
	if data != nil {
		p.customData = append(p.customData, *data)
	}
	return p.AddJarContent(ref)
}

func (p *Packager) AddJarContent(ref string) error {
	p.sendMsg(fmt.Sprintf("Adding content of jar: %s", ref), types.MsgVerbose)
	mergeable, err := p.resolver.MergeableFromURL(ref)
	if err != nil {
		return err
	}
	p.merge.Add(mergeable)
	return nil
}

func (p *Packager) AddRule(condition types.Condition) {
	p.rules[condition.ID] = condition
}

// Rules returns the live condition map keyed by id.
func (p *Packager) Rules() map[string]types.Condition {
	return p.rules
}

func (p *Packager) AddDynamicVariable(variable types.DynamicVariable) {
	p.dynamicVariables[variable.Name] = append(p.dynamicVariables[variable.Name], variable)
}

// DynamicVariables returns the live dynamic variable definitions by name.
func (p *Packager) DynamicVariables() map[string][]types.DynamicVariable {
	return p.dynamicVariables
}

func (p *Packager) AddDynamicInstallerRequirements(validators []types.DynamicInstallerRequirementValidator) {
	p.dynamicInstallerRequirements = append(p.dynamicInstallerRequirements, validators...)
}

func (p *Packager) DynamicInstallerRequirements() []types.DynamicInstallerRequirementValidator {
	return p.dynamicInstallerRequirements
}

func (p *Packager) AddInstallerRequirements(requirements []types.InstallerRequirement) {
	p.installerRequirements = append(p.installerRequirements, requirements...)
}

// CreateInstaller writes the installer archive. On failure the installer and
// any separate pack archives are removed, and no stop event is sent.
func (p *Packager) CreateInstaller(ctx context.Context) (types.BuildResult, error) {
	assert.NotEmpty(ctx, p.compiler.Output, "installer output must be set")
	if p.info == nil {
		return types.BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("installer info must be set before creating the installer")
	}
	if p.compiler.Compression != "" {
		p.info.CompressionFormat = p.compiler.Compression
	}
	if p.info.CompressionFormat == "" {
		p.info.CompressionFormat = types.PackCompressionDefault
	}
	p.info.InstallerBase = shared.InstallerBase(p.compiler.Output)

	p.listener.PackagerStart()
	p.sendMsg("Building installer jar: "+p.compiler.Output, types.MsgInfo)

	installer, err := p.archives.Create(p.compiler.Output, p.compiler.Mkdirs, p.compiler.CompressionLevel)
	if err != nil {
		p.sendMsg(err.Error(), types.MsgErr)
		return types.BuildResult{}, err
	}

	result, err := p.writeInstaller(installer)
	if closeErr := installer.Close(); err == nil && closeErr != nil {
		err = errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("close installer %s", p.compiler.Output)).
			WithCause(closeErr)
	}
	if err != nil {
		p.removeOutputs(append([]string{p.compiler.Output}, result.PackArchives...))
		p.sendMsg(err.Error(), types.MsgErr)
		return types.BuildResult{}, err
	}

	result.Output = p.compiler.Output
	result.Entries = installer.Entries()
	p.listener.PackagerStop()
	return result, nil
}

func (p *Packager) writeInstaller(installer ports.ArchiveWriter) (types.BuildResult, error) {
	modTime := p.now()

	if err := p.writeManifest(installer, modTime); err != nil {
		return types.BuildResult{}, err
	}
	if err := p.writeSkeleton(installer); err != nil {
		return types.BuildResult{}, err
	}
	if err := p.writeMetadata(installer, modTime); err != nil {
		return types.BuildResult{}, err
	}
	if err := p.writeResources(installer, modTime); err != nil {
		return types.BuildResult{}, err
	}

	writer := NewPackWriter(p.archives, p.listener, PackWriterOptions{
		Compression:   p.info.CompressionFormat,
		Separate:      p.info.PackSeparateArchives(),
		InstallerBase: p.info.InstallerBase,
		Mkdirs:        p.compiler.Mkdirs,
		ArchiveLevel:  p.compiler.CompressionLevel,
		ModTime:       modTime,
	})
	packs, err := writer.WritePacks(installer, p.packs)
	result := types.BuildResult{Index: packs.Index, PackArchives: packs.PackArchives}
	return result, err
}

func (p *Packager) writeManifest(installer ports.ArchiveWriter, modTime time.Time) error {
	out, err := installer.Create(ManifestPath, modTime)
	if err != nil {
		return err
	}
	if _, err := out.Write(BuildManifest(p.compiler.ManifestEntries)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("write manifest").
			WithCause(err)
	}
	return nil
}

func (p *Packager) writeSkeleton(installer ports.ArchiveWriter) error {
	p.sendMsg("Copying the skeleton installer", types.MsgVerbose)
	paths := append([]string{}, skeletonPaths...)
	switch p.info.CompressionFormat {
	case types.PackCompressionDefault:
	case types.PackCompressionXZ, types.PackCompressionLZMA:
		paths = append(paths, compressSkeletonPath, xzSkeletonPath)
	default:
		paths = append(paths, compressSkeletonPath)
	}
	for _, path := range paths {
		mergeable, err := p.resolver.SkeletonMergeable(path)
		if err != nil {
			return err
		}
		p.merge.Add(mergeable)
	}
	return p.merge.Merge(installer)
}

func (p *Packager) writeMetadata(installer ports.ArchiveWriter, modTime time.Time) error {
	variables, err := BuildVariableList(p.dynamicVariables, p.rules)
	if err != nil {
		return err
	}
	records := []struct {
		name  string
		value any
	}{
		{shared.RecordInfo, p.info},
		{shared.RecordVariables, p.variables},
		{shared.RecordConsolePrefs, p.consolePrefs},
		{shared.RecordGUIPrefs, p.guiPrefs},
		{shared.RecordPanelsOrder, nonNil(p.panels)},
		{shared.RecordCustomData, nonNil(p.customData)},
		{shared.RecordLangPacks, nonNil(p.langPacks)},
		{shared.RecordRules, p.rules},
		{shared.RecordDynamicVariables, variables},
		{shared.RecordDynamicConditions, nonNil(p.dynamicInstallerRequirements)},
		{shared.RecordInstallerRequirements, nonNil(p.installerRequirements)},
	}
	for _, record := range records {
		out, err := installer.Create(shared.ResourcesPath+record.name, modTime)
		if err != nil {
			return err
		}
		if err := shared.EncodeRecord(out, record.name, record.value); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("write %s", record.name)).
				WithCause(err)
		}
	}
	return nil
}

// writeResources copies the registered resources in id order. The source
// modification time is kept when the source has one.
func (p *Packager) writeResources(installer ports.ArchiveWriter, modTime time.Time) error {
	ids := make([]string, 0, len(p.resources))
	for id := range p.resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := p.writeResource(installer, id, p.resources[id], modTime); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packager) writeResource(installer ports.ArchiveWriter, id string, ref string, fallback time.Time) error {
	src, sourceTime, err := p.opener.Open(ref)
	if err != nil {
		return err
	}
	defer src.Close()
	if sourceTime.IsZero() {
		sourceTime = fallback
	}
	out, err := installer.Create(shared.ResourcesPath+shared.EntryName(id), sourceTime)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("copy resource %s from %s", id, ref)).
			WithCause(err)
	}
	return nil
}

func (p *Packager) removeOutputs(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			p.sendMsg(fmt.Sprintf("could not remove partial output %s: %v", path, err), types.MsgWarn)
		}
	}
}

func (p *Packager) sendMsg(msg string, priority types.MsgPriority) {
	p.listener.PackagerMsg(msg, priority)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

type nopListener struct{}

func (nopListener) PackagerStart() {}

func (nopListener) PackagerMsg(string, types.MsgPriority) {}

func (nopListener) PackagerStop() {}
