package core

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izpack/internal/shared"
	"izpack/internal/types"
)

type packagerFixture struct {
	packager *Packager
	archives *memArchiveFactory
	resolver *fakeResolver
	listener *recordingListener
	output   string
}

func newPackagerFixture(t *testing.T) packagerFixture {
	t.Helper()
	output := filepath.Join(t.TempDir(), "dist", "install.jar")
	archives := newMemArchiveFactory()
	resolver := &fakeResolver{
		skeleton: map[string]string{
			"META-INF/MANIFEST.MF":             "skeleton manifest",
			"installer/Installer.class":        "installer",
			"img/logo.png":                     "logo",
			"com/acme/panels/HelloPanel.class": "panel",
			"codecs/compress/Compressor.class": "compress",
			"codecs/xz/XZ.class":               "xz",
			"unrelated/Ignored.class":          "ignored",
		},
		jars: map[string]*memMergeable{
			"listeners.jar": {entries: map[string]string{"com/acme/Listener.class": "listener"}},
		},
	}
	opener := fakeOpener{content: map[string]string{
		"flags/eng.png":     "flag",
		"langpacks/eng.xml": "<langpack/>",
		"native/libfoo.so":  "native",
		"license.txt":       "license",
	}}
	listener := &recordingListener{}
	packager := NewPackager(types.CompilerData{Output: output, Mkdirs: true, CompressionLevel: 9}, listener, archives, resolver, opener)
	packager.SetInfo(types.Info{AppName: "Demo", AppVersion: "1.0.0", CompressionFormat: types.PackCompressionDeflate})
	return packagerFixture{packager: packager, archives: archives, resolver: resolver, listener: listener, output: output}
}

func TestPackagerCreateInstallerWritesEntriesInOrder(t *testing.T) {
	fixture := newPackagerFixture(t)
	packager := fixture.packager
	src := writeSource(t, t.TempDir(), "app.txt", 12)
	packager.AddPack(&types.PackInfo{Pack: types.Pack{Name: "core"}, Files: []*types.PackFile{sourceFile(src, "$INSTALL_PATH/app.txt", 12)}})
	require.NoError(t, packager.AddPanel(types.Panel{ClassName: "com.acme.panels.HelloPanel", PanelID: "hello"}))
	require.NoError(t, packager.AddLangPack("eng", "langpacks/eng.xml", "flags/eng.png"))
	require.NoError(t, packager.AddNativeLibrary("libfoo.so", "native/libfoo.so"))
	require.NoError(t, packager.AddResource("LicencePanel.licence", "license.txt"))
	require.NoError(t, packager.AddCustomJar(&types.CustomData{ListenerName: "Listener", Type: types.CustomDataInstallerListener}, "listeners.jar"))

	result, err := packager.CreateInstaller(t.Context())
	require.NoError(t, err)
	assert.Equal(t, fixture.output, result.Output)
	assert.Equal(t, filepath.Join(filepath.Dir(fixture.output), "install"), packager.Info().InstallerBase)

	archive := fixture.archives.archives[fixture.output]
	require.NotNil(t, archive)
	assert.True(t, archive.closed)
	want := []string{
		ManifestPath,
		"com/acme/panels/HelloPanel.class",
		"com/acme/Listener.class",
		"installer/Installer.class",
		"img/logo.png",
		"codecs/compress/Compressor.class",
		"resources/info",
		"resources/vars",
		"resources/ConsolePrefs",
		"resources/GUIPrefs",
		"resources/panelsOrder",
		"resources/customData",
		"resources/langpacks.info",
		"resources/rules",
		"resources/dynvariables",
		"resources/dynconditions",
		"resources/installerrequirements",
		"resources/LicencePanel.licence",
		"resources/flag.eng",
		"resources/langpacks/eng.xml",
		"resources/native/libfoo.so",
		"resources/packs/pack-core",
		"resources/packs.info",
	}
	if diff := cmp.Diff(want, result.Entries); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, indexOf(result.Entries, ManifestPath))
	assert.Equal(t, string(BuildManifest(nil)), string(archive.data(ManifestPath)))
	assert.Equal(t, "flag", string(archive.data("resources/flag.eng")))
	assert.Equal(t, []string{"start", "stop"}, fixture.listener.kinds())
	assert.Equal(t, []types.PackIndexEntry{{Name: "core", Size: 12, FileSize: 12}}, result.Index.Packs)
}

func TestPackagerMetadataRoundTrip(t *testing.T) {
	fixture := newPackagerFixture(t)
	packager := fixture.packager
	packager.SetGUIPrefs(types.GUIPrefs{Resizable: true, Width: 800, Height: 600, Modifier: map[string]string{"useHeadingPanel": "yes"}})
	packager.SetConsolePrefs(types.ConsolePrefs{EnableConsoleReader: true})
	packager.SetVariable("APP_HOME", "/opt/demo")
	packager.AddRule(types.Condition{ID: "isLinux", Type: types.ConditionTypeVariable, Variable: "os", Value: "linux"})
	packager.AddDynamicVariable(types.DynamicVariable{Name: "bin", Value: "${home}/bin"})
	packager.AddDynamicVariable(types.DynamicVariable{Name: "home", Value: "/opt", ConditionID: "isLinux"})
	packager.AddDynamicInstallerRequirements([]types.DynamicInstallerRequirementValidator{{ConditionID: "isLinux", Severity: "ERROR", MessageID: "linux.only"}})
	packager.AddInstallerRequirements([]types.InstallerRequirement{{ConditionID: "isLinux", Message: "Linux only"}})
	packager.AddNativeUninstallerLibrary(types.CustomData{Contents: []string{"native/uninstall.dll"}, Type: types.CustomDataUninstallerLib})
	require.NoError(t, packager.AddPanel(types.Panel{ClassName: "com.acme.panels.HelloPanel", Configuration: map[string]string{"k": "v"}}))
	require.NoError(t, packager.AddLangPack("eng", "langpacks/eng.xml", ""))

	_, err := packager.CreateInstaller(t.Context())
	require.NoError(t, err)
	archive := fixture.archives.archives[fixture.output]

	decode := func(name string, v any) {
		t.Helper()
		require.NoError(t, shared.DecodeRecord(bytes.NewReader(archive.data(shared.ResourcesPath+name)), name, v))
	}

	var info types.Info
	decode(shared.RecordInfo, &info)
	if diff := cmp.Diff(*packager.Info(), info); diff != "" {
		t.Fatalf("unexpected info (-want +got):\n%s", diff)
	}
	var variables map[string]string
	decode(shared.RecordVariables, &variables)
	assert.Equal(t, map[string]string{"APP_HOME": "/opt/demo"}, variables)
	var consolePrefs types.ConsolePrefs
	decode(shared.RecordConsolePrefs, &consolePrefs)
	assert.True(t, consolePrefs.EnableConsoleReader)
	var guiPrefs types.GUIPrefs
	decode(shared.RecordGUIPrefs, &guiPrefs)
	if diff := cmp.Diff(types.GUIPrefs{Resizable: true, Width: 800, Height: 600, Modifier: map[string]string{"useHeadingPanel": "yes"}}, guiPrefs); diff != "" {
		t.Fatalf("unexpected gui prefs (-want +got):\n%s", diff)
	}
	var panels []types.Panel
	decode(shared.RecordPanelsOrder, &panels)
	if diff := cmp.Diff(packager.PanelList(), panels); diff != "" {
		t.Fatalf("unexpected panels (-want +got):\n%s", diff)
	}
	var customData []types.CustomData
	decode(shared.RecordCustomData, &customData)
	assert.Equal(t, []types.CustomData{{Contents: []string{"native/uninstall.dll"}, Type: types.CustomDataUninstallerLib}}, customData)
	var langPacks []string
	decode(shared.RecordLangPacks, &langPacks)
	assert.Equal(t, []string{"eng"}, langPacks)
	var rules map[string]types.Condition
	decode(shared.RecordRules, &rules)
	if diff := cmp.Diff(packager.Rules(), rules); diff != "" {
		t.Fatalf("unexpected rules (-want +got):\n%s", diff)
	}
	var dynamicVariables []types.DynamicVariable
	decode(shared.RecordDynamicVariables, &dynamicVariables)
	want := []types.DynamicVariable{{Name: "home", Value: "/opt", ConditionID: "isLinux"}, {Name: "bin", Value: "${home}/bin"}}
	if diff := cmp.Diff(want, dynamicVariables); diff != "" {
		t.Fatalf("unexpected dynamic variables (-want +got):\n%s", diff)
	}
	var dynamicRequirements []types.DynamicInstallerRequirementValidator
	decode(shared.RecordDynamicConditions, &dynamicRequirements)
	assert.Equal(t, packager.DynamicInstallerRequirements(), dynamicRequirements)
	var requirements []types.InstallerRequirement
	decode(shared.RecordInstallerRequirements, &requirements)
	assert.Equal(t, []types.InstallerRequirement{{ConditionID: "isLinux", Message: "Linux only"}}, requirements)
}

func TestPackagerAddResourceConflict(t *testing.T) {
	packager := newPackagerFixture(t).packager
	require.NoError(t, packager.AddResource("logo", "a.png"))
	require.NoError(t, packager.AddResource("logo", "a.png"))

	err := packager.AddResource("logo", "b.png")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Equal(t, map[string]string{"logo": "a.png"}, packager.Resources())
}

func TestPackagerSkeletonPathsFollowCompression(t *testing.T) {
	tests := []struct {
		name        string
		compression types.PackCompression
		extra       []string
	}{
		{name: "default", compression: types.PackCompressionDefault},
		{name: "bzip2", compression: types.PackCompressionBzip2, extra: []string{"codecs/compress/"}},
		{name: "lzma", compression: types.PackCompressionLZMA, extra: []string{"codecs/compress/", "codecs/xz/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newPackagerFixture(t)
			fixture.packager.Info().CompressionFormat = tt.compression

			_, err := fixture.packager.CreateInstaller(t.Context())
			require.NoError(t, err)
			want := append(append([]string{}, skeletonPaths...), tt.extra...)
			if diff := cmp.Diff(want, fixture.resolver.requested); diff != "" {
				t.Fatalf("unexpected skeleton paths (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPackagerCompressionOverride(t *testing.T) {
	output := filepath.Join(t.TempDir(), "install.jar")
	resolver := &fakeResolver{}
	packager := NewPackager(types.CompilerData{Output: output, Compression: types.PackCompressionXZ}, nil, newMemArchiveFactory(), resolver, fakeOpener{})
	packager.SetInfo(types.Info{AppName: "Demo", AppVersion: "1.0.0", CompressionFormat: types.PackCompressionDeflate})

	_, err := packager.CreateInstaller(t.Context())
	require.NoError(t, err)
	assert.Equal(t, types.PackCompressionXZ, packager.Info().CompressionFormat)
	assert.Contains(t, resolver.requested, "codecs/xz/")
}

func TestPackagerBuildTimePinsEntryTimes(t *testing.T) {
	output := filepath.Join(t.TempDir(), "install.jar")
	buildTime := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	archives := newMemArchiveFactory()
	packager := NewPackager(types.CompilerData{Output: output, BuildTime: buildTime}, nil, archives, &fakeResolver{}, fakeOpener{})
	packager.SetInfo(types.Info{AppName: "Demo", AppVersion: "1.0.0"})
	src := writeSource(t, t.TempDir(), "app.txt", 4)
	packager.AddPack(&types.PackInfo{Pack: types.Pack{Name: "core"}, Files: []*types.PackFile{sourceFile(src, "app.txt", 4)}})

	_, err := packager.CreateInstaller(t.Context())
	require.NoError(t, err)
	archive := archives.archives[output]
	for _, name := range []string{ManifestPath, shared.ResourcesPath + shared.RecordInfo, shared.ResourcesPath + "packs/pack-core", shared.PacksInfoPath} {
		assert.True(t, buildTime.Equal(archive.modTimes[name]), name)
	}
}

func TestPackagerRemovesPartialOutputOnFailure(t *testing.T) {
	fixture := newPackagerFixture(t)
	packager := fixture.packager
	packager.Info().WebDirURL = "https://example.com/packs"
	dir := t.TempDir()
	good := writeSource(t, dir, "good.txt", 5)
	bad := writeSource(t, dir, "bad.txt", 5)
	packager.AddPack(&types.PackInfo{Pack: types.Pack{Name: "first"}, Files: []*types.PackFile{sourceFile(good, "good.txt", 5)}})
	packager.AddPack(&types.PackInfo{Pack: types.Pack{Name: "second"}, Files: []*types.PackFile{sourceFile(bad, "bad.txt", 50)}})

	_, err := packager.CreateInstaller(t.Context())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))

	base := shared.InstallerBase(fixture.output)
	for _, path := range []string{fixture.output, shared.PackArchivePath(base, "first"), shared.PackArchivePath(base, "second")} {
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), path)
	}
	assert.Equal(t, []string{"start"}, fixture.listener.kinds())
	last := fixture.listener.events[len(fixture.listener.events)-1]
	assert.Equal(t, types.MsgErr, last.priority)
}

func TestPackagerFailsOnVariableCycle(t *testing.T) {
	fixture := newPackagerFixture(t)
	fixture.packager.AddDynamicVariable(types.DynamicVariable{Name: "a", Value: "$b"})
	fixture.packager.AddDynamicVariable(types.DynamicVariable{Name: "b", Value: "$a"})

	_, err := fixture.packager.CreateInstaller(t.Context())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	_, statErr := os.Stat(fixture.output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPackagerRequiresInfo(t *testing.T) {
	packager := NewPackager(types.CompilerData{Output: filepath.Join(t.TempDir(), "x.jar")}, nil, newMemArchiveFactory(), &fakeResolver{}, fakeOpener{})
	_, err := packager.CreateInstaller(t.Context())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestPackagerAddJarContentUnknownJar(t *testing.T) {
	packager := newPackagerFixture(t).packager
	err := packager.AddJarContent("missing.jar")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func indexOf(values []string, value string) int {
	for i, candidate := range values {
		if candidate == value {
			return i
		}
	}
	return -1
}
