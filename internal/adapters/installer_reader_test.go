package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izpack/internal/core"
	"izpack/internal/shared"
	"izpack/internal/types"
)

func buildInstaller(t *testing.T, info types.Info) (string, []*types.PackInfo) {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte(strings.Repeat("a", 100)), 0644))
	require.NoError(t, os.WriteFile(b, []byte(strings.Repeat("b", 50)), 0644))

	output := filepath.Join(dir, "dist", "install.jar")
	resolver, err := NewMergeResolver("../../fixtures/skeleton", dir)
	require.NoError(t, err)
	packager := core.NewPackager(
		types.CompilerData{Output: output, Mkdirs: true, CompressionLevel: -1},
		nil,
		NewJarArchiveFactory(),
		resolver,
		NewResourceOpenerAdapter("../../fixtures"),
	)
	packager.SetInfo(info)
	packager.SetVariable("APP_NAME", "Demo")
	packager.AddRule(types.Condition{ID: "isLinux", Type: types.ConditionTypeVariable, Variable: "os", Value: "linux"})
	packager.AddDynamicVariable(types.DynamicVariable{Name: "bin", Value: "${home}/bin"})
	packager.AddDynamicVariable(types.DynamicVariable{Name: "home", Value: "/opt"})
	require.NoError(t, packager.AddPanel(types.Panel{ClassName: "com.izforge.izpack.panels.hello.HelloPanel"}))
	require.NoError(t, packager.AddLangPack("eng", "langpacks/eng.xml", ""))
	packs := []*types.PackInfo{
		{
			Pack: types.Pack{Name: "core"},
			Files: []*types.PackFile{
				{SourcePath: a, TargetPath: "$INSTALL_PATH/a.txt", Length: 100},
				{SourcePath: dir, TargetPath: "$INSTALL_PATH/dir", Directory: true},
				{SourcePath: b, TargetPath: "$INSTALL_PATH/b.txt", Length: 50},
			},
		},
		{
			Pack:  types.Pack{Name: "extra"},
			Files: []*types.PackFile{{SourcePath: a, TargetPath: "$INSTALL_PATH/extra/a.txt", Length: 100}},
		},
	}
	for _, pack := range packs {
		packager.AddPack(pack)
	}

	_, err = packager.CreateInstaller(t.Context())
	require.NoError(t, err)
	return output, packs
}

func TestInstallerReaderRoundTrip(t *testing.T) {
	formats := []types.PackCompression{
		types.PackCompressionDefault,
		types.PackCompressionDeflate,
		types.PackCompressionGzip,
		types.PackCompressionBzip2,
		types.PackCompressionXZ,
		types.PackCompressionLZMA,
	}
	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			output, packs := buildInstaller(t, types.Info{AppName: "Demo", AppVersion: "1.0", CompressionFormat: format})
			reader := NewInstallerReaderAdapter()

			contents, err := reader.Read(output)
			require.NoError(t, err)
			assert.Equal(t, core.ManifestPath, contents.Entries[0])
			assert.Equal(t, shared.PacksInfoPath, contents.Entries[len(contents.Entries)-1])
			assert.Contains(t, contents.Entries, "com/izforge/izpack/panels/hello/HelloPanel.class")
			assert.Contains(t, contents.Entries, "resources/langpacks/eng.xml")
			assert.Equal(t, format, contents.Info.CompressionFormat)
			assert.Equal(t, map[string]string{"APP_NAME": "Demo"}, contents.Variables)
			assert.Equal(t, []string{"eng"}, contents.LangPacks)
			require.Len(t, contents.DynamicVariables, 2)
			assert.Equal(t, "home", contents.DynamicVariables[0].Name)

			require.Len(t, contents.Packs, 2)
			assert.Equal(t, packs[0].Pack, contents.Packs[0].Pack)
			assert.Equal(t, packs[1].Pack, contents.Packs[1].Pack)

			for _, info := range contents.Packs {
				for _, file := range info.Files {
					assert.Empty(t, file.SourcePath, file.TargetPath)
				}
			}

			linked := contents.Packs[1].Files[0]
			require.True(t, linked.IsBackReference())
			data, err := reader.ReadPackFile(contents, linked)
			require.NoError(t, err)
			assert.Equal(t, strings.Repeat("a", 100), string(data))

			data, err = reader.ReadPackFile(contents, contents.Packs[0].Files[2])
			require.NoError(t, err)
			assert.Equal(t, strings.Repeat("b", 50), string(data))

			data, err = reader.ReadPackFile(contents, contents.Packs[0].Files[1])
			require.NoError(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestInstallerReaderSeparatePackArchives(t *testing.T) {
	output, _ := buildInstaller(t, types.Info{
		AppName:           "Demo",
		AppVersion:        "1.0",
		WebDirURL:         "https://example.com/packs",
		CompressionFormat: types.PackCompressionDeflate,
	})
	base := shared.InstallerBase(output)
	for _, name := range []string{"core", "extra"} {
		names, _ := readZip(t, shared.PackArchivePath(base, name))
		if diff := cmp.Diff([]string{"packs/pack-" + name}, names); diff != "" {
			t.Fatalf("unexpected pack archive entries (-want +got):\n%s", diff)
		}
	}

	reader := NewInstallerReaderAdapter()
	contents, err := reader.Read(output)
	require.NoError(t, err)
	assert.NotContains(t, contents.Entries, "resources/packs/pack-core")

	extraA := contents.Packs[1].Files[0]
	assert.False(t, extraA.IsBackReference())
	data, err := reader.ReadPackFile(contents, extraA)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 100), string(data))
}

func TestInstallerReaderErrors(t *testing.T) {
	_, err := NewInstallerReaderAdapter().Read(filepath.Join(t.TempDir(), "missing.jar"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	path := filepath.Join(t.TempDir(), "plain.jar")
	writeZipFile(t, path, [][2]string{{"META-INF/MANIFEST.MF", "Manifest-Version: 1.0\r\n"}})
	_, err = NewInstallerReaderAdapter().Read(path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = NewInstallerReaderAdapter().ReadPackFile(types.InstallerContents{Path: path}, &types.PackFile{TargetPath: "loose.txt", Length: 3})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}
