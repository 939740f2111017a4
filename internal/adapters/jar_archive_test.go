package adapters

import (
	"archive/zip"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()
	var names []string
	contents := map[string]string{}
	for _, file := range reader.File {
		names = append(names, file.Name)
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		contents[file.Name] = string(data)
	}
	return names, contents
}

func TestJarArchiveWritesEntriesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jar")
	archive, err := NewJarArchiveFactory().Create(path, true, 42)
	require.NoError(t, err)

	out, err := archive.Create("META-INF/MANIFEST.MF", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = io.WriteString(out, "Manifest-Version: 1.0\r\n")
	require.NoError(t, err)

	written, err := archive.Offer("resources/info", time.Time{}, func(w io.Writer) error {
		_, err := io.WriteString(w, "info")
		return err
	})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = archive.Offer("resources/info", time.Time{}, func(w io.Writer) error {
		t.Fatal("offer of an existing entry must not write")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, written)

	require.NoError(t, archive.Flush())
	require.NoError(t, archive.Close())
	require.NoError(t, archive.Close())
	assert.Equal(t, path, archive.Path())

	want := []string{"META-INF/MANIFEST.MF", "resources/info"}
	if diff := cmp.Diff(want, archive.Entries()); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
	names, contents := readZip(t, path)
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("unexpected zip entries (-want +got):\n%s", diff)
	}
	assert.Equal(t, "info", contents["resources/info"])
}

func TestJarArchiveRejectsDuplicateEntries(t *testing.T) {
	archive, err := NewJarArchiveFactory().Create(filepath.Join(t.TempDir(), "out.jar"), false, 0)
	require.NoError(t, err)
	defer archive.Close()

	_, err = archive.Create("resources/packs/pack-core", time.Time{})
	require.NoError(t, err)
	_, err = archive.Create("resources/packs/pack-core", time.Time{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))
}

func TestJarArchiveWithoutMkdirs(t *testing.T) {
	_, err := NewJarArchiveFactory().Create(filepath.Join(t.TempDir(), "missing", "out.jar"), false, 9)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestJarArchiveCreateAfterClose(t *testing.T) {
	archive, err := NewJarArchiveFactory().Create(filepath.Join(t.TempDir(), "out.jar"), false, 5)
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	_, err = archive.Create("late", time.Time{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}
