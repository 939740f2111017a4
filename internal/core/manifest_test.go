package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifest(t *testing.T) {
	got := string(BuildManifest(map[string]string{
		"Implementation-Version": "1.2.3",
		"Main-Class":             "MyClass",
		"Built-By":               "ci",
	}))
	want := "Manifest-Version: 1.0\r\n" +
		"Created-By: IzPack\r\n" +
		"Main-Class: com.izforge.izpack.installer.bootstrap.Installer\r\n" +
		"Built-By: ci\r\n" +
		"Implementation-Version: 1.2.3\r\n" +
		"\r\n"
	assert.Equal(t, want, got)
}

func TestBuildManifestWrapsLongLines(t *testing.T) {
	value := strings.Repeat("x", 200)
	got := string(BuildManifest(map[string]string{"Class-Path": value}))

	for _, line := range strings.Split(strings.TrimSuffix(got, "\r\n\r\n"), "\r\n") {
		require.LessOrEqual(t, len(line), 72, line)
	}
	unfolded := strings.ReplaceAll(got, "\r\n ", "")
	assert.Contains(t, unfolded, "Class-Path: "+value+"\r\n")
}

func TestBuildManifestWrapsOnRuneBoundaries(t *testing.T) {
	value := strings.Repeat("é", 100)
	got := string(BuildManifest(map[string]string{"Implementation-Title": value}))

	for _, line := range strings.Split(strings.TrimSuffix(got, "\r\n\r\n"), "\r\n") {
		require.LessOrEqual(t, len(line), 72, line)
		require.True(t, utf8.ValidString(line), line)
	}
	unfolded := strings.ReplaceAll(got, "\r\n ", "")
	assert.Contains(t, unfolded, "Implementation-Title: "+value+"\r\n")
}
