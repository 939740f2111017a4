package core

import (
	"bytes"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	ManifestPath = "META-INF/MANIFEST.MF"

	installerMainClass = "com.izforge.izpack.installer.bootstrap.Installer"
)

var reservedManifestKeys = map[string]struct{}{
	"manifest-version": {},
	"created-by":       {},
	"main-class":       {},
}

// BuildManifest renders the installer manifest. Extra entries are appended
// sorted by key and cannot override the reserved attributes.
func BuildManifest(extra map[string]string) []byte {
	var buf bytes.Buffer
	writeManifestLine(&buf, "Manifest-Version", "1.0")
	writeManifestLine(&buf, "Created-By", "IzPack")
	writeManifestLine(&buf, "Main-Class", installerMainClass)

	keys := make([]string, 0, len(extra))
	for key := range extra {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		if _, reserved := reservedManifestKeys[strings.ToLower(trimmed)]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		writeManifestLine(&buf, strings.TrimSpace(key), extra[key])
	}
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// writeManifestLine wraps lines at 72 bytes without splitting a UTF-8
// sequence; continuation lines start with a single space.
func writeManifestLine(buf *bytes.Buffer, key string, value string) {
	line := key + ": " + value
	limit := 72
	for len(line) > limit {
		cut := limit
		for cut > 1 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		buf.WriteString(line[:cut])
		buf.WriteString("\r\n ")
		line = line[cut:]
		limit = 71
	}
	buf.WriteString(line)
	buf.WriteString("\r\n")
}
