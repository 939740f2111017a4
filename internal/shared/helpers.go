// Package shared provides common utility functions used across multiple
// packages in the izpack codebase.
package shared

import (
	"fmt"
	"path"
	"strings"
)

// InstallerBase strips the ".jar" suffix from an installer output path. Pack
// archives written next to the installer are named after it.
func InstallerBase(output string) string {
	return strings.TrimSuffix(output, ".jar")
}

// PackArchivePath returns the path of the separate archive holding one pack.
func PackArchivePath(installerBase string, packName string) string {
	return installerBase + ".pack-" + packName + ".jar"
}

// EntryName converts a path to the forward-slash, relative form used for
// archive entry names.
func EntryName(value string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), "\\", "/")
	normalized = strings.TrimLeft(normalized, "/")
	if normalized == "" {
		return ""
	}
	cleaned := path.Clean(normalized)
	if strings.HasSuffix(normalized, "/") && cleaned != "." {
		cleaned += "/"
	}
	return cleaned
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
