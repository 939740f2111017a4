// Package testutil provides shared test helpers used by the integration and
// e2e suites.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// Fixture returns the absolute path of a file below fixtures/ and fails the
// test when it does not exist.
func Fixture(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{RepoRoot(t), "fixtures"}, parts...)...)
	_, err := os.Stat(path)
	require.NoError(t, err, "fixture %s", path)
	return path
}
