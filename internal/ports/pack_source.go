package ports

import "izpack/internal/types"

// PackSourcePort expands the file sources of a pack into pack files.
type PackSourcePort interface {
	CollectFiles(baseDir string, source types.FileSource) ([]*types.PackFile, error)
}
