package ports

import "izpack/internal/types"

type SBOMPort interface {
	WriteSBOM(path string, info types.Info, createdAt string, packs []*types.PackInfo) error
}
