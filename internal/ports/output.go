package ports

import "izpack/internal/types"

// ReportPort writes build side reports next to the installer.
type ReportPort interface {
	WritePackIndex(path string, index types.PackIndex) error
}

type InstallerReaderPort interface {
	Read(path string) (types.InstallerContents, error)
	ReadPackFile(contents types.InstallerContents, file *types.PackFile) ([]byte, error)
}
