package ports

import (
	"io"
	"time"
)

// ArchiveWriter is an installer or pack archive being written. Entries are
// written sequentially; the writer returned by Create is valid until the next
// Create, Offer or Close.
type ArchiveWriter interface {
	MergeTarget
	Create(name string, modTime time.Time) (io.Writer, error)
	Flush() error
	Close() error
	Entries() []string
	Path() string
}

// ArchiveFactory opens archives for writing.
type ArchiveFactory interface {
	Create(path string, mkdirs bool, level int) (ArchiveWriter, error)
}
