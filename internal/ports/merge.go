package ports

import (
	"io"
	"time"
)

// WriteAction streams the content of an offered entry.
type WriteAction func(w io.Writer) error

// MergeTarget accepts named entries. Offer returns false without calling
// write when an entry of that name was already added.
type MergeTarget interface {
	Offer(name string, modTime time.Time, write WriteAction) (bool, error)
}

// Mergeable is a source of entries merged into the installer.
type Mergeable interface {
	Merge(target MergeTarget) error
}

// MergeableResolver turns skeleton paths, panel classes and jar references
// into mergeables.
type MergeableResolver interface {
	SkeletonMergeable(pathInSkeleton string) (Mergeable, error)
	PanelMergeable(className string) (Mergeable, error)
	MergeableFromURL(ref string) (Mergeable, error)
}
