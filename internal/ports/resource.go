package ports

import (
	"io"
	"time"
)

// ResourceOpener opens installer resources by reference: a filesystem path, a
// file:// URL or an http(s) URL. The returned time is zero when the source
// has no modification time.
type ResourceOpener interface {
	Open(ref string) (io.ReadCloser, time.Time, error)
}
