package types

import "time"

// CompilerData carries the packaging configuration for one build.
type CompilerData struct {
	// Output is the installer archive path; it conventionally ends in ".jar".
	Output  string
	BaseDir string
	Mkdirs  bool

	// Compression overrides the pack compression format of the installer
	// info when set.
	Compression PackCompression

	// CompressionLevel applies to archive entries. Values outside 0-9 select
	// the best compression.
	CompressionLevel int

	// SkeletonPath locates the pre-built installer runtime, a directory or a
	// zip/jar archive. Empty means no runtime is merged.
	SkeletonPath    string
	ManifestEntries map[string]string

	// BuildTime pins the modification time of the entries the packager writes
	// itself. Zero means the time the build runs.
	BuildTime time.Time
}
