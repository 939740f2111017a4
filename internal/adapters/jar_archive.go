package adapters

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/flate"

	"izpack/internal/ports"
)

type JarArchiveFactory struct{}

func NewJarArchiveFactory() JarArchiveFactory {
	return JarArchiveFactory{}
}

// Create opens a new zip archive at path, truncating any existing file.
// Entries are deflated at level; levels outside 0-9 select the best
// compression.
func (f JarArchiveFactory) Create(path string, mkdirs bool, level int) (ports.ArchiveWriter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive path is empty")
	}
	dir := filepath.Dir(path)
	if mkdirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create output directory " + dir).
				WithCause(err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		code := errbuilder.CodeInternal
		switch {
		case errors.Is(err, fs.ErrNotExist):
			code = errbuilder.CodeNotFound
		case errors.Is(err, fs.ErrPermission):
			code = errbuilder.CodePermissionDenied
		}
		return nil, errbuilder.New().
			WithCode(code).
			WithMsg("failed to create archive " + path).
			WithCause(err)
	}
	if level < flate.NoCompression || level > flate.BestCompression {
		level = flate.BestCompression
	}
	buffered := bufio.NewWriter(file)
	writer := zip.NewWriter(buffered)
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
	return &JarArchive{
		path:     path,
		file:     file,
		buffered: buffered,
		zip:      writer,
		names:    map[string]struct{}{},
	}, nil
}

// JarArchive writes zip entries sequentially. Entry names are unique.
type JarArchive struct {
	path     string
	file     *os.File
	buffered *bufio.Writer
	zip      *zip.Writer
	entries  []string
	names    map[string]struct{}
	closed   bool
}

func (a *JarArchive) Create(name string, modTime time.Time) (io.Writer, error) {
	if a.closed {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("archive is closed: " + a.path)
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive entry name is empty")
	}
	if _, exists := a.names[name]; exists {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("duplicate archive entry %s in %s", name, a.path))
	}
	header := &zip.FileHeader{Name: name, Method: zip.Deflate}
	if strings.HasSuffix(name, "/") {
		header.Method = zip.Store
	}
	if !modTime.IsZero() {
		header.Modified = modTime
	}
	out, err := a.zip.CreateHeader(header)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to add entry %s to %s", name, a.path)).
			WithCause(err)
	}
	a.names[name] = struct{}{}
	a.entries = append(a.entries, name)
	return out, nil
}

func (a *JarArchive) Offer(name string, modTime time.Time, write ports.WriteAction) (bool, error) {
	if _, exists := a.names[strings.ReplaceAll(name, "\\", "/")]; exists {
		return false, nil
	}
	out, err := a.Create(name, modTime)
	if err != nil {
		return false, err
	}
	if err := write(out); err != nil {
		return true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to merge entry %s", name)).
			WithCause(err)
	}
	return true, nil
}

func (a *JarArchive) Flush() error {
	if err := a.zip.Flush(); err != nil {
		return err
	}
	return a.buffered.Flush()
}

func (a *JarArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	err := a.zip.Close()
	if flushErr := a.buffered.Flush(); err == nil {
		err = flushErr
	}
	if closeErr := a.file.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (a *JarArchive) Entries() []string {
	return append([]string(nil), a.entries...)
}

func (a *JarArchive) Path() string {
	return a.path
}

var (
	_ ports.ArchiveFactory = JarArchiveFactory{}
	_ ports.ArchiveWriter  = (*JarArchive)(nil)
)
