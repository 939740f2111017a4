package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/ports"
	"izpack/internal/shared"
	"izpack/internal/streams"
	"izpack/internal/types"
)

const defaultCodecLevel = -1

// PackWriteResult is what the pack writer produced. PackArchives is filled
// even when writing fails, so the caller can remove them.
type PackWriteResult struct {
	Index        types.PackIndex
	PackArchives []string
}

// PackWriter writes pack content streams, either into the installer archive
// or into one archive per pack, and links files whose source was already
// written to the installer.
type PackWriter struct {
	archives      ports.ArchiveFactory
	listener      ports.PackagerListener
	compression   types.PackCompression
	separate      bool
	installerBase string
	mkdirs        bool
	archiveLevel  int
	modTime       time.Time
}

type PackWriterOptions struct {
	Compression   types.PackCompression
	Separate      bool
	InstallerBase string
	Mkdirs        bool
	ArchiveLevel  int
	ModTime       time.Time
}

func NewPackWriter(archives ports.ArchiveFactory, listener ports.PackagerListener, opts PackWriterOptions) *PackWriter {
	return &PackWriter{
		archives:      archives,
		listener:      listener,
		compression:   opts.Compression,
		separate:      opts.Separate,
		installerBase: opts.InstallerBase,
		mkdirs:        opts.Mkdirs,
		archiveLevel:  opts.ArchiveLevel,
		modTime:       opts.ModTime,
	}
}

// WritePacks writes every pack in order, then the packs.info record into the
// installer once all sizes are final.
func (w *PackWriter) WritePacks(installer ports.ArchiveWriter, packs []*types.PackInfo) (PackWriteResult, error) {
	result := PackWriteResult{}
	suffix := "s"
	if len(packs) == 1 {
		suffix = ""
	}
	w.listener.PackagerMsg(fmt.Sprintf("Writing %d Pack%s into installer", len(packs), suffix), types.MsgInfo)

	stored := map[string]*types.PackFile{}
	streamNames := map[string]bool{}
	for number, info := range packs {
		pack := &info.Pack
		w.listener.PackagerMsg(fmt.Sprintf("Writing Pack %d: %s", number, pack.Name), types.MsgVerbose)

		streamName := shared.PackStreamName(pack.Name)
		if streamNames[streamName] {
			return result, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("pack %q writes stream %s more than once", pack.Name, streamName))
		}
		streamNames[streamName] = true
		target := installer
		entryName := shared.ResourcesPath + streamName
		if w.separate {
			path := shared.PackArchivePath(w.installerBase, pack.Name)
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return result, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg(fmt.Sprintf("remove stale pack archive %s", path)).
					WithCause(err)
			}
			archive, err := w.archives.Create(path, w.mkdirs, w.archiveLevel)
			if err != nil {
				return result, err
			}
			result.PackArchives = append(result.PackArchives, path)
			target = archive
			entryName = streamName
		}

		err := w.writePack(target, entryName, streamName, info, stored)
		if w.separate {
			if closeErr := target.Close(); err == nil && closeErr != nil {
				err = errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg(fmt.Sprintf("close pack archive %s", target.Path())).
					WithCause(closeErr)
			}
		}
		if err != nil {
			return result, err
		}

		entry := types.PackIndexEntry{
			Name:     pack.Name,
			Size:     pack.Size,
			FileSize: pack.FileSize,
			ID:       pack.LangPackID,
		}
		result.Index.Packs = append(result.Index.Packs, entry)
	}

	out, err := installer.Create(shared.PacksInfoPath, w.modTime)
	if err != nil {
		return result, err
	}
	if err := shared.EncodeRecord(out, shared.RecordPacksInfo, packs); err != nil {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("write packs.info").
			WithCause(err)
	}
	return result, nil
}

func (w *PackWriter) writePack(target ports.ArchiveWriter, entryName string, streamName string, info *types.PackInfo, stored map[string]*types.PackFile) error {
	pack := &info.Pack
	pack.FileSize = 0

	out, err := target.Create(entryName, w.modTime)
	if err != nil {
		return err
	}
	// offsets must be relative to the entry start
	if err := target.Flush(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("flush %s", target.Path())).
			WithCause(err)
	}
	counter := streams.NewCountingWriter(out)

	for _, file := range info.Files {
		addFile := !pack.Loose
		key := dedupKey(file.SourcePath)
		if linked, ok := stored[key]; ok && !w.separate {
			w.listener.PackagerMsg(fmt.Sprintf("File %s is a back reference, linked to %s", file.TargetPath, linked.TargetPath), types.MsgDebug)
			file.LinkedPackFile = linked
			addFile = false
		}

		if addFile && !file.Directory {
			file.StreamResourceName = streamName
			file.StreamOffset = counter.ByteCount()
			size, err := w.copyFile(counter, file)
			if err != nil {
				return err
			}
			file.Size = size
			w.listener.PackagerMsg(fmt.Sprintf("File %s added compressed as %s (%d -> %d bytes)", file.TargetPath, w.compression, file.Length, file.Size), types.MsgDebug)
			stored[key] = file
		}

		pack.AddFileSize(file.Length)
	}

	if pack.FileSize > pack.Size {
		pack.Size = pack.FileSize
	}
	return counter.Flush()
}

// copyFile compresses one source file onto the pack stream and returns the
// number of bytes it occupies there.
func (w *PackWriter) copyFile(stream io.Writer, file *types.PackFile) (int64, error) {
	src, err := os.Open(file.SourcePath)
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errbuilder.CodeNotFound
		}
		return 0, errbuilder.New().
			WithCode(code).
			WithMsg(fmt.Sprintf("open pack source %s", file.SourcePath)).
			WithCause(err)
	}
	defer src.Close()

	proxy := streams.NewCountingWriter(stream)
	compressed, err := streams.NewCompressedWriter(w.compression, proxy, defaultCodecLevel)
	if err != nil {
		return 0, err
	}
	written, copyErr := io.Copy(compressed, src)
	closeErr := compressed.Close()
	if copyErr != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("copy pack source %s", file.SourcePath)).
			WithCause(copyErr)
	}
	if closeErr != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("finish compressed stream for %s", file.SourcePath)).
			WithCause(closeErr)
	}
	if written != file.Length {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("file size mismatch when reading %s: declared %d bytes, read %d", file.SourcePath, file.Length, written))
	}
	return proxy.ByteCount(), nil
}

func dedupKey(sourcePath string) string {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return filepath.Clean(sourcePath)
	}
	return abs
}
