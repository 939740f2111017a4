// Package streams implements the per-file content pipeline used while packs
// are written: byte counting and the pack compression codecs.
package streams

import (
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	dsbzip2 "github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"izpack/internal/types"
)

var compressionNames = map[string]types.PackCompression{
	"":        types.PackCompressionDefault,
	"default": types.PackCompressionDefault,
	"none":    types.PackCompressionDefault,
	"deflate": types.PackCompressionDeflate,
	"gzip":    types.PackCompressionGzip,
	"gz":      types.PackCompressionGzip,
	"bzip2":   types.PackCompressionBzip2,
	"bz2":     types.PackCompressionBzip2,
	"xz":      types.PackCompressionXZ,
	"lzma":    types.PackCompressionLZMA,
}

// ParsePackCompression maps a compression format name onto its enum value.
func ParsePackCompression(name string) (types.PackCompression, error) {
	format, ok := compressionNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported pack compression format: %s", name))
	}
	return format, nil
}

// NewCompressedWriter wraps w with the codec selected by format. Closing the
// returned writer finishes the compressed stream but leaves w open. Level is
// only honoured by deflate, gzip and bzip2; -1 selects the codec default.
func NewCompressedWriter(format types.PackCompression, w io.Writer, level int) (io.WriteCloser, error) {
	switch format {
	case types.PackCompressionDefault, "":
		return NopWriteCloser(w), nil
	case types.PackCompressionDeflate:
		return flate.NewWriter(w, codecLevel(level, flate.DefaultCompression))
	case types.PackCompressionGzip:
		return gzip.NewWriterLevel(w, codecLevel(level, gzip.DefaultCompression))
	case types.PackCompressionBzip2:
		return dsbzip2.NewWriter(w, &dsbzip2.WriterConfig{Level: bzip2Level(level)})
	case types.PackCompressionXZ:
		return xz.NewWriter(w)
	case types.PackCompressionLZMA:
		return lzma.NewWriter(w)
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported pack compression format: %s", format))
	}
}

// NewDecompressedReader is the reading counterpart of NewCompressedWriter.
func NewDecompressedReader(format types.PackCompression, r io.Reader) (io.ReadCloser, error) {
	switch format {
	case types.PackCompressionDefault, "":
		return io.NopCloser(r), nil
	case types.PackCompressionDeflate:
		return flate.NewReader(r), nil
	case types.PackCompressionGzip:
		return gzip.NewReader(r)
	case types.PackCompressionBzip2:
		return dsbzip2.NewReader(r, nil)
	case types.PackCompressionXZ:
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(reader), nil
	case types.PackCompressionLZMA:
		reader, err := lzma.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(reader), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported pack compression format: %s", format))
	}
}

func codecLevel(level int, fallback int) int {
	if level < 0 || level > 9 {
		return fallback
	}
	return level
}

func bzip2Level(level int) int {
	if level < dsbzip2.BestSpeed || level > dsbzip2.BestCompression {
		return dsbzip2.DefaultCompression
	}
	return level
}
