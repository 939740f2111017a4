package streams

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izpack/internal/types"
)

type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("izpack pack content ", 200))
	formats := []types.PackCompression{
		types.PackCompressionDefault,
		types.PackCompressionDeflate,
		types.PackCompressionGzip,
		types.PackCompressionBzip2,
		types.PackCompressionXZ,
		types.PackCompressionLZMA,
	}
	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			sink := &closeTracker{}
			counter := NewCountingWriter(sink)
			writer, err := NewCompressedWriter(format, counter, 9)
			require.NoError(t, err)
			n, err := writer.Write(payload)
			require.NoError(t, err)
			assert.Equal(t, len(payload), n)
			require.NoError(t, writer.Close())

			assert.False(t, sink.closed, "codec must not close the shared stream")
			assert.Equal(t, int64(sink.Len()), counter.ByteCount())
			if format != types.PackCompressionDefault {
				assert.Less(t, counter.ByteCount(), int64(len(payload)))
			}

			reader, err := NewDecompressedReader(format, bytes.NewReader(sink.Bytes()))
			require.NoError(t, err)
			defer reader.Close()
			got, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestParsePackCompression(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected types.PackCompression
	}{
		{name: "empty is default", value: "", expected: types.PackCompressionDefault},
		{name: "default", value: "default", expected: types.PackCompressionDefault},
		{name: "deflate", value: "deflate", expected: types.PackCompressionDeflate},
		{name: "gzip upper case", value: "GZIP", expected: types.PackCompressionGzip},
		{name: "bzip2", value: "bzip2", expected: types.PackCompressionBzip2},
		{name: "xz", value: " xz ", expected: types.PackCompressionXZ},
		{name: "lzma", value: "lzma", expected: types.PackCompressionLZMA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePackCompression(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParsePackCompressionRejectsUnknown(t *testing.T) {
	_, err := ParsePackCompression("zstd")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "zstd")
}

func TestCountingWriterCountsAcrossWrites(t *testing.T) {
	var buf bytes.Buffer
	counter := NewCountingWriter(&buf)
	_, err := counter.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = counter.Write([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), counter.ByteCount())
	require.NoError(t, counter.Flush())
}
