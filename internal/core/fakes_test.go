package core

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/ports"
	"izpack/internal/types"
)

type memArchive struct {
	path     string
	order    []string
	entries  map[string]*bytes.Buffer
	modTimes map[string]time.Time
	closed   bool
}

func newMemArchive(path string) *memArchive {
	return &memArchive{path: path, entries: map[string]*bytes.Buffer{}, modTimes: map[string]time.Time{}}
}

func (a *memArchive) Create(name string, modTime time.Time) (io.Writer, error) {
	if _, exists := a.entries[name]; exists {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("duplicate entry: %s", name))
	}
	buf := &bytes.Buffer{}
	a.entries[name] = buf
	a.modTimes[name] = modTime
	a.order = append(a.order, name)
	return buf, nil
}

func (a *memArchive) Offer(name string, modTime time.Time, write ports.WriteAction) (bool, error) {
	if _, exists := a.entries[name]; exists {
		return false, nil
	}
	out, err := a.Create(name, modTime)
	if err != nil {
		return false, err
	}
	return true, write(out)
}

func (a *memArchive) Flush() error { return nil }

func (a *memArchive) Close() error {
	a.closed = true
	return nil
}

func (a *memArchive) Entries() []string { return append([]string{}, a.order...) }

func (a *memArchive) Path() string { return a.path }

func (a *memArchive) data(name string) []byte {
	buf, ok := a.entries[name]
	if !ok {
		return nil
	}
	return buf.Bytes()
}

// memArchiveFactory hands out in-memory archives and touches a file at each
// path so cleanup can be observed on disk.
type memArchiveFactory struct {
	archives map[string]*memArchive
}

func newMemArchiveFactory() *memArchiveFactory {
	return &memArchiveFactory{archives: map[string]*memArchive{}}
}

func (f *memArchiveFactory) Create(path string, mkdirs bool, _ int) (ports.ArchiveWriter, error) {
	if mkdirs {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, err
	}
	archive := newMemArchive(path)
	f.archives[path] = archive
	return archive, nil
}

type memMergeable struct {
	entries map[string]string
}

func (m *memMergeable) Merge(target ports.MergeTarget) error {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		content := m.entries[name]
		if _, err := target.Offer(name, time.Time{}, func(w io.Writer) error {
			_, err := io.WriteString(w, content)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// fakeResolver serves skeleton paths from a flat entry map.
type fakeResolver struct {
	skeleton  map[string]string
	jars      map[string]*memMergeable
	requested []string
}

func (r *fakeResolver) SkeletonMergeable(path string) (ports.Mergeable, error) {
	r.requested = append(r.requested, path)
	entries := map[string]string{}
	for name, content := range r.skeleton {
		if strings.HasPrefix(name, path) {
			entries[name] = content
		}
	}
	return &memMergeable{entries: entries}, nil
}

func (r *fakeResolver) PanelMergeable(className string) (ports.Mergeable, error) {
	idx := strings.LastIndex(className, ".")
	if idx < 0 {
		return &memMergeable{}, nil
	}
	return r.SkeletonMergeable(strings.ReplaceAll(className[:idx], ".", "/") + "/")
}

func (r *fakeResolver) MergeableFromURL(ref string) (ports.Mergeable, error) {
	jar, ok := r.jars[ref]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("jar not found: %s", ref))
	}
	return jar, nil
}

type fakeOpener struct {
	content map[string]string
}

func (o fakeOpener) Open(ref string) (io.ReadCloser, time.Time, error) {
	content, ok := o.content[ref]
	if !ok {
		return nil, time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("resource not found: %s", ref))
	}
	return io.NopCloser(strings.NewReader(content)), time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), nil
}

type listenerEvent struct {
	kind     string
	msg      string
	priority types.MsgPriority
}

type recordingListener struct {
	events []listenerEvent
}

func (l *recordingListener) PackagerStart() {
	l.events = append(l.events, listenerEvent{kind: "start"})
}

func (l *recordingListener) PackagerMsg(msg string, priority types.MsgPriority) {
	l.events = append(l.events, listenerEvent{kind: "msg", msg: msg, priority: priority})
}

func (l *recordingListener) PackagerStop() {
	l.events = append(l.events, listenerEvent{kind: "stop"})
}

func (l *recordingListener) kinds() []string {
	var kinds []string
	for _, event := range l.events {
		if event.kind != "msg" {
			kinds = append(kinds, event.kind)
		}
	}
	return kinds
}

func writeSource(t *testing.T, dir string, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := bytes.Repeat([]byte(name[:1]), size)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func sourceFile(path string, target string, length int64) *types.PackFile {
	return &types.PackFile{SourcePath: path, TargetPath: target, Length: length}
}
