package adapters

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/ports"
)

// MergeResolver serves mergeables from the skeleton runtime, a directory or a
// zip/jar archive, and from custom jars. Mergeables are cached so the same
// skeleton path or jar is merged once.
type MergeResolver struct {
	skeleton string
	baseDir  string
	cache    map[string]ports.Mergeable
}

// NewMergeResolver returns a resolver for the skeleton at skeletonPath. An
// empty skeletonPath merges nothing from the skeleton.
func NewMergeResolver(skeletonPath string, baseDir string) (*MergeResolver, error) {
	if skeletonPath != "" {
		if _, err := os.Stat(skeletonPath); err != nil {
			return nil, notFoundOrInternal(err, "skeleton runtime not found: "+skeletonPath)
		}
	}
	return &MergeResolver{skeleton: skeletonPath, baseDir: baseDir, cache: map[string]ports.Mergeable{}}, nil
}

func (r *MergeResolver) SkeletonMergeable(pathInSkeleton string) (ports.Mergeable, error) {
	if r.skeleton == "" {
		return r.cached("skeleton:", func() (ports.Mergeable, error) { return emptyMergeable{}, nil })
	}
	return r.cached("skeleton:"+pathInSkeleton, func() (ports.Mergeable, error) {
		return newLocationMergeable(r.skeleton, pathInSkeleton)
	})
}

// PanelMergeable merges the package of a panel class from the skeleton:
// com.acme.HelloPanel merges everything below com/acme/.
func (r *MergeResolver) PanelMergeable(className string) (ports.Mergeable, error) {
	className = strings.TrimSpace(className)
	if className == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("panel class name is empty")
	}
	return r.SkeletonMergeable(PanelPackagePath(className))
}

// MergeableFromURL merges a whole jar or directory given as a path, relative
// to the base directory, or as a file:// URL.
func (r *MergeResolver) MergeableFromURL(ref string) (ports.Mergeable, error) {
	location, err := r.localPath(ref)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(location); err != nil {
		return nil, notFoundOrInternal(err, "jar not found: "+ref)
	}
	return r.cached("jar:"+location, func() (ports.Mergeable, error) {
		return newLocationMergeable(location, "")
	})
}

func (r *MergeResolver) cached(key string, build func() (ports.Mergeable, error)) (ports.Mergeable, error) {
	if mergeable, ok := r.cache[key]; ok {
		return mergeable, nil
	}
	mergeable, err := build()
	if err != nil {
		return nil, err
	}
	r.cache[key] = mergeable
	return mergeable, nil
}

func (r *MergeResolver) localPath(ref string) (string, error) {
	if strings.Contains(ref, "://") {
		parsed, err := url.Parse(ref)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid jar url: " + ref).
				WithCause(err)
		}
		if parsed.Scheme != "file" {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("only local jars can be merged: " + ref)
		}
		return filepath.FromSlash(parsed.Path), nil
	}
	if filepath.IsAbs(ref) || r.baseDir == "" {
		return ref, nil
	}
	return filepath.Join(r.baseDir, ref), nil
}

// PanelPackagePath maps a panel class name onto the entry prefix of its
// package. A class without a package maps onto its own class file.
func PanelPackagePath(className string) string {
	idx := strings.LastIndex(className, ".")
	if idx < 0 {
		return className + ".class"
	}
	return strings.ReplaceAll(className[:idx], ".", "/") + "/"
}

func newLocationMergeable(location string, prefix string) (ports.Mergeable, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, notFoundOrInternal(err, "merge source not found: "+location)
	}
	if info.IsDir() {
		return &dirMergeable{root: location, prefix: prefix}, nil
	}
	return &zipMergeable{path: location, prefix: prefix}, nil
}

type emptyMergeable struct{}

func (emptyMergeable) Merge(ports.MergeTarget) error { return nil }

// dirMergeable offers the regular files below root whose slash separated
// relative path starts with prefix, in lexical order.
type dirMergeable struct {
	root   string
	prefix string
}

func (m *dirMergeable) Merge(target ports.MergeTarget) error {
	start := m.root
	if dir := strings.TrimSuffix(m.prefix, "/"); dir != "" && strings.HasSuffix(m.prefix, "/") {
		start = filepath.Join(m.root, filepath.FromSlash(dir))
	}
	if _, err := os.Stat(start); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	var names []string
	err := filepath.WalkDir(start, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(m.root, current)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, m.prefix) && !isManifestOrSignature(rel) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan merge directory " + start).
			WithCause(err)
	}
	sort.Strings(names)
	for _, name := range names {
		source := filepath.Join(m.root, filepath.FromSlash(name))
		info, err := os.Stat(source)
		if err != nil {
			return notFoundOrInternal(err, "merge source not found: "+source)
		}
		if _, err := target.Offer(name, info.ModTime(), copyFileAction(source)); err != nil {
			return err
		}
	}
	return nil
}

// zipMergeable offers the entries of a zip or jar archive whose name starts
// with prefix, in archive order. Manifests and signatures are never merged.
type zipMergeable struct {
	path   string
	prefix string
}

func (m *zipMergeable) Merge(target ports.MergeTarget) error {
	reader, err := zip.OpenReader(m.path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to open jar " + m.path).
			WithCause(err)
	}
	defer reader.Close()
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !strings.HasPrefix(file.Name, m.prefix) || isManifestOrSignature(file.Name) {
			continue
		}
		entry := file
		if _, err := target.Offer(entry.Name, entry.Modified, func(w io.Writer) error {
			rc, err := entry.Open()
			if err != nil {
				return err
			}
			defer rc.Close()
			_, err = io.Copy(w, rc)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func isManifestOrSignature(name string) bool {
	upper := strings.ToUpper(name)
	if upper == "META-INF/MANIFEST.MF" || upper == "META-INF/INDEX.LIST" {
		return true
	}
	if !strings.HasPrefix(upper, "META-INF/") || strings.Contains(upper[len("META-INF/"):], "/") {
		return false
	}
	for _, suffix := range []string{".SF", ".RSA", ".DSA", ".EC"} {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

func copyFileAction(source string) ports.WriteAction {
	return func(w io.Writer) error {
		file, err := os.Open(source)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(w, file)
		return err
	}
}

func notFoundOrInternal(err error, msg string) error {
	code := errbuilder.CodeInternal
	if errors.Is(err, fs.ErrNotExist) {
		code = errbuilder.CodeNotFound
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.MergeableResolver = (*MergeResolver)(nil)
