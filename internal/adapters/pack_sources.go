package adapters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"

	"izpack/internal/ports"
	"izpack/internal/types"
)

type PackSourceAdapter struct{}

func NewPackSourceAdapter() PackSourceAdapter {
	return PackSourceAdapter{}
}

// CollectFiles expands one file source into pack files in lexical walk order.
// A file source yields a single file installed into TargetDir; a directory
// source yields the directory tree below it, filtered by Includes and Excludes.
func (a PackSourceAdapter) CollectFiles(baseDir string, source types.FileSource) ([]*types.PackFile, error) {
	if strings.TrimSpace(source.Src) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("file source src is empty")
	}
	if err := validatePatterns(source.Includes); err != nil {
		return nil, err
	}
	if err := validatePatterns(source.Excludes); err != nil {
		return nil, err
	}

	root := source.Src
	if !filepath.IsAbs(root) {
		root = filepath.Join(baseDir, root)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve file source " + source.Src).
			WithCause(err)
	}
	info, err := os.Stat(root)
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errbuilder.CodeNotFound
		}
		return nil, errbuilder.New().
			WithCode(code).
			WithMsg("file source not found: " + root).
			WithCause(err)
	}

	targetDir := strings.TrimRight(filepath.ToSlash(source.TargetDir), "/")
	if !info.IsDir() {
		return []*types.PackFile{newPackFile(root, joinTarget(targetDir, filepath.Base(root)), info, source.Condition)}, nil
	}

	var files []*types.PackFile
	err = filepath.WalkDir(root, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if current == root {
			return nil
		}
		if d.IsDir() && shouldSkipSourceDir(d.Name()) {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, current)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchesAny(source.Excludes, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && len(source.Includes) > 0 && !matchesAny(source.Includes, rel) {
			return nil
		}
		entryInfo, err := d.Info()
		if err != nil {
			return err
		}
		if !d.IsDir() && !entryInfo.Mode().IsRegular() {
			return nil
		}
		files = append(files, newPackFile(current, joinTarget(targetDir, rel), entryInfo, source.Condition))
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan file source " + root).
			WithCause(err)
	}
	if len(source.Includes) > 0 {
		files = pruneEmptyDirs(files)
	}
	return files, nil
}

func newPackFile(sourcePath string, target string, info fs.FileInfo, condition string) *types.PackFile {
	file := &types.PackFile{
		SourcePath: sourcePath,
		TargetPath: target,
		Directory:  info.IsDir(),
		Condition:  condition,
	}
	if !info.IsDir() {
		file.Length = info.Size()
	}
	return file
}

func joinTarget(targetDir string, rel string) string {
	if targetDir == "" {
		return rel
	}
	return path.Join(targetDir, rel)
}

// pruneEmptyDirs drops directories that ended up with no included file.
func pruneEmptyDirs(files []*types.PackFile) []*types.PackFile {
	used := map[string]bool{}
	for _, file := range files {
		if file.Directory {
			continue
		}
		for dir := path.Dir(file.TargetPath); dir != "." && dir != "/" && !used[dir]; dir = path.Dir(dir) {
			used[dir] = true
		}
	}
	kept := files[:0]
	for _, file := range files {
		if file.Directory && !used[file.TargetPath] {
			continue
		}
		kept = append(kept, file)
	}
	return kept
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid file pattern: %s", pattern))
		}
	}
	return nil
}

func shouldSkipSourceDir(name string) bool {
	switch name {
	case ".git", ".svn", ".hg", "CVS":
		return true
	default:
		return false
	}
}

var _ ports.PackSourcePort = PackSourceAdapter{}
