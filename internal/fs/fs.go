// Package fs provides filesystem adapters that implement validator service interfaces.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidPattern is returned for malformed exclude glob patterns.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// ValidatePattern checks that p is a well-formed doublestar pattern.
func ValidatePattern(p string) error {
	if !doublestar.ValidatePattern(p) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
	}
	return nil
}

// DocFinder implements validator.DocumentFinder by globbing Markdown files
// under a documentation root.
type DocFinder struct {
	// Root is the repository root; returned paths are relative to it.
	Root string
	// DocsDir is the documentation subdirectory searched recursively.
	DocsDir string
	// IncludeRoot also selects Markdown files directly under Root.
	IncludeRoot bool
	// Exclude holds doublestar patterns matched against root-relative paths.
	Exclude []string
}

// FindDocumentsImpl returns the sorted, de-duplicated document paths.
// A missing docs directory yields no documents.
func (f *DocFinder) FindDocumentsImpl(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range f.Exclude {
		if err := ValidatePattern(p); err != nil {
			return nil, err
		}
	}

	fsys := os.DirFS(f.Root)
	docsDir := path.Clean(filepath.ToSlash(f.DocsDir))

	found, err := globFiles(fsys, docsDir, "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("finding documents in %s: %w", docsDir, err)
	}
	if f.IncludeRoot {
		top, err := globFiles(fsys, ".", "*.md")
		if err != nil {
			return nil, fmt.Errorf("finding documents in %s: %w", f.Root, err)
		}
		found = append(found, top...)
	}

	seen := make(map[string]bool, len(found))
	var docs []string
	for _, p := range found {
		if seen[p] || f.excluded(p) {
			continue
		}
		seen[p] = true
		docs = append(docs, p)
	}
	sortPaths(docs)
	return docs, nil
}

// FindDocuments delegates to FindDocumentsImpl.
func (f *DocFinder) FindDocuments(ctx context.Context) ([]string, error) {
	return f.FindDocumentsImpl(ctx)
}

func (f *DocFinder) excluded(p string) bool {
	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// globFiles matches pattern inside dir and returns regular-file matches as
// paths relative to the root of fsys.
func globFiles(fsys iofs.FS, dir, pattern string) ([]string, error) {
	sub, err := iofs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(sub, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := iofs.Stat(sub, m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, path.Join(dir, m))
	}
	return out, nil
}

// sortPaths orders slash paths component by component so that a directory
// sorts before siblings that merely share its prefix.
func sortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		a := strings.Split(paths[i], "/")
		b := strings.Split(paths[j], "/")
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}

// OSContentReader implements validator.ContentReader using os.ReadFile.
type OSContentReader struct {
	Root string
	// StrictDecode rejects invalid UTF-8 instead of replacing it with U+FFFD.
	StrictDecode bool
}

// ReadFileImpl reads and decodes a file. Relative names resolve against Root.
func (cr *OSContentReader) ReadFileImpl(_ context.Context, name string) (string, error) {
	p := filepath.FromSlash(name)
	if !filepath.IsAbs(p) {
		p = filepath.Join(cr.Root, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return Decode(data, cr.StrictDecode)
}

// ReadFile delegates to ReadFileImpl.
func (cr *OSContentReader) ReadFile(ctx context.Context, name string) (string, error) {
	return cr.ReadFileImpl(ctx, name)
}

// Decode converts raw bytes to text. A leading UTF-8 byte order mark is
// dropped. Invalid sequences are replaced with U+FFFD, or rejected with an
// error when strict is set.
func Decode(data []byte, strict bool) (string, error) {
	if strict {
		if _, _, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
			return "", err
		}
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FindRootImpl resolves dir to an absolute, existing directory. An empty dir
// means the current working directory.
func FindRootImpl(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root %s is not a directory", abs)
	}
	return abs, nil
}

// RelPath returns name relative to root with forward slashes. Names outside
// root are returned cleaned but otherwise unchanged.
func RelPath(root, name string) string {
	if !filepath.IsAbs(name) {
		return filepath.ToSlash(filepath.Clean(name))
	}
	rel, err := filepath.Rel(root, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(filepath.Clean(name))
	}
	return filepath.ToSlash(rel)
}
