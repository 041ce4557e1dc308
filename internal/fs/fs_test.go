package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (slash paths relative to root) with the given content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestDocFinder_FindDocuments(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":                 "root readme",
		"CHANGELOG.md":              "changes",
		"notes.txt":                 "not markdown",
		"docs/index.md":             "index",
		"docs/adr/0002-use-go.md":   "adr",
		"docs/adr/0001-record.md":   "adr",
		"docs/adr/drafts/wip.md":    "wip",
		"docs/guide/setup.md":       "guide",
		"docs/guide/setup.markdown": "other extension",
		"docs/a-b/z.md":             "dash dir",
		"docs/a/z.md":               "plain dir",
		"src/pkg/doc.md":            "outside docs",
	})

	tests := []struct {
		name   string
		finder DocFinder
		want   []string
	}{
		{
			name:   "docs subtree only",
			finder: DocFinder{Root: root, DocsDir: "docs"},
			want: []string{
				"docs/a/z.md",
				"docs/a-b/z.md",
				"docs/adr/0001-record.md",
				"docs/adr/0002-use-go.md",
				"docs/adr/drafts/wip.md",
				"docs/guide/setup.md",
				"docs/index.md",
			},
		},
		{
			name:   "include root",
			finder: DocFinder{Root: root, DocsDir: "docs", IncludeRoot: true},
			want: []string{
				"CHANGELOG.md",
				"README.md",
				"docs/a/z.md",
				"docs/a-b/z.md",
				"docs/adr/0001-record.md",
				"docs/adr/0002-use-go.md",
				"docs/adr/drafts/wip.md",
				"docs/guide/setup.md",
				"docs/index.md",
			},
		},
		{
			name: "exclude patterns",
			finder: DocFinder{
				Root:    root,
				DocsDir: "docs",
				Exclude: []string{"docs/**/drafts/**", "docs/a*/z.md"},
			},
			want: []string{
				"docs/adr/0001-record.md",
				"docs/adr/0002-use-go.md",
				"docs/guide/setup.md",
				"docs/index.md",
			},
		},
		{
			name:   "nested docs dir",
			finder: DocFinder{Root: root, DocsDir: "docs/adr"},
			want: []string{
				"docs/adr/0001-record.md",
				"docs/adr/0002-use-go.md",
				"docs/adr/drafts/wip.md",
			},
		},
		{
			name:   "docs dir equal to root does not duplicate",
			finder: DocFinder{Root: root, DocsDir: ".", IncludeRoot: true, Exclude: []string{"docs/**", "src/**"}},
			want:   []string{"CHANGELOG.md", "README.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.finder.FindDocuments(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocFinder_MissingDocsDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"README.md": "readme"})

	got, err := (&DocFinder{Root: root, DocsDir: "docs"}).FindDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = (&DocFinder{Root: root, DocsDir: "docs", IncludeRoot: true}).FindDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, got)
}

func TestDocFinder_SkipsDirectoriesNamedLikeMarkdown(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"docs/weird.md/inner.md": "inner"})

	got, err := (&DocFinder{Root: root, DocsDir: "docs"}).FindDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/weird.md/inner.md"}, got)
}

func TestDocFinder_InvalidExcludePattern(t *testing.T) {
	f := &DocFinder{Root: t.TempDir(), DocsDir: "docs", Exclude: []string{"docs/[.md"}}

	_, err := f.FindDocuments(context.Background())

	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestDocFinder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&DocFinder{Root: t.TempDir(), DocsDir: "docs"}).FindDocuments(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestOSContentReader_ReadFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/plain.md": "Title: Plain\n",
		"docs/bom.md":   "\xef\xbb\xbfTitle: With BOM\n",
		"docs/bad.md":   "Title: Caf\xe9\n",
	})

	tests := []struct {
		name    string
		strict  bool
		file    string
		want    string
		wantErr bool
	}{
		{name: "plain", file: "docs/plain.md", want: "Title: Plain\n"},
		{name: "bom dropped", file: "docs/bom.md", want: "Title: With BOM\n"},
		{name: "invalid bytes replaced", file: "docs/bad.md", want: "Title: Caf\uFFFD\n"},
		{name: "strict plain", strict: true, file: "docs/plain.md", want: "Title: Plain\n"},
		{name: "strict rejects invalid bytes", strict: true, file: "docs/bad.md", wantErr: true},
		{name: "missing file", file: "docs/missing.md", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &OSContentReader{Root: root, StrictDecode: tt.strict}

			got, err := r.ReadFile(context.Background(), tt.file)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOSContentReader_MissingFileIsNotExist(t *testing.T) {
	r := &OSContentReader{Root: t.TempDir()}

	_, err := r.ReadFile(context.Background(), "docs/missing.md")

	assert.True(t, errors.Is(err, os.ErrNotExist), "err = %v, want os.ErrNotExist", err)
}

func TestOSContentReader_AbsolutePath(t *testing.T) {
	other := t.TempDir()
	writeTree(t, other, map[string]string{"x.md": "Title: X\n"})

	r := &OSContentReader{Root: t.TempDir()}
	got, err := r.ReadFile(context.Background(), filepath.Join(other, "x.md"))

	require.NoError(t, err)
	assert.Equal(t, "Title: X\n", got)
}

func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern("docs/**/*.md"))
	assert.NoError(t, ValidatePattern("README.md"))
	assert.ErrorIs(t, ValidatePattern("docs/[a"), ErrInvalidPattern)
}

func TestFindRootImpl(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"file.md": "x"})

	got, err := FindRootImpl(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	_, err = FindRootImpl(filepath.Join(dir, "file.md"))
	assert.Error(t, err, "a file is not a valid root")

	_, err = FindRootImpl(filepath.Join(dir, "nope"))
	assert.Error(t, err)

	wd, err := FindRootImpl("")
	require.NoError(t, err)
	assert.NotEmpty(t, wd)
}

func TestRelPath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative stays relative", "docs/a.md", "docs/a.md"},
		{"relative is cleaned", "./docs/../docs/a.md", "docs/a.md"},
		{"absolute inside root", filepath.Join(root, "docs", "a.md"), "docs/a.md"},
		{"absolute outside root", filepath.Join(string(filepath.Separator), "elsewhere", "a.md"), "/elsewhere/a.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelPath(root, tt.in))
		})
	}
}
