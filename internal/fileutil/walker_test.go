package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree creates files (with parent directories) under a fresh temp dir.
func makeTree(t *testing.T, files []string) string {
	t.Helper()
	tmpDir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(tmpDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content\n"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
	return tmpDir
}

func collectRegular(t *testing.T, root string, opts WalkOptions) []string {
	t.Helper()
	var got []string
	for entry, err := range Walk(root, opts) {
		require.NoError(t, err)
		if entry.IsRegular() {
			rel, relErr := filepath.Rel(root, entry.Path)
			require.NoError(t, relErr)
			got = append(got, filepath.ToSlash(rel))
		}
	}
	return got
}

func TestWalk(t *testing.T) {
	// tmpDir/
	//   b.txt
	//   a/
	//     z.txt
	//     deep/
	//       y.txt
	//   .git/
	//     config
	//     objects/
	//       pack
	//   vendor/
	//     .git/
	//       HEAD
	//     lib.go
	//   .hidden/
	//     h.txt
	tmpDir := makeTree(t, []string{
		"b.txt",
		"a/z.txt",
		"a/deep/y.txt",
		".git/config",
		".git/objects/pack",
		"vendor/.git/HEAD",
		"vendor/lib.go",
		".hidden/h.txt",
	})

	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{
			name: "default exclusion",
			opts: WalkOptions{ExcludeDirs: DefaultExcludeDirs},
			want: []string{".hidden/h.txt", "a/deep/y.txt", "a/z.txt", "b.txt", "vendor/lib.go"},
		},
		{
			name: "no exclusion",
			opts: WalkOptions{},
			want: []string{
				".git/config", ".git/objects/pack", ".hidden/h.txt",
				"a/deep/y.txt", "a/z.txt", "b.txt",
				"vendor/.git/HEAD", "vendor/lib.go",
			},
		},
		{
			name: "several excluded names",
			opts: WalkOptions{ExcludeDirs: []string{".git", "vendor", "deep"}},
			want: []string{".hidden/h.txt", "a/z.txt", "b.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectRegular(t, tmpDir, tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalk_PreOrderIncludesDirectories(t *testing.T) {
	tmpDir := makeTree(t, []string{"a/x", "b"})

	var got []string
	for entry, err := range Walk(tmpDir, WalkOptions{}) {
		require.NoError(t, err)
		rel, _ := filepath.Rel(tmpDir, entry.Path)
		if entry.IsDir() {
			rel += "/"
		}
		got = append(got, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"./", "a/", "a/x", "b"}, got)
}

func TestWalk_Deterministic(t *testing.T) {
	tmpDir := makeTree(t, []string{"c/1", "a/2", "b/3", "a/b/4", "z"})
	opts := WalkOptions{ExcludeDirs: DefaultExcludeDirs}

	first := collectRegular(t, tmpDir, opts)
	second := collectRegular(t, tmpDir, opts)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a/2", "a/b/4", "b/3", "c/1", "z"}, first)
}

func TestWalk_SymlinksNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	tmpDir := makeTree(t, []string{"target/inner.txt", "file.txt"})
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "target"), filepath.Join(tmpDir, "link")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "file.txt"), filepath.Join(tmpDir, "filelink")))

	var symlinks []string
	for entry, err := range Walk(tmpDir, WalkOptions{}) {
		require.NoError(t, err)
		if entry.Type&os.ModeSymlink != 0 {
			symlinks = append(symlinks, filepath.Base(entry.Path))
			assert.False(t, entry.IsRegular())
		}
	}

	assert.Equal(t, []string{"file.txt", "target/inner.txt"}, collectRegular(t, tmpDir, WalkOptions{}))
	assert.Equal(t, []string{"filelink", "link"}, symlinks)
}

func TestWalk_RootIsFile(t *testing.T) {
	tmpDir := makeTree(t, []string{"only.txt"})
	root := filepath.Join(tmpDir, "only.txt")

	var got []Entry
	for entry, err := range Walk(root, WalkOptions{}) {
		require.NoError(t, err)
		got = append(got, entry)
	}

	require.Len(t, got, 1)
	assert.Equal(t, root, got[0].Path)
	assert.True(t, got[0].IsRegular())
}

func TestWalk_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	var errs []error
	for _, err := range Walk(root, WalkOptions{}) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	var werr *WalkError
	require.True(t, errors.As(errs[0], &werr))
	assert.True(t, werr.Root)
	assert.Equal(t, root, werr.Path)
	assert.True(t, errors.Is(errs[0], os.ErrNotExist))
	assert.Contains(t, werr.Error(), "cannot walk")
}

func TestWalk_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	tmpDir := makeTree(t, []string{"locked/secret.txt", "open.txt"})
	locked := filepath.Join(tmpDir, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	var files []string
	var errs []*WalkError
	for entry, err := range Walk(tmpDir, WalkOptions{}) {
		if err != nil {
			var werr *WalkError
			require.True(t, errors.As(err, &werr))
			errs = append(errs, werr)
			continue
		}
		if entry.IsRegular() {
			files = append(files, filepath.Base(entry.Path))
		}
	}

	assert.Equal(t, []string{"open.txt"}, files)
	require.Len(t, errs, 1)
	assert.False(t, errs[0].Root)
	assert.Equal(t, locked, errs[0].Path)
}

func TestWalk_OnExcludeReportsPrunedPaths(t *testing.T) {
	tmpDir := makeTree(t, []string{".git/config", ".git/objects/pack", "a/.git/HEAD", "keep.txt"})

	var pruned []string
	opts := WalkOptions{
		ExcludeDirs: DefaultExcludeDirs,
		OnExclude: func(path string) {
			rel, err := filepath.Rel(tmpDir, path)
			require.NoError(t, err)
			pruned = append(pruned, filepath.ToSlash(rel))
		},
	}

	assert.Equal(t, []string{"keep.txt"}, collectRegular(t, tmpDir, opts))
	assert.Equal(t, []string{".git", "a/.git"}, pruned)
}

func TestWalk_StopEarly(t *testing.T) {
	tmpDir := makeTree(t, []string{"a", "b", "c"})

	count := 0
	for entry := range Walk(tmpDir, WalkOptions{}) {
		if entry.IsRegular() {
			count++
			break
		}
	}

	assert.Equal(t, 1, count)
}

func TestIsExcluded(t *testing.T) {
	excluded := map[string]bool{".git": true}

	assert.True(t, isExcluded("repo/.git/config", excluded))
	assert.True(t, isExcluded(".git", excluded))
	assert.False(t, isExcluded("repo/.github/workflows", excluded))
	assert.False(t, isExcluded("repo/my.git/file", excluded))
	assert.False(t, isExcluded("repo/.git/config", nil))
}
