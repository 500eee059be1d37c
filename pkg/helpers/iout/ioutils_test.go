package iout

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	requires := require.New(t)

	// 1. arrange
	srcFS := osfs.New(t.TempDir())
	copyFS := osfs.New(t.TempDir())
	fileName := "some_file.txt"
	requires.NoError(util.WriteFile(srcFS, fileName, []byte("some content"), 0o640))
	modTime := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	requires.NoError(os.Chtimes(srcFS.Join(srcFS.Root(), fileName), modTime, modTime))
	srcFileInfo, err := srcFS.Stat(fileName)
	requires.NoError(err)

	// 2. act
	destPath := "nested/dir/" + fileName
	n, err := CopyFile(context.Background(), srcFS, fileName, copyFS, destPath, srcFileInfo)

	// 3. assert that the original and the copied files have same names (in their dirs), size and perm
	requires.NoError(err)
	requires.Equal(srcFileInfo.Size(), n)
	copiedFileInfo, err := copyFS.Stat(destPath)
	requires.NoError(err)
	requires.Equal(fileName, copiedFileInfo.Name())
	requires.False(copiedFileInfo.IsDir())
	requires.Equal(srcFileInfo.Size(), copiedFileInfo.Size())
	requires.Equal(srcFileInfo.Mode().Perm(), copiedFileInfo.Mode().Perm())
	content, err := util.ReadFile(copyFS, destPath)
	requires.NoError(err)
	requires.Equal("some content", string(content))
}

func TestCopyFileReplacesContent(t *testing.T) {
	requires := require.New(t)
	srcFS, copyFS := memfs.New(), memfs.New()
	requires.NoError(util.WriteFile(srcFS, "f.txt", []byte("short"), 0o644))
	requires.NoError(util.WriteFile(copyFS, "f.txt", []byte("a much longer content"), 0o644))
	info, err := srcFS.Stat("f.txt")
	requires.NoError(err)

	_, err = CopyFile(context.Background(), srcFS, "f.txt", copyFS, "f.txt", info)

	requires.NoError(err)
	content, err := util.ReadFile(copyFS, "f.txt")
	requires.NoError(err)
	requires.Equal("short", string(content))
}

func TestCopyFileCanceled(t *testing.T) {
	requires := require.New(t)
	srcFS, copyFS := memfs.New(), memfs.New()
	requires.NoError(util.WriteFile(srcFS, "f.txt", []byte("content"), 0o644))
	info, err := srcFS.Stat("f.txt")
	requires.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = CopyFile(ctx, srcFS, "f.txt", copyFS, "f.txt", info)

	requires.ErrorIs(err, context.Canceled)
}

func TestEnsureDirExistsCannotMakeDir(t *testing.T) {
	requires := require.New(t)
	fsys := memfs.New()
	requires.NoError(util.WriteFile(fsys, "some_file.txt", []byte("x"), 0o644))

	err := EnsureDirExists(fsys, "some_file.txt", os.ModePerm) // file is not a directory!

	requires.Error(err)
	requires.ErrorContains(err, "cannot make dir")
}

func TestRemoveAll(t *testing.T) {
	requires := require.New(t)
	fsys := memfs.New()
	requires.NoError(util.WriteFile(fsys, "dir/sub/a.txt", []byte("a"), 0o644))
	requires.NoError(util.WriteFile(fsys, "dir/b.txt", []byte("b"), 0o644))

	requires.NoError(RemoveAll(fsys, "dir"))
	requires.NoError(RemoveAll(fsys, "missing")) // absent entries are fine

	exists, err := Exists(fsys, "dir")
	requires.NoError(err)
	requires.False(exists)
}

func TestCopySymlink(t *testing.T) {
	requires := require.New(t)
	srcFS, copyFS := memfs.New(), memfs.New()
	requires.NoError(util.WriteFile(srcFS, "target.txt", []byte("t"), 0o644))
	requires.NoError(srcFS.Symlink("target.txt", "link"))

	target, err := CopySymlink(srcFS, "link", copyFS, "link")

	requires.NoError(err)
	requires.Equal("target.txt", target)
	got, err := copyFS.Readlink("link")
	requires.NoError(err)
	requires.Equal("target.txt", got)
}
