package iout

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

//readerWithContext allows to perform a cancellable read operation.
type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func newReaderWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &readerWithContext{ctx: ctx, r: r}
}

func (r *readerWithContext) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	default:
		return r.r.Read(p)
	}
}

//Exists reports whether anything (a symlink included) is present at the path.
func Exists(fsys billy.Filesystem, path string) (bool, error) {
	_, err := fsys.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("cannot stat entry: %w", err)
	}
}

//RemoveAll removes a file or a directory with all its content. A missing path is not an error.
func RemoveAll(fsys billy.Basic, path string) error {
	if err := util.RemoveAll(fsys, path); err != nil {
		return fmt.Errorf("cannot remove entry: %w", err)
	}
	return nil
}

//EnsureDirExists creates the directory at the path together with all missing parents.
func EnsureDirExists(fsys billy.Dir, path string, perm os.FileMode) error {
	if err := fsys.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("cannot make dir: %w", err)
	}
	return nil
}

//CopyFile copies the regular file at srcPath of src to dstPath of dst, creating missing parent dirs.
//The copy gets the source permission bits and, if dst supports it, the source modTime.
//It returns the number of copied bytes.
func CopyFile(ctx context.Context, src billy.Filesystem, srcPath string, dst billy.Filesystem, dstPath string,
	srcInfo os.FileInfo,
) (int64, error) {
	if err := EnsureDirExists(dst, filepath.Dir(dstPath), os.ModePerm); err != nil {
		return 0, err
	}
	n, err := copyFileContents(ctx, src, srcPath, dst, dstPath, srcInfo.Mode().Perm())
	if err != nil {
		return n, fmt.Errorf("cannot copy file: %w", err)
	}
	if ch, ok := dst.(billy.Change); ok {
		if err := ch.Chtimes(dstPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
			return n, fmt.Errorf("cannot set file modification time: %w", err)
		}
	}
	return n, nil
}

func copyFileContents(ctx context.Context, src billy.Filesystem, srcPath string, dst billy.Filesystem, dstPath string,
	perm os.FileMode,
) (n int64, err error) {
	in, err := src.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("cannot open file: %w", err)
	}
	defer in.Close()

	out, err := dst.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("cannot create file: %w", err)
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("cannot close file: %w", cErr)
		}
	}()

	if n, err = io.Copy(out, newReaderWithContext(ctx, in)); err != nil {
		return n, fmt.Errorf("cannot read/write file content: %w", err)
	}
	return n, nil
}

//CopySymlink recreates the symlink at srcPath of src as dstPath of dst with the same target.
func CopySymlink(src billy.Filesystem, srcPath string, dst billy.Filesystem, dstPath string) (string, error) {
	target, err := src.Readlink(srcPath)
	if err != nil {
		return "", fmt.Errorf("cannot read symlink: %w", err)
	}
	if err := dst.Symlink(target, dstPath); err != nil {
		return target, fmt.Errorf("cannot create symlink: %w", err)
	}
	return target, nil
}
