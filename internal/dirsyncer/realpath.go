package dirsyncer

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"bisync/internal/pathset"
)

const maxSymlinkHops = 40

//realPath resolves every symlink of the root-relative path p and returns it as a clean "/"-rooted path.
//Absolute link targets are taken relative to the filesystem root. A link leading above the root fails with
//pathset.ErrOutsideRoot.
func realPath(fsys billy.Filesystem, p string) (string, error) {
	pending := splitPath(p)
	resolved := "/"
	hops := 0
	for len(pending) > 0 {
		seg := pending[0]
		pending = pending[1:]
		switch seg {
		case "", ".":
			continue
		case "..":
			if resolved == "/" {
				return "", fmt.Errorf("%w: %q", pathset.ErrOutsideRoot, p)
			}
			resolved = path.Dir(resolved)
			continue
		}

		next := path.Join(resolved, seg)
		fi, err := fsys.Lstat(next)
		if err != nil {
			return "", err
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			resolved = next
			continue
		}

		if hops++; hops > maxSymlinkHops {
			return "", fmt.Errorf("%w: too many levels of symbolic links at %q", ErrCycleDetected, next)
		}
		target, err := fsys.Readlink(next)
		if err != nil {
			return "", err
		}
		target = filepath.ToSlash(target)
		if path.IsAbs(target) {
			resolved = "/"
		}
		pending = append(splitPath(target), pending...)
	}
	return resolved, nil
}

func splitPath(p string) []string {
	return strings.Split(filepath.ToSlash(p), "/")
}
