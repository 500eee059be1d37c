package dirsyncer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"bisync/generated/mocks"
	"bisync/internal/model"
)

//fill creates the entries: a name ending with "/" is a directory, a content starting with "->" makes a symlink.
func fill(t *testing.T, fsys billy.Filesystem, entries map[string]string) {
	t.Helper()
	for name, content := range entries {
		switch {
		case strings.HasSuffix(name, "/"):
			require.NoError(t, fsys.MkdirAll(name, 0o755))
		case strings.HasPrefix(content, "->"):
			require.NoError(t, fsys.MkdirAll(filepath.Dir(name), 0o755))
			require.NoError(t, fsys.Symlink(strings.TrimPrefix(content, "->"), name))
		default:
			require.NoError(t, util.WriteFile(fsys, name, []byte(content), 0o644))
		}
	}
}

//memRoot builds an in-memory tree. It lives in a subdirectory so that the root itself always exists.
func memRoot(t *testing.T, path string, entries map[string]string) model.Root {
	t.Helper()
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("root", 0o755))
	fsys, err := mem.Chroot("root")
	require.NoError(t, err)
	fill(t, fsys, entries)
	return model.Root{Path: path, FS: fsys}
}

func osRoot(t *testing.T, entries map[string]string) model.Root {
	t.Helper()
	dir := t.TempDir()
	fill(t, osfs.New(dir), entries)
	return model.NewOSRoot(dir)
}

//tree describes every entry below the root (hidden ones included) by its type and content.
func tree(t *testing.T, root model.Root) map[string]string {
	t.Helper()
	entries := make(map[string]string)
	err := util.Walk(root.FS, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		path = filepath.ToSlash(filepath.Clean(path))
		if path == "." {
			return nil
		}
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := root.FS.Readlink(path)
			if err != nil {
				return err
			}
			entries[path] = "->" + target
		case info.IsDir():
			entries[path+"/"] = ""
		default:
			data, err := util.ReadFile(root.FS, path)
			if err != nil {
				return err
			}
			entries[path] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return entries
}

//stamps records the modification time of every entry below the root.
func stamps(t *testing.T, root model.Root) map[string]time.Time {
	t.Helper()
	times := make(map[string]time.Time)
	err := util.Walk(root.FS, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		times[filepath.ToSlash(filepath.Clean(path))] = info.ModTime()
		return nil
	})
	require.NoError(t, err)
	return times
}

//withoutHidden drops the tree entries that have a dot-prefixed segment.
func withoutHidden(entries map[string]string) map[string]string {
	visible := make(map[string]string, len(entries))
	for path, v := range entries {
		hidden := false
		for _, seg := range strings.Split(strings.TrimSuffix(path, "/"), "/") {
			if strings.HasPrefix(seg, ".") {
				hidden = true
				break
			}
		}
		if !hidden {
			visible[path] = v
		}
	}
	return visible
}

var errInjected = errors.New("injected read failure")

//failingFS fails to open the given path for reading.
type failingFS struct {
	billy.Filesystem
	failOn string
}

func (f *failingFS) Open(name string) (billy.File, error) {
	if filepath.ToSlash(filepath.Clean(name)) == f.failOn {
		return nil, errInjected
	}
	return f.Filesystem.Open(name)
}

func getMockLogger(mockCtrl *gomock.Controller, any gomock.Matcher) *mocks.MockLogger {
	loggerMock := mocks.NewMockLogger(mockCtrl)
	loggerMock.EXPECT().Debug(any).AnyTimes()
	loggerMock.EXPECT().Debug(any, any).AnyTimes()
	loggerMock.EXPECT().Info(any).AnyTimes()
	loggerMock.EXPECT().Info(any, any).AnyTimes()
	loggerMock.EXPECT().Warn(any).AnyTimes()
	loggerMock.EXPECT().Warn(any, any).AnyTimes()
	loggerMock.EXPECT().With(any).Return(loggerMock).AnyTimes()
	return loggerMock
}
