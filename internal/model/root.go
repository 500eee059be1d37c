package model

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

//Root is one of the two sync points: its absolute path and the filesystem rooted at it.
//All filesystem calls made through FS take paths relative to Path.
type Root struct {
	Path  string
	FS    billy.Filesystem
	local bool
}

func NewOSRoot(path string) Root {
	return Root{Path: path, FS: osfs.New(path), local: true}
}

//Local reports whether Path is a real location on the OS filesystem.
func (r Root) Local() bool {
	return r.local
}

func (r Root) String() string {
	return r.Path
}
