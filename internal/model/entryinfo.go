package model

import "os"

//PathInfo holds info about one dir entry in a file tree (of either left OR right root).
//Mode and Size are taken after following symlinks.
type PathInfo struct {
	Exists bool
	Mode   os.FileMode
	Size   int64 // in bytes
}

func NewPathInfo(fi os.FileInfo) PathInfo {
	return PathInfo{Exists: true, Mode: fi.Mode(), Size: fi.Size()}
}

func (p PathInfo) IsDir() bool {
	return p.Exists && p.Mode.IsDir()
}

func (p PathInfo) IsRegular() bool {
	return p.Exists && p.Mode.IsRegular()
}

//EntryKind is the class of one name found in either listing of a compared directory pair.
type EntryKind string

const (
	KindNone         EntryKind = "none"
	KindLeftOnly     EntryKind = "left_only"
	KindRightOnly    EntryKind = "right_only"
	KindCommonFile   EntryKind = "common_file"
	KindCommonDir    EntryKind = "common_dir"
	KindTypeMismatch EntryKind = "type_mismatch"
	KindUnsupported  EntryKind = "unsupported"
)

//Side names one of the two roots.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

//EntryInfo holds info about same dir entry in BOTH file trees (left and right).
type EntryInfo struct {
	Name          string
	LeftPathInfo  PathInfo
	RightPathInfo PathInfo
}

//Kind classifies the entry. Entries that are neither regular files nor directories on a side where they exist
//are unsupported, whatever the other side holds.
func (e *EntryInfo) Kind() EntryKind {
	l, r := e.LeftPathInfo, e.RightPathInfo
	switch {
	case !l.Exists && !r.Exists:
		return KindNone
	case l.Exists && !l.IsDir() && !l.IsRegular(), r.Exists && !r.IsDir() && !r.IsRegular():
		return KindUnsupported
	case !r.Exists:
		return KindLeftOnly
	case !l.Exists:
		return KindRightOnly
	case l.IsDir() && r.IsDir():
		return KindCommonDir
	case l.IsRegular() && r.IsRegular():
		return KindCommonFile
	default:
		return KindTypeMismatch
	}
}

//AheadSide returns the side holding the larger copy of a common file, or SideNone if sizes are equal
//or the entry is not a common file. The larger side wins: its copy replaces the other one.
func (e *EntryInfo) AheadSide() Side {
	if e.Kind() != KindCommonFile {
		return SideNone
	}
	switch {
	case e.LeftPathInfo.Size > e.RightPathInfo.Size:
		return SideLeft
	case e.LeftPathInfo.Size < e.RightPathInfo.Size:
		return SideRight
	default:
		return SideNone
	}
}
