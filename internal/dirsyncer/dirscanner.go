package dirsyncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"bisync/internal/log"
	"bisync/internal/model"
	"bisync/internal/pathset"
)

//dirScanner service walks both roots in lock-step and collects the entries that are missing or outdated on one side.
type dirScanner struct {
	log          log.Logger
	hiddenPrefix string
}

func newDirScanner(logger log.Logger, hiddenPrefix string) *dirScanner {
	return &dirScanner{log: logger, hiddenPrefix: hiddenPrefix}
}

//branch holds the real paths of the directories from a root down to the currently compared one, for both sides.
type branch struct {
	left, right []string
}

func (b branch) with(leftReal, rightReal string) branch {
	return branch{
		left:  append(b.left[:len(b.left):len(b.left)], leftReal),
		right: append(b.right[:len(b.right):len(b.right)], rightReal),
	}
}

//compare returns absolute paths: LeftOnly ones are under the left root, RightOnly ones under the right root.
//Any error aborts the whole comparison, no partial result is returned.
func (d *dirScanner) compare(ctx context.Context, left, right model.Root) (model.DiffResult, error) {
	var result model.DiffResult
	if err := d.compareDirs(ctx, left, right, ".", branch{}.with("/", "/"), &result); err != nil {
		return model.DiffResult{}, err
	}
	sort.Strings(result.LeftOnly)
	sort.Strings(result.RightOnly)
	return result, nil
}

func (d *dirScanner) compareDirs(
	ctx context.Context, left, right model.Root, rel string, br branch, result *model.DiffResult,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	leftDir, rightDir := absPath(left, rel), absPath(right, rel)
	d.log.Debug("comparing directories", log.String("left", leftDir), log.String("right", rightDir))

	leftList, err := d.listDir(left, rel)
	if err != nil {
		return err
	}
	rightList, err := d.listDir(right, rel)
	if err != nil {
		return err
	}

	entries := make(map[string]*model.EntryInfo, len(leftList)+len(rightList))
	for _, fi := range leftList {
		info, err := d.statEntry(left, rel, fi)
		if err != nil {
			return err
		}
		entries[fi.Name()] = &model.EntryInfo{Name: fi.Name(), LeftPathInfo: info}
	}
	for _, fi := range rightList {
		info, err := d.statEntry(right, rel, fi)
		if err != nil {
			return err
		}
		if e, ok := entries[fi.Name()]; ok {
			e.RightPathInfo = info
		} else {
			entries[fi.Name()] = &model.EntryInfo{Name: fi.Name(), RightPathInfo: info}
		}
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var commonDirs []string
	for _, name := range names {
		e := entries[name]
		childRel := path.Join(rel, name)
		switch e.Kind() {
		case model.KindLeftOnly:
			result.LeftOnly = append(result.LeftOnly, absPath(left, childRel))
		case model.KindRightOnly:
			result.RightOnly = append(result.RightOnly, absPath(right, childRel))
		case model.KindCommonFile:
			switch e.AheadSide() {
			case model.SideLeft:
				d.log.Debug("file is larger on the left side", log.String("path", childRel),
					log.Int64("leftSize", e.LeftPathInfo.Size), log.Int64("rightSize", e.RightPathInfo.Size))
				result.LeftOnly = append(result.LeftOnly, absPath(left, childRel))
			case model.SideRight:
				d.log.Debug("file is larger on the right side", log.String("path", childRel),
					log.Int64("leftSize", e.LeftPathInfo.Size), log.Int64("rightSize", e.RightPathInfo.Size))
				result.RightOnly = append(result.RightOnly, absPath(right, childRel))
			}
		case model.KindCommonDir:
			commonDirs = append(commonDirs, name)
		case model.KindTypeMismatch:
			return fmt.Errorf("%w: %q (%s) vs %q (%s)", ErrTypeMismatch,
				absPath(left, childRel), describe(e.LeftPathInfo), absPath(right, childRel), describe(e.RightPathInfo))
		case model.KindUnsupported:
			d.log.Warn("skipping entry that is neither a regular file nor a directory",
				log.String("left", absPath(left, childRel)), log.String("right", absPath(right, childRel)))
		}
	}

	for _, name := range commonDirs {
		childRel := path.Join(rel, name)
		leftReal, err := d.enter(left, childRel, br.left)
		if err != nil {
			return err
		}
		rightReal, err := d.enter(right, childRel, br.right)
		if err != nil {
			return err
		}
		if err := d.compareDirs(ctx, left, right, childRel, br.with(leftReal, rightReal), result); err != nil {
			return err
		}
	}
	return nil
}

//listDir checks that rel is a directory of the root and returns its non-hidden entries.
func (d *dirScanner) listDir(root model.Root, rel string) ([]os.FileInfo, error) {
	dir := absPath(root, rel)
	info, err := root.FS.Stat(rel)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %q", ErrNotADirectory, dir)
	case err != nil:
		return nil, fmt.Errorf("cannot stat directory %q: %w", dir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %q", ErrNotADirectory, dir)
	}

	list, err := root.FS.ReadDir(rel)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	filtered := list[:0]
	for _, fi := range list {
		if pathset.IsHidden(fi.Name(), d.hiddenPrefix) {
			continue
		}
		filtered = append(filtered, fi)
	}
	return filtered, nil
}

//statEntry follows a symlink entry to the info of its target. A dangling symlink keeps its own info.
func (d *dirScanner) statEntry(root model.Root, dirRel string, fi os.FileInfo) (model.PathInfo, error) {
	if fi.Mode()&os.ModeSymlink == 0 {
		return model.NewPathInfo(fi), nil
	}
	rel := path.Join(dirRel, fi.Name())
	target, err := root.FS.Stat(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.log.Debug("dangling symlink", log.String("path", absPath(root, rel)))
			return model.NewPathInfo(fi), nil
		}
		return model.PathInfo{}, fmt.Errorf("cannot stat %q: %w", absPath(root, rel), err)
	}
	return model.NewPathInfo(target), nil
}

//enter returns the real path of the directory rel, failing if it is already on the branch.
func (d *dirScanner) enter(root model.Root, rel string, ancestors []string) (string, error) {
	realDir := path.Join(ancestors[len(ancestors)-1], path.Base(rel))
	fi, err := root.FS.Lstat(rel)
	if err != nil {
		return "", fmt.Errorf("cannot stat %q: %w", absPath(root, rel), err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		resolved, err := realPath(root.FS, rel)
		switch {
		case errors.Is(err, ErrCycleDetected):
			return "", fmt.Errorf("%q: %w", absPath(root, rel), err)
		case err != nil:
			// the link leads outside of the root, so the lexical path stands for it
			d.log.Debug("symlink target is not resolvable inside the root",
				log.String("path", absPath(root, rel)), log.Cause(err))
		default:
			realDir = resolved
		}
	}
	for _, a := range ancestors {
		if a == realDir {
			return "", fmt.Errorf("%w: %q leads back to %q", ErrCycleDetected, absPath(root, rel), absPath(root, a))
		}
	}
	return realDir, nil
}

func absPath(root model.Root, rel string) string {
	return filepath.Join(root.Path, filepath.FromSlash(rel))
}

func describe(info model.PathInfo) string {
	if info.IsDir() {
		return "directory"
	}
	return "file"
}
