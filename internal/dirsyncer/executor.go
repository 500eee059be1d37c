package dirsyncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bisync/internal/log"
	"bisync/internal/model"
	"bisync/internal/pathset"
	"bisync/pkg/helpers/iout"
)

//taskExecutor service copies the planned entries from one root to the other.
//Each entry fully replaces its destination; a failed entry is removed from the destination and stops the batch.
type taskExecutor struct {
	log    log.Logger
	dryRun bool
}

func newTaskExecutor(logger log.Logger, dryRun bool) *taskExecutor {
	return &taskExecutor{log: logger, dryRun: dryRun}
}

//apply returns the operations performed (or, in a dry run, planned) so far, also when it fails.
func (e *taskExecutor) apply(ctx context.Context, from, to model.Root, relPaths []string) ([]*model.Operation, error) {
	var ops []*model.Operation
	for _, rel := range relPaths {
		j := &copyJob{ctx: ctx, log: e.log, dryRun: e.dryRun, from: from, to: to}
		err := j.run(rel)
		ops = append(ops, j.ops...)
		if err != nil {
			return ops, err
		}
	}
	return ops, nil
}

//copyJob copies one top-level entry, with everything below it.
type copyJob struct {
	ctx      context.Context
	log      log.Logger
	dryRun   bool
	from, to model.Root
	ops      []*model.Operation
}

func (j *copyJob) run(rel string) error {
	src, dst := absPath(j.from, rel), absPath(j.to, rel)
	if err := j.ctx.Err(); err != nil {
		return &CopyError{Src: src, Dst: dst, Err: err}
	}
	if err := j.checkSource(rel); err != nil {
		return err
	}
	info, err := j.from.FS.Stat(rel)
	if err != nil {
		return &CopyError{Src: src, Dst: dst, Err: err}
	}

	if err := j.removeExisting(rel); err != nil {
		j.rollback(rel)
		return err
	}
	if err := j.copyEntry(rel, info); err != nil {
		j.rollback(rel)
		return err
	}
	return nil
}

//checkSource refuses a top-level entry whose symlinks never resolve, or whose real location is the destination root
//or one of its ancestors. Nested entries are listed without following links, so only the top-level one is checked.
func (j *copyJob) checkSource(rel string) error {
	src, dst := absPath(j.from, rel), absPath(j.to, rel)
	if _, err := realPath(j.from.FS, rel); errors.Is(err, ErrCycleDetected) {
		return &CopyError{Src: src, Dst: dst, Err: err}
	}
	if !j.from.Local() || !j.to.Local() {
		return nil
	}

	srcReal, err := filepath.EvalSymlinks(src)
	if err != nil {
		return &CopyError{Src: src, Dst: dst, Err: err}
	}
	dstRoot, err := filepath.EvalSymlinks(j.to.Path)
	if err != nil {
		return &CopyError{Dst: j.to.Path, Err: err}
	}
	if _, err := pathset.Rel(srcReal, dstRoot); err == nil || srcReal == dstRoot {
		return &CopyError{Src: src, Dst: dst, Err: fmt.Errorf("%w: %q encloses the destination root %q",
			ErrCycleDetected, srcReal, dstRoot)}
	}
	return nil
}

func (j *copyJob) record(kind model.OperationKind, src, dst string, size int64) *model.Operation {
	op := model.NewOperation(kind, src, dst, size)
	if j.dryRun {
		op.Plan()
	}
	j.ops = append(j.ops, op)
	return op
}

func (j *copyJob) removeExisting(rel string) error {
	dst := absPath(j.to, rel)
	exists, err := iout.Exists(j.to.FS, rel)
	if err != nil {
		return &CopyError{Dst: dst, Err: err}
	}
	if !exists {
		return nil
	}

	op := j.record(model.OpKindRemove, "", dst, 0)
	j.log.Debug("removing outdated entry", log.String("path", dst), log.Bool("dryRun", j.dryRun))
	if j.dryRun {
		return nil
	}
	if err := iout.RemoveAll(j.to.FS, rel); err != nil {
		op.Fail(err)
		return &CopyError{Dst: dst, Err: err}
	}
	op.Complete()
	return nil
}

//copyEntry dispatches on the entry type. For nested entries info comes from the directory listing,
//so symlinks below a copied directory are recreated instead of followed.
func (j *copyJob) copyEntry(rel string, info os.FileInfo) error {
	switch {
	case info.IsDir():
		return j.copyDir(rel, info)
	case info.Mode().IsRegular():
		return j.copyFile(rel, info)
	case info.Mode()&os.ModeSymlink != 0:
		return j.copySymlink(rel)
	default:
		j.log.Warn("skipping entry that is neither a regular file, a directory nor a symlink",
			log.String("path", absPath(j.from, rel)), log.String("mode", info.Mode().String()))
		return nil
	}
}

func (j *copyJob) copyDir(rel string, info os.FileInfo) error {
	src, dst := absPath(j.from, rel), absPath(j.to, rel)
	op := j.record(model.OpKindMakeDir, src, dst, info.Size())
	j.log.Debug("creating directory", log.String("path", dst), log.Bool("dryRun", j.dryRun))
	if !j.dryRun {
		if err := iout.EnsureDirExists(j.to.FS, rel, os.ModePerm); err != nil {
			op.Fail(err)
			return &CopyError{Src: src, Dst: dst, Err: err}
		}
		op.Complete()
	}

	children, err := j.from.FS.ReadDir(rel)
	if err != nil {
		return &CopyError{Src: src, Dst: dst, Err: err}
	}
	for _, child := range children {
		if err := j.ctx.Err(); err != nil {
			return &CopyError{Src: src, Dst: dst, Err: err}
		}
		if err := j.copyEntry(j.from.FS.Join(rel, child.Name()), child); err != nil {
			return err
		}
	}
	return nil
}

func (j *copyJob) copyFile(rel string, info os.FileInfo) error {
	src, dst := absPath(j.from, rel), absPath(j.to, rel)
	op := j.record(model.OpKindCopyFile, src, dst, info.Size())
	j.log.Info("copying file", log.String("src", src), log.String("dst", dst),
		log.String("size", formatSpace(info.Size())), log.Bool("dryRun", j.dryRun))
	if j.dryRun {
		return nil
	}
	n, err := iout.CopyFile(j.ctx, j.from.FS, rel, j.to.FS, rel, info)
	if err != nil {
		op.Fail(err)
		return &CopyError{Src: src, Dst: dst, Err: err}
	}
	op.Size = n
	op.Complete()
	return nil
}

func (j *copyJob) copySymlink(rel string) error {
	src, dst := absPath(j.from, rel), absPath(j.to, rel)
	op := j.record(model.OpKindSymlink, src, dst, 0)
	j.log.Debug("creating symlink", log.String("src", src), log.String("dst", dst), log.Bool("dryRun", j.dryRun))
	if j.dryRun {
		return nil
	}
	if _, err := iout.CopySymlink(j.from.FS, rel, j.to.FS, rel); err != nil {
		op.Fail(err)
		return &CopyError{Src: src, Dst: dst, Err: err}
	}
	op.Complete()
	return nil
}

//rollback removes whatever was written for the top-level entry, so no partial copy is left behind.
func (j *copyJob) rollback(rel string) {
	if j.dryRun {
		return
	}
	dst := absPath(j.to, rel)
	op := j.record(model.OpKindRollback, "", dst, 0)
	if err := iout.RemoveAll(j.to.FS, rel); err != nil {
		op.Fail(err)
		j.log.Error("cannot remove partially copied entry", log.String("path", dst), log.Cause(err))
		return
	}
	op.Complete()
	j.log.Warn("partially copied entry removed", log.String("path", dst))
}
