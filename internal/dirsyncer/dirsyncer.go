package dirsyncer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"bisync/internal/log"
	"bisync/internal/model"
	"bisync/internal/prompt"
	"bisync/internal/settings"
	"bisync/pkg/helpers/run"
)

//DirSyncer reconciles two directory trees in both directions.
//Both trees are assumed to be modified by nobody else while Sync runs.
type DirSyncer struct {
	log         log.Logger
	settings    settings.Settings
	left, right model.Root
	selector    prompt.Selector
	out         io.Writer
}

type Option func(*DirSyncer)

//WithSelector replaces the terminal prompt used in interactive mode.
func WithSelector(s prompt.Selector) Option {
	return func(d *DirSyncer) { d.selector = s }
}

//WithOutput sets where the dry run listing and the prompts are written (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(d *DirSyncer) { d.out = w }
}

func New(logger log.Logger, stg settings.Settings, left, right model.Root, opts ...Option) *DirSyncer {
	d := &DirSyncer{
		log:      logger.With(log.String("run", uuid.NewString())),
		settings: stg,
		left:     left,
		right:    right,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.settings.Interactive && d.selector == nil {
		d.selector = prompt.NewPrompter(d.log, os.Stdin, d.out)
	}
	return d
}

//Result holds what a sync run computed and did; it is filled as far as the run got.
type Result struct {
	Diff       model.DiffResult
	Plan       model.CopyPlan
	Operations []*model.Operation
}

//Sync runs compare -> plan -> copy once. The first error (a panic included) aborts the run;
//it is logged and returned. Nothing is retried.
func (d *DirSyncer) Sync(ctx context.Context) (*Result, error) {
	res := new(Result)
	if err := run.WithError(func() error { return d.sync(ctx, res) }); err != nil {
		d.log.Error("sync failed", log.Cause(err))
		return res, err
	}
	return res, nil
}

func (d *DirSyncer) sync(ctx context.Context, res *Result) error {
	dryRun := d.settings.DryRun
	d.log.Info("syncing", log.String("left", d.left.Path), log.String("right", d.right.Path), log.Bool("dryRun", dryRun))

	diff, err := newDirScanner(d.log, d.settings.HiddenPrefix).compare(ctx, d.left, d.right)
	if err != nil {
		return err
	}
	res.Diff = diff
	d.log.Info(fmt.Sprintf("found %s differences", humanize.Comma(int64(diff.Len()))),
		log.Int("missingOnLeft", len(diff.RightOnly)), log.Int("missingOnRight", len(diff.LeftOnly)))

	var selector prompt.Selector
	if !dryRun {
		selector = d.selector
	}
	calc := newDiskCalculator(d.log)
	plan, err := newTaskScheduler(d.log, calc, selector).schedule(d.left, d.right, diff)
	if err != nil {
		return err
	}
	res.Plan = plan

	if dryRun {
		if err := printDifferences(d.out, calc, d.left, d.right, plan); err != nil {
			return fmt.Errorf("cannot print differences: %w", err)
		}
	}

	d.log.Info(fmt.Sprintf("start processing %s differences", humanize.Comma(int64(plan.Len()))),
		log.Int("missingOnLeft", len(plan.RightOnly)), log.Int("missingOnRight", len(plan.LeftOnly)),
		log.Bool("dryRun", dryRun))
	executor := newTaskExecutor(d.log, dryRun)
	ops, err := executor.apply(ctx, d.left, d.right, plan.LeftOnly)
	res.Operations = append(res.Operations, ops...)
	if err != nil {
		return err
	}
	ops, err = executor.apply(ctx, d.right, d.left, plan.RightOnly)
	res.Operations = append(res.Operations, ops...)
	if err != nil {
		return err
	}

	d.log.Info("done", log.Int("operations", len(res.Operations)), log.Bool("dryRun", dryRun))
	return nil
}
