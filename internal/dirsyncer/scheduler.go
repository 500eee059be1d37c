package dirsyncer

import (
	"fmt"

	"bisync/internal/log"
	"bisync/internal/model"
	"bisync/internal/pathset"
	"bisync/internal/prompt"
)

//taskScheduler service turns a comparison result into the copy plan: root-relative paths and the needed disk space,
//optionally narrowed by the user.
type taskScheduler struct {
	log      log.Logger
	calc     *diskCalculator
	selector prompt.Selector // nil when every difference is copied
}

func newTaskScheduler(logger log.Logger, calc *diskCalculator, selector prompt.Selector) *taskScheduler {
	return &taskScheduler{log: logger, calc: calc, selector: selector}
}

func (s *taskScheduler) schedule(left, right model.Root, diff model.DiffResult) (model.CopyPlan, error) {
	var (
		plan model.CopyPlan
		err  error
	)
	if plan.LeftOnly, err = pathset.StripRoot(left.Path, diff.LeftOnly); err != nil {
		return model.CopyPlan{}, err
	}
	if plan.RightOnly, err = pathset.StripRoot(right.Path, diff.RightOnly); err != nil {
		return model.CopyPlan{}, err
	}
	if err = s.measure(left, right, &plan); err != nil {
		return model.CopyPlan{}, err
	}

	if s.selector == nil {
		return plan, nil
	}

	if plan.LeftOnly, err = prompt.Select(s.selector, left.Path, right.Path, plan.LeftOnly); err != nil {
		return model.CopyPlan{}, fmt.Errorf("cannot select entries to copy: %w", err)
	}
	if plan.RightOnly, err = prompt.Select(s.selector, right.Path, left.Path, plan.RightOnly); err != nil {
		return model.CopyPlan{}, fmt.Errorf("cannot select entries to copy: %w", err)
	}
	s.log.Debug("entries selected", log.Int("leftOnly", len(plan.LeftOnly)), log.Int("rightOnly", len(plan.RightOnly)))
	if err = s.measure(left, right, &plan); err != nil {
		return model.CopyPlan{}, err
	}
	return plan, nil
}

//measure sizes each set on the root that holds it and reports it as the space needed by the opposite root.
func (s *taskScheduler) measure(left, right model.Root, plan *model.CopyPlan) error {
	var err error
	if plan.NeededOnLeft, err = s.calc.totalSize(right, plan.RightOnly); err != nil {
		return err
	}
	if plan.NeededOnRight, err = s.calc.totalSize(left, plan.LeftOnly); err != nil {
		return err
	}
	s.log.Info("needed disk space", log.String("syncPoint", left.Path),
		log.String("space", formatSpace(plan.NeededOnLeft)), log.Int64("bytes", plan.NeededOnLeft))
	s.log.Info("needed disk space", log.String("syncPoint", right.Path),
		log.String("space", formatSpace(plan.NeededOnRight)), log.Int64("bytes", plan.NeededOnRight))
	return nil
}
