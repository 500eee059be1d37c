package dirsyncer

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"bisync/internal/model"
)

//printDifferences writes the dry run listing: every entry to copy with its absolute path on the side that has it.
func printDifferences(w io.Writer, calc *diskCalculator, left, right model.Root, plan model.CopyPlan) error {
	if plan.Len() == 0 {
		_, err := fmt.Fprintln(w, "No differences found.")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault // footers hold paths
	t.AppendHeader(table.Row{"#", "Side", "Path", "Size"})

	n := 0
	appendRows := func(side string, root model.Root, relPaths []string) error {
		for _, rel := range relPaths {
			size, err := calc.totalSize(root, []string{rel})
			if err != nil {
				return err
			}
			n++
			t.AppendRow(table.Row{n, side, absPath(root, rel), formatSpace(size)})
		}
		return nil
	}
	if err := appendRows("left only", left, plan.LeftOnly); err != nil {
		return err
	}
	if err := appendRows("right only", right, plan.RightOnly); err != nil {
		return err
	}

	t.AppendFooter(table.Row{"", "", "needed on " + left.Path, formatSpace(plan.NeededOnLeft)})
	t.AppendFooter(table.Row{"", "", "needed on " + right.Path, formatSpace(plan.NeededOnRight)})
	t.Render()
	return nil
}
