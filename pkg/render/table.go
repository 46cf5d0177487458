package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
	"github.com/Sumatoshi-tech/binarytree/pkg/script"
)

const emptyMark = "-"

// Table lists the nodes of the subtree behind view in level order.
func Table[T any](view avl.View[T]) (string, error) {
	root, err := Snapshot(view)
	if err != nil {
		return "", err
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Item", "Depth", "Height", "Balance", "Left", "Right"})

	entries := levels(root)
	for _, entry := range entries {
		tbl.AppendRow(table.Row{
			fmt.Sprint(entry.node.Item),
			entry.depth,
			entry.node.Height,
			entry.node.Balance,
			childLabel(entry.node.Left),
			childLabel(entry.node.Right),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d nodes", len(entries))})

	return tbl.Render(), nil
}

func childLabel(n *Node) string {
	if n == nil {
		return emptyMark
	}

	return fmt.Sprint(n.Item)
}

// Transcript tabulates the steps of a script run.
func Transcript(tr *script.Transcript) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Operation", "Result", "Visited", "Error"})

	failed := 0

	for _, step := range tr.Steps {
		errText := ""
		if step.Err != nil {
			errText = step.Err.Error()
			failed++
		}

		result := emptyMark
		if step.Result != nil {
			result = fmt.Sprint(step.Result)
		}

		if step.Detail != "" {
			result += " (" + step.Detail + ")"
		}

		tbl.AppendRow(table.Row{step.Index, step.Op.String(), result, joinItems(step.Visited), errText})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d steps, %d failed", len(tr.Steps), failed)})

	title := tr.Name
	if title == "" {
		return tbl.Render()
	}

	return fmt.Sprintf("%s:\n%s", title, tbl.Render())
}

func joinItems(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}

	return strings.Join(parts, " ")
}
