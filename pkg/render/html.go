package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

const (
	chartWidth  = "100%"
	chartHeight = "720px"
	seriesName  = "tree"
)

// HTML writes a self-contained page with an interactive tree chart of the
// subtree behind view. Node labels carry the item and its balance factor.
func HTML[T any](w io.Writer, view avl.View[T], title string) error {
	root, err := Snapshot(view)
	if err != nil {
		return err
	}

	chart := charts.NewTree()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d nodes, height %d", len(levels(root)), heightOfNode(root)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)

	var data []opts.TreeData
	if root != nil {
		data = append(data, *chartNode(root))
	}

	chart.AddSeries(seriesName, data,
		charts.WithTreeOpts(opts.TreeChart{
			Layout:           "orthogonal",
			Orient:           "TB",
			InitialTreeDepth: -1,
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	err = chart.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func chartNode(n *Node) *opts.TreeData {
	td := &opts.TreeData{
		Name: fmt.Sprintf("%v [%+d]", n.Item, n.Balance),
	}

	for _, child := range []*Node{n.Left, n.Right} {
		if child != nil {
			td.Children = append(td.Children, chartNode(child))
		}
	}

	return td
}

func heightOfNode(n *Node) int {
	if n == nil {
		return 0
	}

	return n.Height
}
