package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
	"github.com/Sumatoshi-tech/binarytree/pkg/config"
	"github.com/Sumatoshi-tech/binarytree/pkg/render"
)

// Build errors.
var (
	ErrEmptyTree     = errors.New("tree is empty")
	ErrBothSides     = errors.New("--left and --right are mutually exclusive")
	ErrUnknownFormat = errors.New("unknown output format")
)

type buildOptions struct {
	source itemFlags
	format string
	order  string
	left   bool
	right  bool
}

func (a *app) buildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [items...]",
		Short: "Build a tree and print it",
		Long: `Build a tree from the given items and print it.

Without --order the tree shape is printed in --format (text, table or yaml);
with --order only the traversal is printed. --left and --right print the
root's subtree instead of the whole tree.`,
		Example: `  binarytree build 5 3 8 1 4
  binarytree build --range 0:18 --format table
  binarytree build --file prices.json --path data.#.price --order level`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, args, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: text, table or yaml (default from config)")
	cmd.Flags().StringVar(&opts.order, "order", "", "print a traversal instead: pre, in, post or level")
	cmd.Flags().BoolVar(&opts.left, "left", false, "print the root's left subtree")
	cmd.Flags().BoolVar(&opts.right, "right", false, "print the root's right subtree")

	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, args []string, opts buildOptions) error {
	if opts.left && opts.right {
		return ErrBothSides
	}

	values, err := opts.source.load(cmd, args)
	if err != nil {
		return err
	}

	tree, err := a.buildTree(values)
	if err != nil {
		return err
	}

	view, err := selectView(tree, opts.left, opts.right)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.order != "" {
		order, orderErr := avl.ParseOrder(opts.order)
		if orderErr != nil {
			return orderErr
		}

		traversal, itemsErr := view.Items(order)
		if itemsErr != nil {
			return itemsErr
		}

		fmt.Fprintln(out, formatItems(traversal))

		return nil
	}

	format := opts.format
	if format == "" {
		format = a.cfg.Output.Format
	}

	err = a.printView(out, view, format)
	if err != nil {
		return err
	}

	if !a.quiet && format != config.FormatYAML {
		fmt.Fprintln(out, render.Summary(tree))
	}

	return nil
}

func selectView(tree *avl.Tree[any], left, right bool) (avl.View[any], error) {
	if !left && !right {
		return tree.View(), nil
	}

	root, ok := tree.Root()
	if !ok {
		return avl.View[any]{}, ErrEmptyTree
	}

	if left {
		return root.Left(), nil
	}

	return root.Right(), nil
}

func (a *app) printView(w io.Writer, view avl.View[any], format string) error {
	var (
		text string
		err  error
	)

	switch format {
	case config.FormatText:
		text, err = render.Text(view, a.colorize(w))
	case config.FormatTable:
		text, err = render.Table(view)
		text += "\n"
	case config.FormatYAML:
		var data []byte

		data, err = render.YAML(view)
		text = string(data)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return err
	}

	_, err = io.WriteString(w, text)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
