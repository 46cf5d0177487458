package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
	"github.com/Sumatoshi-tech/binarytree/pkg/items"
	"github.com/Sumatoshi-tech/binarytree/pkg/render"
)

// ErrMismatch is returned when a traversal differs from the expectation.
var ErrMismatch = errors.New("traversal does not match expectation")

type checkOptions struct {
	source itemFlags
	expect string
	order  string
}

func (a *app) checkCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [items...]",
		Short: "Verify a tree's invariants and a traversal",
		Long: `Build a tree, verify ordering, heights and balance factors, and
optionally compare a traversal against --expect. A mismatch prints a diff
(deletions as [-x-], insertions as {+y+}) and exits non-zero.`,
		Example: `  binarytree check 5 3 8 1 4 --order pre --expect 5,3,1,4,8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVar(&opts.expect, "expect", "", "expected traversal, comma or space separated")
	cmd.Flags().StringVar(&opts.order, "order", avl.InOrder.String(), "traversal order: pre, in, post or level")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string, opts checkOptions) error {
	order, err := avl.ParseOrder(opts.order)
	if err != nil {
		return err
	}

	values, err := opts.source.load(cmd, args)
	if err != nil {
		return err
	}

	tree, err := a.buildTree(values)
	if err != nil {
		return err
	}

	err = tree.Check()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := a.colorize(out)

	if cmd.Flags().Changed("expect") {
		traversal, itemsErr := tree.View().Items(order)
		if itemsErr != nil {
			return itemsErr
		}

		want, parseErr := items.FromLines(strings.NewReader(opts.expect))
		if parseErr != nil {
			return parseErr
		}

		expected := formatItems(want)
		actual := formatItems(traversal)

		diff, equal := render.Diff(expected, actual, colorize)
		if !equal {
			fmt.Fprintf(out, "%s order differs:\n  %s\n", order, diff)

			return fmt.Errorf("%w: %s order", ErrMismatch, order)
		}
	}

	if !a.quiet {
		ok := color.New(color.FgGreen)
		if colorize {
			ok.EnableColor()
		} else {
			ok.DisableColor()
		}

		fmt.Fprintf(out, "%s %s\n", ok.Sprint("ok"), render.Summary(tree))
	}

	return nil
}
