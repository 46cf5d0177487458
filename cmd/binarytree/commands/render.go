package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binarytree/pkg/render"
)

const renderFilePerm = 0o644

func (a *app) renderCommand() *cobra.Command {
	var (
		source itemFlags
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:     "render [items...]",
		Short:   "Draw a tree as an HTML chart",
		Example: `  binarytree render --range 0:32 -o tree.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := source.load(cmd, args)
			if err != nil {
				return err
			}

			tree, err := a.buildTree(values)
			if err != nil {
				return err
			}

			if title == "" {
				title = a.cfg.Render.Title
			}

			if output == stdinName {
				return render.HTML(cmd.OutOrStdout(), tree.View(), title)
			}

			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, renderFilePerm)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}

			err = render.HTML(f, tree.View(), title)
			closeErr := f.Close()

			if err != nil {
				return err
			}

			if closeErr != nil {
				return fmt.Errorf("close %s: %w", output, closeErr)
			}

			a.logger.Info("chart written", "path", output, "items", tree.Len())

			return nil
		},
	}

	source.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "tree.html", "output HTML file (- for stdout)")
	cmd.Flags().StringVar(&title, "title", "", "chart title (default from config)")

	return cmd
}
