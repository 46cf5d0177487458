package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binarytree/pkg/luaavl"
)

func (a *app) luaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lua <file|->",
		Short: "Run a Lua script with the binarytree module",
		Long: `Run a Lua script in a sandboxed interpreter (base, table, string and
math libraries) with the binarytree module preloaded:

  local t = binarytree.new({5, 3, 8, 1, 4})
  t:level_order(function(x) print(x) end)
  local copy = t:root():right_child():make_tree()`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := luaavl.NewState(
				luaavl.WithMaxDepth(a.cfg.Tree.MaxDepth),
				luaavl.WithOutput(cmd.OutOrStdout()),
				luaavl.WithLogger(a.logger),
			)
			defer state.Close()

			if args[0] != stdinName {
				return state.DoFile(args[0])
			}

			code, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			return state.DoString(string(code))
		},
	}
}
