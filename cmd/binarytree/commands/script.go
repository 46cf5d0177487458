package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binarytree/pkg/render"
	"github.com/Sumatoshi-tech/binarytree/pkg/script"
)

// ErrScriptFailed is returned in --strict mode when any step failed.
var ErrScriptFailed = errors.New("script has failed steps")

func (a *app) scriptCommand() *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "script <file|->",
		Short: "Run a JSON operation script",
		Long: `Run a JSON operation script and print one row per operation.

A script names its initial items and a list of operations:

  {"name": "demo", "items": [5, 3, 8],
   "ops": [{"op": "insert", "item": 1},
           {"op": "subtree", "item": 3, "side": "left", "order": "pre"},
           {"op": "check"}]}

Failed operations are recorded and execution continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScript(cmd, args[0], asJSON, strict)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the transcript as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any operation failed")

	return cmd
}

func (a *app) runScript(cmd *cobra.Command, name string, asJSON, strict bool) error {
	s, err := loadScript(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	if s.MaxDepth == 0 {
		s.MaxDepth = a.cfg.Tree.MaxDepth
	}

	tr, err := script.Run(cmd.Context(), s, a.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if asJSON {
		data, jsonErr := tr.JSON()
		if jsonErr != nil {
			return jsonErr
		}

		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, render.Transcript(tr))
	}

	if strict && tr.Failed() {
		return ErrScriptFailed
	}

	return nil
}

func loadScript(stdin io.Reader, name string) (*script.Script, error) {
	if name == stdinName {
		return script.Load(stdin)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	return script.Load(f)
}
