package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
	"github.com/Sumatoshi-tech/binarytree/pkg/items"
)

// stdinName selects standard input wherever a file name is expected.
const stdinName = "-"

// ErrNoItems is returned when a command gets no item source at all.
var ErrNoItems = errors.New("no items given (use arguments, --file or --range)")

// itemFlags selects where a command reads its items from. All given sources
// are concatenated: arguments, then --range, then --file.
type itemFlags struct {
	file     string
	json     bool
	jsonPath string
	rng      string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "read items from a file (- for stdin)")
	cmd.Flags().BoolVar(&f.json, "json", false, "parse --file as JSON (implied by a .json extension)")
	cmd.Flags().StringVar(&f.jsonPath, "path", "", "gjson path of the item array inside the JSON document")
	cmd.Flags().StringVar(&f.rng, "range", "", "integer items start:end[:step], end exclusive")
}

func (f *itemFlags) load(cmd *cobra.Command, args []string) ([]any, error) {
	if len(args) == 0 && f.file == "" && f.rng == "" {
		return nil, ErrNoItems
	}

	out := items.ParseTokens(args)

	if f.rng != "" {
		ranged, err := items.ParseRange(f.rng)
		if err != nil {
			return nil, err
		}

		out = append(out, ranged...)
	}

	if f.file != "" {
		loaded, err := f.loadFile(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}

		out = append(out, loaded...)
	}

	return out, nil
}

func (f *itemFlags) loadFile(stdin io.Reader) ([]any, error) {
	r := stdin

	if f.file != stdinName {
		file, err := os.Open(f.file)
		if err != nil {
			return nil, fmt.Errorf("open items: %w", err)
		}
		defer file.Close()

		r = file
	}

	if !f.json && !strings.EqualFold(filepath.Ext(f.file), ".json") {
		return items.FromLines(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	return items.FromJSON(data, f.jsonPath)
}

// buildTree inserts values into a new tree honouring the configured depth
// guard.
func (a *app) buildTree(values []any) (*avl.Tree[any], error) {
	tree, err := avl.FromSeqFunc(avl.CompareAny, slices.Values(values), avl.WithMaxDepth(a.cfg.Tree.MaxDepth))
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}

	a.logger.Debug("tree built", "items", len(values), "size", tree.Len(), "height", tree.Height())

	return tree, nil
}

func formatItems(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}

	return strings.Join(parts, ",")
}
