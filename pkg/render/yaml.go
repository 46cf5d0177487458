package render

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

// document is the top-level YAML layout.
type document struct {
	Size   int   `yaml:"size"`
	Height int   `yaml:"height"`
	Root   *Node `yaml:"root"`
}

// YAML encodes the subtree behind view as nested mappings.
func YAML[T any](view avl.View[T]) ([]byte, error) {
	root, err := Snapshot(view)
	if err != nil {
		return nil, err
	}

	doc := document{Size: len(levels(root)), Height: heightOfNode(root), Root: root}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	return out, nil
}
