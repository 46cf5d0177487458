// Package script loads and runs JSON operation scripts against an AVL tree
// of dynamically typed items.
//
// A script names a starting set of items and a list of operations:
//
//	{"name": "demo", "items": [5, 3, 8],
//	 "ops": [{"op": "insert", "item": 1},
//	         {"op": "subtree", "item": 3, "side": "left", "order": "pre"}]}
//
// Documents are validated against an embedded JSON schema before they are
// decoded.
package script

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/binarytree/pkg/items"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidScript is returned when a document does not match the script schema.
var ErrInvalidScript = errors.New("invalid script")

// Operation names.
const (
	OpInsert      = "insert"
	OpRemove      = "remove"
	OpLocate      = "locate"
	OpContains    = "contains"
	OpTraverse    = "traverse"
	OpSubtree     = "subtree"
	OpMaterialize = "materialize"
	OpCheck       = "check"
)

// Sides of a located node.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// Script is a decoded operation script.
type Script struct {
	Name     string
	MaxDepth int
	Items    []any
	Ops      []Op
}

// Op is one scripted operation. Which fields are set depends on Op.
type Op struct {
	Op    string
	Item  any
	Order string
	Side  string
	Extra []any
}

// String renders the operation compactly, e.g. "subtree 3 left pre".
func (o Op) String() string {
	parts := []string{o.Op}

	if o.Item != nil {
		parts = append(parts, fmt.Sprint(o.Item))
	}

	if o.Side != "" {
		parts = append(parts, o.Side)
	}

	if o.Order != "" {
		parts = append(parts, o.Order)
	}

	if len(o.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("+%v", o.Extra))
	}

	return strings.Join(parts, " ")
}

// Load reads, validates and decodes a script.
func Load(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return Parse(data)
}

// Parse validates and decodes a script held in memory.
func Parse(data []byte) (*Script, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidScript)
	}

	err := validate(data)
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(data)

	script := &Script{
		Name:     doc.Get("name").String(),
		MaxDepth: int(doc.Get("max_depth").Int()),
	}

	if doc.Get("items").Exists() {
		script.Items, err = items.FromJSON(data, "items")
		if err != nil {
			return nil, fmt.Errorf("%w: items: %w", ErrInvalidScript, err)
		}
	}

	for _, raw := range doc.Get("ops").Array() {
		script.Ops = append(script.Ops, decodeOp(raw))
	}

	return script, nil
}

func decodeOp(raw gjson.Result) Op {
	op := Op{
		Op:    raw.Get("op").String(),
		Order: raw.Get("order").String(),
		Side:  raw.Get("side").String(),
	}

	if item := raw.Get("item"); item.Exists() {
		op.Item = items.FromJSONValue(item)
	}

	for _, extra := range raw.Get("extra").Array() {
		op.Extra = append(op.Extra, items.FromJSONValue(extra))
	}

	return op
}

func validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidScript, strings.Join(violations, "; "))
}
