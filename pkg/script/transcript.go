package script

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// JSON encodes the transcript as a document of the form
//
//	{"name": "...", "failed": false, "size": 3, "height": 2,
//	 "steps": [{"index": 0, "op": "insert", "item": 1, "result": true}, ...],
//	 "items": [1, 3, 5]}
func (tr *Transcript) JSON() ([]byte, error) {
	doc := []byte(`{}`)

	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}

		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("name", tr.Name)
	set("failed", tr.Failed())

	if tr.Tree != nil {
		set("size", tr.Tree.Len())
		set("height", tr.Tree.Height())
	}

	set("steps", []any{})

	for _, step := range tr.Steps {
		if err != nil {
			break
		}

		var encoded []byte

		encoded, err = encodeStep(step)
		if err == nil {
			doc, err = sjson.SetRawBytes(doc, "steps.-1", encoded)
		}
	}

	if tr.Tree != nil {
		final, itemsErr := tr.Tree.Items()
		if itemsErr != nil {
			return nil, fmt.Errorf("encode transcript: %w", itemsErr)
		}

		set("items", final)
	}

	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}

	return doc, nil
}

func encodeStep(step Step) ([]byte, error) {
	doc := []byte(`{}`)

	fields := []struct {
		key   string
		value any
		skip  bool
	}{
		{"index", step.Index, false},
		{"op", step.Op.Op, false},
		{"item", step.Op.Item, step.Op.Item == nil},
		{"side", step.Op.Side, step.Op.Side == ""},
		{"order", step.Op.Order, step.Op.Order == ""},
		{"extra", step.Op.Extra, len(step.Op.Extra) == 0},
		{"result", step.Result, step.Result == nil},
		{"visited", step.Visited, step.Visited == nil},
		{"detail", step.Detail, step.Detail == ""},
		{"error", errorText(step.Err), step.Err == nil},
	}

	for _, field := range fields {
		if field.skip {
			continue
		}

		var err error

		doc, err = sjson.SetBytes(doc, field.key, field.value)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
