// Package items turns external input (command-line tokens, text streams,
// JSON documents, integer ranges) into dynamically typed tree items ordered
// by avl.CompareAny.
package items

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Sentinel errors.
var (
	// ErrNotArray is returned when the selected JSON value is not an array.
	ErrNotArray = errors.New("selected JSON value is not an array")

	// ErrInvalidJSON is returned for malformed JSON input.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidRange is returned for a range that is malformed or has a zero step.
	ErrInvalidRange = errors.New("invalid range")
)

const (
	// maxLineSize bounds a single input line.
	maxLineSize = 1 << 20

	// maxExactInt is the largest magnitude at which every integer is exactly
	// representable as a float64.
	maxExactInt = 1 << 53
)

// ParseToken converts a textual token into an int64, a float64, a bool or,
// failing all of those, the string itself.
func ParseToken(token string) any {
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(token, 64); err == nil && !math.IsNaN(f) {
		return f
	}

	switch token {
	case "true":
		return true
	case "false":
		return false
	default:
		return token
	}
}

// ParseTokens applies ParseToken to every token.
func ParseTokens(tokens []string) []any {
	out := make([]any, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, ParseToken(token))
	}

	return out
}

// FromLines reads whitespace or comma separated tokens. A '#' starts a
// comment that runs to the end of the line.
func FromLines(r io.Reader) ([]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	var out []any

	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})

		out = append(out, ParseTokens(fields)...)
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	return out, nil
}

// FromJSON selects an array with a gjson path and converts its elements.
// An empty path selects the document root. Integral numbers become int64,
// other numbers float64; strings and bools keep their type. Nested objects
// and arrays are kept as their raw JSON text.
func FromJSON(data []byte, path string) ([]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	var result gjson.Result
	if path == "" {
		result = gjson.ParseBytes(data)
	} else {
		result = gjson.GetBytes(data, path)
	}

	if !result.IsArray() {
		return nil, fmt.Errorf("%w: path %q", ErrNotArray, path)
	}

	elems := result.Array()
	out := make([]any, 0, len(elems))

	for _, elem := range elems {
		out = append(out, FromJSONValue(elem))
	}

	return out, nil
}

// FromJSONValue converts a single gjson value.
func FromJSONValue(value gjson.Result) any {
	switch value.Type {
	case gjson.Number:
		if i, err := strconv.ParseInt(value.Raw, 10, 64); err == nil {
			return i
		}

		if value.Num == math.Trunc(value.Num) && math.Abs(value.Num) < maxExactInt {
			return int64(value.Num)
		}

		return value.Num
	case gjson.String:
		return value.Str
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	default:
		return value.Raw
	}
}

// Range returns the integers from start towards end (exclusive) in steps of
// step. A negative step counts down.
func Range(start, end, step int64) ([]any, error) {
	if step == 0 {
		return nil, fmt.Errorf("%w: zero step", ErrInvalidRange)
	}

	var out []any

	for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
		out = append(out, i)
	}

	return out, nil
}

// ParseRange parses "start:end" or "start:end:step" and expands it with Range.
func ParseRange(expr string) ([]any, error) {
	parts := strings.Split(expr, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, expr)
	}

	bounds := make([]int64, 0, 3)

	for _, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRange, expr, err)
		}

		bounds = append(bounds, v)
	}

	step := int64(1)
	if len(bounds) == 3 {
		step = bounds[2]
	}

	return Range(bounds[0], bounds[1], step)
}
