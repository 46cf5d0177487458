package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Sumatoshi-tech/binarytree/cmd/binarytree/commands"
	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
	"github.com/Sumatoshi-tech/binarytree/pkg/config"
)

const testScript = `{
  "name": "cli",
  "items": [5, 3, 8],
  "ops": [
    {"op": "insert", "item": 1},
    {"op": "subtree", "item": 5, "side": "left", "order": "pre"},
    {"op": "check"}
  ]
}`

type result struct {
	stdout string
	stderr string
	err    error
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// runWithConfig runs the command line against the given config file content.
func runWithConfig(t *testing.T, cfg string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer

	full := append([]string{"--config", writeFile(t, "binarytree.yaml", cfg)}, args...)
	err := commands.Run(context.Background(), full, &stdout, &stderr)

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func run(t *testing.T, args ...string) result {
	t.Helper()

	return runWithConfig(t, "", args...)
}

// TestBuild_Text verifies the default sideways rendering and summary.
func TestBuild_Text(t *testing.T) {
	t.Parallel()

	res := run(t, "build", "2", "1", "3")
	require.NoError(t, res.err)

	assert.True(t, strings.HasPrefix(res.stdout, "    3 [0]\n2 [0]\n    1 [0]\n"), res.stdout)
	assert.Contains(t, res.stdout, "3 items, height 2")

	res = run(t, "--quiet", "build", "2", "1", "3")
	require.NoError(t, res.err)
	assert.Equal(t, "    3 [0]\n2 [0]\n    1 [0]\n", res.stdout)
}

// TestBuild_Order verifies traversals of the whole tree and of a subtree.
func TestBuild_Order(t *testing.T) {
	t.Parallel()

	res := run(t, "build", "--range", "0:18", "--left", "--order", "pre")
	require.NoError(t, res.err)
	assert.Equal(t, "3,1,0,2,5,4,6\n", res.stdout)

	res = run(t, "build", "5", "3", "8", "1", "4", "--order", "post")
	require.NoError(t, res.err)
	assert.Equal(t, "1,4,3,8,5\n", res.stdout)
}

// TestBuild_Sources verifies items from line and JSON files.
func TestBuild_Sources(t *testing.T) {
	t.Parallel()

	lines := writeFile(t, "items.txt", "# prices\n5, 3\n8 # last\n")
	res := run(t, "build", "--file", lines, "--order", "in")
	require.NoError(t, res.err)
	assert.Equal(t, "3,5,8\n", res.stdout)

	doc := writeFile(t, "items.json", `{"data": [{"p": 5}, {"p": 3}, {"p": 8}, {"p": 3}]}`)
	res = run(t, "build", "--file", doc, "--path", "data.#.p", "--order", "level")
	require.NoError(t, res.err)
	assert.Equal(t, "5,3,8\n", res.stdout)
}

// TestBuild_Formats verifies table and YAML output.
func TestBuild_Formats(t *testing.T) {
	t.Parallel()

	res := run(t, "build", "2", "1", "3", "--format", "table")
	require.NoError(t, res.err)
	assert.Contains(t, strings.ToLower(res.stdout), "total: 3 nodes")

	res = runWithConfig(t, "output:\n  format: yaml\n", "build", "2", "1", "3")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "size: 3")
	assert.NotContains(t, res.stdout, "items, height")
}

// TestBuild_Errors verifies argument and tree errors surface.
func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no items", []string{"build"}, commands.ErrNoItems},
		{"both sides", []string{"build", "1", "--left", "--right"}, commands.ErrBothSides},
		{"format", []string{"build", "1", "--format", "svg"}, commands.ErrUnknownFormat},
		{"empty subtree", []string{"build", "--range", "0:0", "--left"}, commands.ErrEmptyTree},
		{"order", []string{"build", "1", "--order", "sideways"}, avl.ErrUnknownOrder},
		{"mixed items", []string{"build", "1", "one"}, avl.ErrIncomparable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, tt.args...)
			require.ErrorIs(t, res.err, tt.want)
		})
	}
}

// TestBuild_DepthGuard verifies the configured depth guard reaches the tree.
func TestBuild_DepthGuard(t *testing.T) {
	t.Parallel()

	res := runWithConfig(t, "tree:\n  max_depth: 2\n", "build", "--range", "0:8")
	require.ErrorIs(t, res.err, avl.ErrDepthExceeded)
}

// TestCheck verifies matching and mismatching expectations.
func TestCheck(t *testing.T) {
	t.Parallel()

	res := run(t, "check", "5", "3", "8", "1", "4", "--order", "pre", "--expect", "5,3,1,4,8")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "ok "), res.stdout)

	res = run(t, "check", "5", "3", "8", "1", "4", "--order", "pre", "--expect", "5 3 4 1 8")
	require.ErrorIs(t, res.err, commands.ErrMismatch)
	assert.Contains(t, res.stdout, "pre order differs")
	assert.Contains(t, res.stdout, "[-")

	res = run(t, "check", "--range", "0:100")
	require.NoError(t, res.err)
}

// TestScript verifies transcripts in table and JSON form.
func TestScript(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "demo.json", testScript)

	res := run(t, "script", path)
	require.NoError(t, res.err)
	assert.Contains(t, strings.ToLower(res.stdout), "total: 3 steps, 0 failed")

	res = run(t, "script", "--json", path)
	require.NoError(t, res.err)
	assert.Equal(t, int64(3), gjson.Get(res.stdout, "steps.#").Int())
	assert.Equal(t, "cli", gjson.Get(res.stdout, "name").String())
}

// TestScript_Strict verifies failed steps only fail the command in strict mode.
func TestScript_Strict(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bad.json", `{"items": [1, 2], "ops": [{"op": "contains", "item": "x"}]}`)

	res := run(t, "script", path)
	require.NoError(t, res.err)

	res = run(t, "script", "--strict", path)
	require.ErrorIs(t, res.err, commands.ErrScriptFailed)
}

// TestRender verifies the HTML chart is written.
func TestRender(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "tree.html")

	res := runWithConfig(t, "render:\n  title: Prices\n", "render", "--range", "0:10", "-o", out)
	require.NoError(t, res.err)

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "echarts")
	assert.Contains(t, string(page), "Prices")
}

// TestLua verifies scripts run with the binding and its output.
func TestLua(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "tree.lua", `
local t = binarytree.new({5, 3, 8, 1, 4})
print(table.concat(t:root():left_child():items("pre"), ","))
`)

	res := run(t, "lua", path)
	require.NoError(t, res.err)
	assert.Equal(t, "3,1,4\n", res.stdout)

	broken := writeFile(t, "broken.lua", `binarytree.new({1}):insert("x")`)
	res = run(t, "lua", broken)
	require.ErrorIs(t, res.err, avl.ErrIncomparable)
}

// TestBench verifies the workload runs, checks out and prints metrics.
func TestBench(t *testing.T) {
	t.Parallel()

	res := run(t, "bench", "--items", "300", "--seed", "3")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "operations in")
	assert.Contains(t, res.stdout, "binarytree_ops")
	assert.Contains(t, res.stdout, `op="remove"`)

	res = runWithConfig(t, "bench:\n  items: 50\n", "bench", "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "operations in")
	assert.NotContains(t, res.stdout, "# TYPE")
}

// TestBench_Cancelled verifies a cancelled context stops the workload.
func TestBench_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer

	err := commands.Run(ctx, []string{"--config", writeFile(t, "binarytree.yaml", ""), "bench"}, &stdout, &stderr)
	require.ErrorIs(t, err, context.Canceled)
}

// TestVersion verifies the version line.
func TestVersion(t *testing.T) {
	t.Parallel()

	res := run(t, "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "binarytree "), res.stdout)
}

// TestConfig verifies invalid configuration and verbose logging.
func TestConfig(t *testing.T) {
	t.Parallel()

	res := runWithConfig(t, "tree:\n  max_depth: -1\n", "build", "1")
	require.ErrorIs(t, res.err, config.ErrInvalidMaxDepth)

	res = run(t, "-v", "build", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "configuration loaded")
	assert.Contains(t, res.stderr, "service=binarytree")
}
