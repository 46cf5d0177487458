// Package luaavl embeds AVL trees in a sandboxed Lua interpreter.
//
// Scripts see a global module table named binarytree:
//
//	local t = binarytree.new({5, 3, 8})
//	t:insert(1)
//	local node = t:locate(3)
//	node:left_child():in_order(function(x) print(x) end)
//	local copy = t:root():right_child():make_tree()
//
// Items are Lua numbers or strings. Numbers only compare with numbers and
// strings only with strings; any other pairing raises an error.
package luaavl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

// ModuleName is the global under which the binding is installed.
const ModuleName = "binarytree"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTreeBusy is raised when a script modifies a tree from inside one of
	// its own traversals.
	ErrTreeBusy = errors.New("tree is being traversed")
)

// Error is a failed Lua execution. When the failure originated in the tree
// binding, Cause holds the Go error so callers can match it with errors.Is.
type Error struct {
	Err   error
	Cause error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both the Lua error and its Go cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

// State wraps a gopher-lua state with the binding installed. A State is not
// safe for concurrent use by multiple goroutines running scripts; calls are
// serialized.
type State struct {
	L *lua.LState

	mu       sync.Mutex
	closed   bool
	maxDepth int
	out      io.Writer
	logger   *slog.Logger

	// raised is the last Go error turned into a Lua error.
	raised error

	// busy counts active traversals per tree.
	busy map[*avl.Tree[lua.LValue]]int
}

// StateOption configures a State.
type StateOption func(*State)

// WithMaxDepth sets the recursion guard for trees created by scripts.
func WithMaxDepth(depth int) StateOption {
	return func(s *State) {
		s.maxDepth = depth
	}
}

// WithOutput redirects the print function.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		s.out = w
	}
}

// WithLogger sets the logger used for binding diagnostics.
func WithLogger(logger *slog.Logger) StateOption {
	return func(s *State) {
		s.logger = logger
	}
}

// NewState creates a sandboxed Lua state with the binarytree module installed.
func NewState(opts ...StateOption) *State {
	state := &State{
		maxDepth: avl.DefaultMaxDepth,
		out:      os.Stdout,
		logger:   slog.Default(),
		busy:     make(map[*avl.Tree[lua.LValue]]int),
	}

	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	state.L = L

	openSafeLibraries(L)
	state.installPrint()
	state.installModule()

	return state
}

// openSafeLibraries opens the base, table, string and math libraries only.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Base helpers that reach the file system.
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (s *State) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)

		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}

		fmt.Fprintln(s.out, strings.Join(parts, "\t"))

		return 0
	}))
}

// DoString executes a chunk of Lua source.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// Close releases the interpreter. Further calls fail with ErrStateClosed.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	s.L.Close()
}

func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	s.raised = nil
	clear(s.busy)

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Err: fmt.Errorf("lua panic: %v", r)}
		}
	}()

	err = fn()
	if err == nil {
		return nil
	}

	return s.wrap(err)
}

// wrap attaches the Go cause of a Lua error raised by the binding.
func (s *State) wrap(err error) error {
	var apiErr *lua.ApiError
	if s.raised != nil && errors.As(err, &apiErr) && apiErr.Object != nil &&
		strings.Contains(apiErr.Object.String(), s.raised.Error()) {
		return &Error{Err: err, Cause: s.raised}
	}

	return &Error{Err: err}
}

// fail raises err as a Lua error and remembers it for wrap.
func (s *State) fail(L *lua.LState, err error) {
	s.raised = err
	s.logger.Debug("lua binding error", "error", err)
	L.RaiseError("%s", err.Error())
}
