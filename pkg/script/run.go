package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

const tracerName = "binarytree.script"

// ErrSourceModified is recorded when materializing a subtree changed the source tree.
var ErrSourceModified = errors.New("source tree modified by materialized copy")

// ErrNotFound is recorded when a subtree or materialize step cannot locate its item.
var ErrNotFound = errors.New("item not found")

// Step is the outcome of one operation.
type Step struct {
	Index int
	Op    Op

	// Result holds the boolean outcome of insert, remove, locate, contains
	// and check, or the size of a materialized copy.
	Result any

	// Visited lists the items produced by traversal-style operations.
	Visited []any

	// Detail carries extra information, e.g. the height and balance of a
	// located node.
	Detail string

	// Err is the failure of this step, if any. Later steps still run.
	Err error
}

// Failed reports whether the step failed.
func (s Step) Failed() bool {
	return s.Err != nil
}

// Transcript is the record of a script run.
type Transcript struct {
	Name  string
	Steps []Step

	// Tree is the tree after the last step.
	Tree *avl.Tree[any]
}

// Failed reports whether any step failed.
func (tr *Transcript) Failed() bool {
	return slices.ContainsFunc(tr.Steps, Step.Failed)
}

// Run builds the script's tree and executes every operation in order.
// Operation failures are recorded in their step; Run itself only fails when
// the initial items cannot be inserted or ctx is cancelled.
func Run(ctx context.Context, script *Script, logger *slog.Logger) (*Transcript, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "binarytree.script.run",
		trace.WithAttributes(
			attribute.String("script.name", script.Name),
			attribute.Int("script.items", len(script.Items)),
			attribute.Int("script.ops", len(script.Ops)),
		))
	defer span.End()

	tree, err := avl.FromSeqFunc(avl.CompareAny, slices.Values(script.Items), avl.WithMaxDepth(script.MaxDepth))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("build tree: %w", err)
	}

	tr := &Transcript{Name: script.Name, Tree: tree}
	exec := executor{tree: tree}

	for idx, op := range script.Ops {
		err = ctx.Err()
		if err != nil {
			return tr, fmt.Errorf("script %q step %d: %w", script.Name, idx, err)
		}

		_, stepSpan := otel.Tracer(tracerName).Start(ctx, "binarytree.script.step",
			trace.WithAttributes(attribute.String("script.op", op.Op)))

		step := exec.run(op)
		step.Index = idx

		if step.Err != nil {
			stepSpan.SetStatus(codes.Error, step.Err.Error())
			logger.WarnContext(ctx, "script step failed", "index", idx, "op", op.String(), "error", step.Err)
		} else {
			logger.DebugContext(ctx, "script step", "index", idx, "op", op.String(), "result", step.Result)
		}

		stepSpan.End()

		tr.Steps = append(tr.Steps, step)
	}

	logger.InfoContext(ctx, "script finished",
		"name", script.Name, "steps", len(tr.Steps), "size", tree.Len(), "height", tree.Height(), "failed", tr.Failed())

	return tr, nil
}

type executor struct {
	tree *avl.Tree[any]
}

func (e executor) run(op Op) Step {
	step := Step{Op: op}

	switch op.Op {
	case OpInsert:
		step.Result, step.Err = e.tree.Insert(op.Item)
	case OpRemove:
		step.Result, step.Err = e.tree.Remove(op.Item)
	case OpLocate:
		ref, found, err := e.tree.Locate(op.Item)
		step.Result, step.Err = found, err

		if found {
			step.Detail = fmt.Sprintf("height=%d balance=%d", ref.Height(), ref.Balance())
		}
	case OpContains:
		step.Result, step.Err = e.tree.Contains(op.Item)
	case OpTraverse:
		step.Visited, step.Err = traverse(e.tree.View(), op.Order)
	case OpSubtree:
		view, err := e.side(op)
		if err != nil {
			step.Err = err

			break
		}

		step.Result = !view.Empty()
		step.Visited, step.Err = traverse(view, op.Order)
	case OpMaterialize:
		step.Result, step.Visited, step.Err = e.materialize(op)
	case OpCheck:
		step.Err = e.tree.Check()
		step.Result = step.Err == nil
	default:
		step.Err = fmt.Errorf("%w: unknown op %q", ErrInvalidScript, op.Op)
	}

	return step
}

// side locates op.Item and returns the view of its op.Side subtree.
func (e executor) side(op Op) (avl.View[any], error) {
	ref, found, err := e.tree.Locate(op.Item)
	if err != nil {
		return avl.View[any]{}, err
	}

	if !found {
		return avl.View[any]{}, fmt.Errorf("%w: %v", ErrNotFound, op.Item)
	}

	if op.Side == SideLeft {
		return ref.Left(), nil
	}

	return ref.Right(), nil
}

// materialize copies a subtree, extends the copy with op.Extra and verifies
// the source tree did not change.
func (e executor) materialize(op Op) (int, []any, error) {
	before, err := e.tree.Items()
	if err != nil {
		return 0, nil, err
	}

	view, err := e.side(op)
	if err != nil {
		return 0, nil, err
	}

	copied, err := view.Materialize()
	if err != nil {
		return 0, nil, err
	}

	for _, item := range op.Extra {
		_, err = copied.Insert(item)
		if err != nil {
			return copied.Len(), nil, err
		}
	}

	visited, err := traverse(copied.View(), op.Order)
	if err != nil {
		return copied.Len(), nil, err
	}

	after, err := e.tree.Items()
	if err != nil {
		return copied.Len(), visited, err
	}

	if !slices.Equal(before, after) || !view.Valid() {
		return copied.Len(), visited, ErrSourceModified
	}

	return copied.Len(), visited, nil
}

// traverse collects a view's items; an empty order means in-order.
func traverse(view avl.View[any], orderName string) ([]any, error) {
	order := avl.InOrder

	if orderName != "" {
		var err error

		order, err = avl.ParseOrder(orderName)
		if err != nil {
			return nil, err
		}
	}

	return view.Items(order)
}
