package luaavl

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

func (s *State) checkNode(L *lua.LState, n int) *luaNode {
	ud := L.CheckUserData(n)
	if node, ok := ud.Value.(*luaNode); ok {
		return node
	}

	L.ArgError(n, nodeTypeName+" expected")

	return nil
}

func (s *State) checkSubtree(L *lua.LState, n int) *luaSubtree {
	ud := L.CheckUserData(n)
	if sub, ok := ud.Value.(*luaSubtree); ok {
		return sub
	}

	L.ArgError(n, subtreeTypeName+" expected")

	return nil
}

func (s *State) nodeItem(L *lua.LState) int {
	L.Push(s.checkNode(L, 1).ref.Item())

	return 1
}

func (s *State) nodeHeight(L *lua.LState) int {
	L.Push(lua.LNumber(s.checkNode(L, 1).ref.Height()))

	return 1
}

func (s *State) nodeBalance(L *lua.LState) int {
	L.Push(lua.LNumber(s.checkNode(L, 1).ref.Balance()))

	return 1
}

func (s *State) nodeValid(L *lua.LState) int {
	L.Push(lua.LBool(s.checkNode(L, 1).ref.Valid()))

	return 1
}

// nodeChild returns a subtree handle; a stale node fails here rather than
// on first use of the subtree.
func (s *State) nodeChild(left bool) lua.LGFunction {
	return func(L *lua.LState) int {
		node := s.checkNode(L, 1)
		if !node.ref.Valid() {
			s.fail(L, avl.ErrStaleView)
		}

		view := node.ref.Right()
		if left {
			view = node.ref.Left()
		}

		s.push(L, subtreeTypeName, &luaSubtree{owner: node.owner, view: view})

		return 1
	}
}

func (s *State) nodeString(L *lua.LState) int {
	node := s.checkNode(L, 1)
	L.Push(lua.LString(fmt.Sprintf("%s(%s)", nodeTypeName, node.ref.Item().String())))

	return 1
}

func (s *State) subtreeLocate(L *lua.LState) int {
	sub := s.checkSubtree(L, 1)

	ref, found, err := sub.view.Locate(s.checkItem(L, 2))

	return s.pushLocated(L, sub.owner, ref, found, err)
}

func (s *State) subtreeContains(L *lua.LState) int {
	sub := s.checkSubtree(L, 1)

	found, err := sub.view.Contains(s.checkItem(L, 2))
	if err != nil {
		s.fail(L, err)
	}

	L.Push(lua.LBool(found))

	return 1
}

func (s *State) subtreeTraversal(order avl.Order) lua.LGFunction {
	return func(L *lua.LState) int {
		sub := s.checkSubtree(L, 1)
		fn := L.CheckFunction(2)

		s.traverse(L, sub.owner, sub.view, order, fn)

		return 0
	}
}

func (s *State) subtreeItems(L *lua.LState) int {
	return s.pushItems(L, s.checkSubtree(L, 1).view, 2)
}

func (s *State) subtreeRoot(L *lua.LState) int {
	sub := s.checkSubtree(L, 1)

	ref, found, err := sub.view.Root()

	return s.pushLocated(L, sub.owner, ref, found, err)
}

func (s *State) subtreeEmpty(L *lua.LState) int {
	L.Push(lua.LBool(s.checkSubtree(L, 1).view.Empty()))

	return 1
}

func (s *State) subtreeValid(L *lua.LState) int {
	L.Push(lua.LBool(s.checkSubtree(L, 1).view.Valid()))

	return 1
}

// make_tree deep-copies the subtree into a new, independent tree.
func (s *State) subtreeMakeTree(L *lua.LState) int {
	copied, err := s.checkSubtree(L, 1).view.Materialize()
	if err != nil {
		s.fail(L, err)
	}

	s.push(L, treeTypeName, copied)

	return 1
}
