package luaavl

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

// Userdata type names.
const (
	treeTypeName    = "binarytree.tree"
	nodeTypeName    = "binarytree.node"
	subtreeTypeName = "binarytree.subtree"
)

type luaTree = avl.Tree[lua.LValue]

// luaNode and luaSubtree remember the owning tree so traversals can mark it busy.
type luaNode struct {
	owner *luaTree
	ref   avl.Ref[lua.LValue]
}

type luaSubtree struct {
	owner *luaTree
	view  avl.View[lua.LValue]
}

func (s *State) installModule() {
	L := s.L

	s.registerType(treeTypeName, map[string]lua.LGFunction{
		"insert":      s.treeInsert,
		"remove":      s.treeRemove,
		"locate":      s.treeLocate,
		"contains":    s.treeContains,
		"in_order":    s.treeTraversal(avl.InOrder),
		"pre_order":   s.treeTraversal(avl.PreOrder),
		"post_order":  s.treeTraversal(avl.PostOrder),
		"level_order": s.treeTraversal(avl.LevelOrder),
		"items":       s.treeItems,
		"root":        s.treeRoot,
		"len":         s.treeLen,
		"height":      s.treeHeight,
		"check":       s.treeCheck,
		"clear":       s.treeClear,
	}, s.treeString)

	s.registerType(nodeTypeName, map[string]lua.LGFunction{
		"item":        s.nodeItem,
		"height":      s.nodeHeight,
		"balance":     s.nodeBalance,
		"left_child":  s.nodeChild(true),
		"right_child": s.nodeChild(false),
		"valid":       s.nodeValid,
	}, s.nodeString)

	s.registerType(subtreeTypeName, map[string]lua.LGFunction{
		"locate":      s.subtreeLocate,
		"contains":    s.subtreeContains,
		"in_order":    s.subtreeTraversal(avl.InOrder),
		"pre_order":   s.subtreeTraversal(avl.PreOrder),
		"post_order":  s.subtreeTraversal(avl.PostOrder),
		"level_order": s.subtreeTraversal(avl.LevelOrder),
		"items":       s.subtreeItems,
		"root":        s.subtreeRoot,
		"empty":       s.subtreeEmpty,
		"valid":       s.subtreeValid,
		"make_tree":   s.subtreeMakeTree,
	}, nil)

	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(s.newTree))
	L.SetField(mod, "max_depth", lua.LNumber(s.maxDepth))
	L.SetGlobal(ModuleName, mod)
}

func (s *State) registerType(name string, methods map[string]lua.LGFunction, tostring lua.LGFunction) {
	mt := s.L.NewTypeMetatable(name)
	s.L.SetField(mt, "__index", s.L.SetFuncs(s.L.NewTable(), methods))

	if tostring != nil {
		s.L.SetField(mt, "__tostring", s.L.NewFunction(tostring))
	}
}

func (s *State) push(L *lua.LState, typeName string, value any) {
	ud := L.NewUserData()
	ud.Value = value
	L.SetMetatable(ud, L.GetTypeMetatable(typeName))
	L.Push(ud)
}

// binarytree.new([items]) builds a tree from an optional array of items;
// duplicates are skipped.
func (s *State) newTree(L *lua.LState) int {
	tree := avl.NewFunc(compareValues, avl.WithMaxDepth(s.maxDepth))

	if initial := L.OptTable(1, nil); initial != nil {
		for i := 1; i <= initial.Len(); i++ {
			item := initial.RawGetInt(i)
			if !storable(item) {
				s.fail(L, fmt.Errorf("%w: element %d is a %s", avl.ErrIncomparable, i, item.Type()))
			}

			_, err := tree.Insert(item)
			if err != nil {
				s.fail(L, err)
			}
		}
	}

	s.push(L, treeTypeName, tree)

	return 1
}

func (s *State) checkTree(L *lua.LState, n int) *luaTree {
	ud := L.CheckUserData(n)
	if tree, ok := ud.Value.(*luaTree); ok {
		return tree
	}

	L.ArgError(n, treeTypeName+" expected")

	return nil
}

func (s *State) checkItem(L *lua.LState, n int) lua.LValue {
	item := L.CheckAny(n)
	if !storable(item) {
		s.fail(L, fmt.Errorf("%w: %s", avl.ErrIncomparable, item.Type()))
	}

	return item
}

func (s *State) checkIdle(L *lua.LState, tree *luaTree) {
	if s.busy[tree] > 0 {
		s.fail(L, ErrTreeBusy)
	}
}

func (s *State) treeInsert(L *lua.LState) int {
	tree := s.checkTree(L, 1)
	item := s.checkItem(L, 2)
	s.checkIdle(L, tree)

	inserted, err := tree.Insert(item)
	if err != nil {
		s.fail(L, err)
	}

	L.Push(lua.LBool(inserted))

	return 1
}

func (s *State) treeRemove(L *lua.LState) int {
	tree := s.checkTree(L, 1)
	item := s.checkItem(L, 2)
	s.checkIdle(L, tree)

	removed, err := tree.Remove(item)
	if err != nil {
		s.fail(L, err)
	}

	L.Push(lua.LBool(removed))

	return 1
}

func (s *State) treeClear(L *lua.LState) int {
	tree := s.checkTree(L, 1)
	s.checkIdle(L, tree)
	tree.Clear()

	return 0
}

func (s *State) treeLocate(L *lua.LState) int {
	tree := s.checkTree(L, 1)

	ref, found, err := tree.Locate(s.checkItem(L, 2))

	return s.pushLocated(L, tree, ref, found, err)
}

func (s *State) treeContains(L *lua.LState) int {
	tree := s.checkTree(L, 1)

	found, err := tree.Contains(s.checkItem(L, 2))
	if err != nil {
		s.fail(L, err)
	}

	L.Push(lua.LBool(found))

	return 1
}

func (s *State) treeTraversal(order avl.Order) lua.LGFunction {
	return func(L *lua.LState) int {
		tree := s.checkTree(L, 1)
		fn := L.CheckFunction(2)

		s.traverse(L, tree, tree.View(), order, fn)

		return 0
	}
}

func (s *State) treeItems(L *lua.LState) int {
	tree := s.checkTree(L, 1)

	return s.pushItems(L, tree.View(), 2)
}

func (s *State) treeRoot(L *lua.LState) int {
	tree := s.checkTree(L, 1)

	ref, ok := tree.Root()
	if !ok {
		L.Push(lua.LNil)

		return 1
	}

	s.push(L, nodeTypeName, &luaNode{owner: tree, ref: ref})

	return 1
}

func (s *State) treeLen(L *lua.LState) int {
	L.Push(lua.LNumber(s.checkTree(L, 1).Len()))

	return 1
}

func (s *State) treeHeight(L *lua.LState) int {
	L.Push(lua.LNumber(s.checkTree(L, 1).Height()))

	return 1
}

func (s *State) treeCheck(L *lua.LState) int {
	err := s.checkTree(L, 1).Check()
	if err != nil {
		s.fail(L, err)
	}

	L.Push(lua.LTrue)

	return 1
}

func (s *State) treeString(L *lua.LState) int {
	tree := s.checkTree(L, 1)
	L.Push(lua.LString(fmt.Sprintf("%s(len=%d, height=%d)", treeTypeName, tree.Len(), tree.Height())))

	return 1
}

// traverse runs a Lua visitor over view. The owning tree is marked busy for
// the duration so the visitor cannot restructure it mid-walk.
func (s *State) traverse(L *lua.LState, owner *luaTree, view avl.View[lua.LValue], order avl.Order, fn *lua.LFunction) {
	s.busy[owner]++

	err := func() error {
		defer func() { s.busy[owner]-- }()

		return view.Traverse(order, func(item lua.LValue) error {
			callErr := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, item)
			if callErr != nil {
				return s.wrap(callErr)
			}

			return nil
		})
	}()
	if err != nil {
		s.fail(L, err)
	}
}

// pushItems pushes a Lua array of the view's items; the optional argument
// at orderArg names the order and defaults to "in".
func (s *State) pushItems(L *lua.LState, view avl.View[lua.LValue], orderArg int) int {
	order, err := avl.ParseOrder(L.OptString(orderArg, "in"))
	if err != nil {
		s.fail(L, err)
	}

	values, err := view.Items(order)
	if err != nil {
		s.fail(L, err)
	}

	out := L.CreateTable(len(values), 0)
	for _, v := range values {
		out.Append(v)
	}

	L.Push(out)

	return 1
}

func (s *State) pushLocated(L *lua.LState, owner *luaTree, ref avl.Ref[lua.LValue], found bool, err error) int {
	if err != nil {
		s.fail(L, err)
	}

	if !found {
		L.Push(lua.LNil)

		return 1
	}

	s.push(L, nodeTypeName, &luaNode{owner: owner, ref: ref})

	return 1
}
