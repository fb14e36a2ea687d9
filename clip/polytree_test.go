package clip

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/tdewolff/test"
)

func TestPolyTree(t *testing.T) {
	// a square with two holes and an island in the first hole
	tree, err := Simplify([]Ring{
		square(0, 0, 10),
		square(1, 1, 4).Reverse(),
		square(2, 2, 2),
		square(6, 6, 3).Reverse(),
	}, NonZero)
	test.Error(t, err)
	test.T(t, tree.Total(), 4)
	test.T(t, tree.Depth(), -1)
	test.That(t, !tree.IsHole())
	test.That(t, tree.Parent() == nil)
	test.T(t, tree.ChildCount(), 1)

	outer := tree.GetFirst()
	test.T(t, outer.Depth(), 0)
	test.That(t, !outer.IsHole())
	test.That(t, outer.Parent() == &tree.PolyNode)
	test.T(t, outer.ChildCount(), 2)

	hole1, hole2 := outer.Childs()[0], outer.Childs()[1]
	test.That(t, hole1.IsHole())
	test.That(t, hole2.IsHole())
	test.T(t, hole1.Depth(), 1)
	test.That(t, hole1.Parent() == outer)
	test.String(t, hole1.Contour().String(), "[1; 1] [1; 5] [5; 5] [5; 1]")
	test.String(t, hole2.Contour().String(), "[6; 6] [6; 9] [9; 9] [9; 6]")
	test.T(t, hole1.ChildCount(), 1)
	test.T(t, hole2.ChildCount(), 0)

	island := hole1.Childs()[0]
	test.T(t, island.Depth(), 2)
	test.That(t, !island.IsHole())
	test.That(t, island.Parent() == hole1)

	// depth-first traversal
	test.That(t, outer.GetNext() == hole1)
	test.That(t, hole1.GetNext() == island)
	test.That(t, island.GetNext() == hole2)
	test.That(t, hole2.GetNext() == nil)

	test.T(t, len(tree.Rings()), 4)
	test.T(t, len(tree.Outers()), 2)
	test.T(t, len(tree.Holes()), 2)
	test.Float(t, tree.Area(), 100.0-16.0+4.0-9.0)

	empty, err := Simplify(nil, NonZero)
	test.Error(t, err)
	test.That(t, empty.Empty())
	test.That(t, empty.GetFirst() == nil)
	test.T(t, len(empty.Rings()), 0)
}

func TestPolyTreeToOrb(t *testing.T) {
	tree, err := Simplify([]Ring{
		square(0, 0, 10),
		square(1, 1, 4).Reverse(),
		square(2, 2, 2),
		square(6, 6, 3).Reverse(),
	}, NonZero)
	test.Error(t, err)

	mp := tree.ToOrb()
	test.T(t, len(mp), 2)
	test.T(t, len(mp[0]), 3)
	test.T(t, len(mp[1]), 1)
	test.T(t, mp[0][0], orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}})
	test.T(t, mp[0][1], orb.Ring{{1, 1}, {1, 5}, {5, 5}, {5, 1}, {1, 1}})
	test.T(t, mp[1][0], orb.Ring{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}})

	rs := RingsFromOrb(mp)
	test.T(t, len(rs), 4)
	test.String(t, rs[0].String(), "[0; 0] [10; 0] [10; 10] [0; 10]")
	test.String(t, rs[3].String(), "[2; 2] [4; 2] [4; 4] [2; 4]")

	tree2, err := Simplify(rs, NonZero)
	test.Error(t, err)
	test.String(t, treeString(tree2), treeString(tree))

	test.T(t, len(RingsFromOrb(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 2}})), 1)
	test.T(t, len(RingsFromOrb(orb.Point{1, 2})), 0)
}
