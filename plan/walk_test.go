package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bonis98/Distributed-query/plan"
)

func buildSmallTree(t *testing.T) (root, left, right *plan.Node) {
	t.Helper()
	root = mustNode(t, plan.Join, "root")
	left = mustNode(t, plan.Projection, "left")
	right = mustNode(t, plan.Projection, "right")
	root.AddChild(left)
	root.AddChild(right)
	return
}

func TestPostOrder(t *testing.T) {
	root, left, right := buildSmallTree(t)
	got := plan.PostOrder(root)
	require.Equal(t, []*plan.Node{left, right, root}, got)
}

func TestPreOrder(t *testing.T) {
	root, left, right := buildSmallTree(t)
	got := plan.PreOrder(root)
	require.Equal(t, []*plan.Node{root, left, right}, got)
}

func TestLeaves(t *testing.T) {
	root, left, right := buildSmallTree(t)
	require.ElementsMatch(t, []*plan.Node{left, right}, plan.Leaves(root))
}

// PostOrder/PreOrder pre-materialize their traversal, so insertions above
// the cursor performed while iterating the returned slice are invisible to
// that same traversal (spec §9).
func TestPostOrder_StableUnderInsertionDuringIteration(t *testing.T) {
	root, left, _ := buildSmallTree(t)
	order := plan.PostOrder(root)
	require.Len(t, order, 3)

	reenc := mustNode(t, plan.Reencryption, "reenc")
	left.InsertAbove(reenc)

	// The already-materialized slice is untouched by the insertion.
	require.Len(t, order, 3)
	require.NotContains(t, order, reenc)
}
