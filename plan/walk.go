package plan

// PostOrder returns every node in the subtree rooted at n in post-order
// (children before parent). The slice is materialized up front so that
// later insertions above the cursor — which both analyzer passes perform —
// cannot invalidate an in-progress traversal (spec §9).
func PostOrder(n *Node) []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(cur *Node) {
		for _, c := range cur.Children {
			visit(c)
		}
		out = append(out, cur)
	}
	visit(n)
	return out
}

// PreOrder returns every node in the subtree rooted at n in pre-order
// (parent before children), pre-materialized for the same reason as
// PostOrder.
func PreOrder(n *Node) []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(cur *Node) {
		out = append(out, cur)
		for _, c := range cur.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// Leaves returns the leaf descendants of n (including n itself if it is a
// leaf), in left-to-right order.
func Leaves(n *Node) []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(cur *Node) {
		if cur.IsLeaf() {
			out = append(out, cur)
			return
		}
		for _, c := range cur.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}
