package plan

import "github.com/Bonis98/Distributed-query/catalog"

// IsAuthorized reports whether auth covers node's profile requirements,
// per spec §4.2. The predicate is checked for the node itself *and* each
// of its direct children, matching the reference algorithm's requirement
// that a subject assigned to a node must also be able to read what it
// hands to/receives from that node's immediate inputs.
func IsAuthorized(auth catalog.Authorization, node *Node) bool {
	if !satisfiesProfile(auth, node) {
		return false
	}
	for _, child := range node.Children {
		if !satisfiesProfile(auth, child) {
			return false
		}
	}
	return true
}

// satisfiesProfile checks the three conditions of spec §4.2 against a
// single node's profile (no recursion into children).
func satisfiesProfile(auth catalog.Authorization, n *Node) bool {
	visible := auth.Visible()

	if !n.Vp.Union(n.Ip).SubsetOf(auth.Plain) {
		return false
	}
	if !n.Ve.Union(n.VE).UnionAll(n.Ie).SubsetOf(visible) {
		return false
	}
	for _, class := range n.Eq {
		if !class.Attrs.SubsetOf(auth.Plain) && !class.Attrs.SubsetOf(auth.Enc) {
			return false
		}
	}
	return true
}
