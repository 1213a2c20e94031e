package analyzer

import (
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

// IdentifyCandidates is the post-order pass of spec §4.3. For every leaf
// it recomputes the profile and admits every subject as a candidate; for
// every internal node it recomputes the profile, derives totAp/totAe,
// inherits its children's candidate lists when monotonicity allows
// (spec invariant 6), and otherwise starts from the full subject pool,
// filtering by IsAuthorized. A node left with no candidates aborts
// compilation (spec §7's NoCandidate).
func IdentifyCandidates(root *plan.Node, cat *catalog.Catalog) error {
	for _, n := range plan.PostOrder(root) {
		plan.ComputeProfile(n)

		if n.IsLeaf() {
			n.TotAp = catalog.AttrSet{}
			n.TotAe = catalog.AttrSet{}
			n.Candidates = append([]catalog.SubjectID(nil), cat.SubjectIDs()...)
			continue
		}

		n.TotAp = n.Ap.Clone()
		n.TotAe = n.Ae.Clone()
		for _, c := range n.Children {
			n.TotAp = n.TotAp.Union(c.TotAp)
			n.TotAe = n.TotAe.Union(c.TotAe)
		}

		pool := inheritedPool(n)
		if pool == nil {
			pool = cat.SubjectIDs()
		}

		n.Candidates = nil
		for _, sid := range pool {
			auth := cat.Auth(sid)
			if plan.IsAuthorized(auth, n) {
				n.Candidates = append(n.Candidates, sid)
			}
		}
		if len(n.Candidates) == 0 {
			return ErrNoCandidate.New(n.String())
		}
	}
	return nil
}

// inheritedPool implements spec §4.3 step 2's monotonicity check: when the
// node's single/both children's Ap are subsets of the node's ip, the
// candidate pool is inherited from the children (deduplicated, preserving
// the first child's order) instead of starting from every subject.
func inheritedPool(n *plan.Node) []catalog.SubjectID {
	switch len(n.Children) {
	case 1:
		if n.Children[0].Ap.SubsetOf(n.Ip) {
			return dedupPreserveOrder(n.Children[0].Candidates)
		}
	case 2:
		union := n.Children[0].Ap.Union(n.Children[1].Ap)
		if union.SubsetOf(n.Ip) {
			combined := append(append([]catalog.SubjectID(nil), n.Children[0].Candidates...), n.Children[1].Candidates...)
			return dedupPreserveOrder(combined)
		}
	}
	return nil
}

func dedupPreserveOrder(ids []catalog.SubjectID) []catalog.SubjectID {
	seen := make(map[catalog.SubjectID]struct{}, len(ids))
	out := make([]catalog.SubjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
