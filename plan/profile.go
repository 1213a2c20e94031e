package plan

import "github.com/Bonis98/Distributed-query/catalog"

// ComputeProfile computes (vp, ve, vE, ip, ie, eq) for n from its
// children's already-computed profiles and n's own operator (spec §4.1).
// It is pure given fixed children: calling it twice in a row on the same
// node with unchanged children yields identical sets (spec invariant 5),
// since every field is rebuilt from scratch rather than mutated
// incrementally.
func ComputeProfile(n *Node) {
	vp := catalog.AttrSet{}
	ve := catalog.AttrSet{}
	vE := catalog.AttrSet{}
	ip := catalog.AttrSet{}
	ie := catalog.AttrSet{}
	eq := EqClassSet{}

	if n.IsLeaf() {
		if n.Relation != nil {
			vp = n.Relation.Plain.Clone()
			vE = n.Relation.Enc.Clone()
		}
	} else {
		for _, c := range n.Children {
			vp = vp.Union(c.Vp)
			ve = ve.Union(c.Ve)
			vE = vE.Union(c.VE)
			ip = ip.Union(c.Ip)
			ie = ie.Union(c.Ie)
			eq = eq.Union(c.Eq)
		}
	}

	if !n.Cryptographic && !n.Ap.IsEmpty() {
		vp = vp.Union(n.Ap)
		ve = ve.Diff(n.Ap)
		vE = vE.Diff(n.Ap)
	}
	if !n.Cryptographic && !n.Ae.IsEmpty() {
		moved := n.Ae.Diff(n.Ap)
		vp = vp.Diff(moved)
		ve = ve.Union(moved)
		vE = vE.Diff(moved)
	}

	total := n.Attributes()

	switch n.Op {
	case Projection:
		vp = vp.Intersect(total)
		ve = ve.Intersect(total)
		vE = vE.Intersect(total)

	case Selection:
		if n.SelectMultiAttr {
			for _, s := range []catalog.AttrSet{n.Ap, n.Ae, n.As} {
				if !s.IsEmpty() {
					eq.Add(NewEqClass(s))
				}
			}
		} else {
			ip = ip.Union(vp.Intersect(n.Ap))
			ie = ie.Union(ve.Union(vE).Intersect(n.Ae.Union(n.As)))
		}

	case Cartesian:
		// Union of children's profiles suffices.

	case Join:
		if !total.IsEmpty() {
			eq.Add(NewEqClass(total))
		}

	case GroupBy:
		groupSet := catalog.AttrSet{}
		if n.HasGroupAttr {
			groupSet.Add(n.GroupAttr)
		}
		scope := total.Union(groupSet)
		vp = vp.Intersect(scope)
		ve = ve.Intersect(scope)
		vE = vE.Intersect(scope)
		ip = ip.Union(vp.Intersect(groupSet))
		ie = ie.Union(ve.Union(vE).Intersect(groupSet))

	case Encryption:
		vp = vp.Diff(n.Ap)
		ve = ve.Union(n.Ap)

	case Decryption:
		vp = vp.Union(n.Ae)
		ve = ve.Diff(n.Ae)
		vE = vE.Diff(n.Ae)

	case Reencryption:
		ve = ve.Union(n.Ae)
		vE = vE.Diff(n.Ae)

	case Query:
		// The synthetic root carries no attributes of its own.
	}

	n.Vp, n.Ve, n.VE, n.Ip, n.Ie, n.Eq = vp, ve, vE, ip, ie, eq
}

// RecomputeProfiles recomputes every node's profile in post-order, so that
// children are up to date before their parent is recomputed. Used after
// any structural rewrite (spec §4.5, §4.6) and as the pipeline's final
// step.
func RecomputeProfiles(root *Node) {
	for _, n := range PostOrder(root) {
		ComputeProfile(n)
	}
}
