package analyzer

import (
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

// ComputeCost is the post-order pass of spec §2/§4.4's first bullet: for
// every node and every subject, K(n,s) = op_weight(n.op) × comp_price(s) +
// Σ_children K(child,s), accumulated bottom-up into node.CompCost. This is
// the structural baseline; ComputeAssignment adds the transfer,
// decryption and delegated re-encryption terms that depend on state only
// its top-down walk has (the parent's chosen assignee, the running
// to_enc_dec set).
func ComputeCost(root *plan.Node, cat *catalog.Catalog) {
	for _, n := range plan.PostOrder(root) {
		n.CompCost = make(map[catalog.SubjectID]uint64, len(cat.Subjects))
		weight := plan.OpWeight[n.Op]
		for _, s := range cat.Subjects {
			cost := mulSat(weight, s.CompPrice)
			for _, c := range n.Children {
				cost = addSat(cost, c.CompCost[s.ID])
			}
			n.CompCost[s.ID] = cost
		}
	}
}

// assignmentCost computes the full K(n,s) of spec §4.4 used to pick an
// assignee in ComputeAssignment: the structural baseline from
// ComputeCost, plus transfer cost (when s differs from the parent's
// assignee), plus the cost of decrypting attributes s can read in
// plaintext that some relation stores encrypted, plus the cost of
// delegating re-encryption of attributes s cannot read in plaintext but
// which appear in the node's totAe, plus the cost of clearing any
// pending to_enc_dec attributes s happens to be able to read in
// plaintext.
func assignmentCost(n *plan.Node, s catalog.Subject, auth catalog.Authorization, hasParent bool, parentAssignee catalog.SubjectID, cat *catalog.Catalog, toEncDec catalog.AttrSet) uint64 {
	cost := n.CompCost[s.ID]

	if hasParent && s.ID != parentAssignee {
		cost = addSat(cost, mulSat(n.Size, s.TransferPrice))
	}

	for a := range auth.Plain {
		for _, r := range cat.RelationsWithEncAttr(a) {
			cost = addSat(cost, mulSat(r.DecCost[a], s.CompPrice))
		}
	}

	avgComp := roundFloat(cat.AvgCompPrice)
	avgTransfer := roundFloat(cat.AvgTransferPrice)
	for a := range n.TotAe.Diff(auth.Plain) {
		for _, r := range cat.RelationsWithEncAttr(a) {
			compPart := mulSat(addSat(r.DecCost[a], r.EncCost[a]), avgComp)
			transferPart := mulSat(r.Size[a], addSat(avgTransfer, s.TransferPrice))
			cost = addSat(cost, addSat(compPart, transferPart))
		}
	}

	for a := range toEncDec.Intersect(auth.Plain) {
		for _, r := range cat.RelationsWithEncAttr(a) {
			cost = addSat(cost, mulSat(addSat(r.DecCost[a], r.EncCost[a]), s.CompPrice))
		}
	}

	return cost
}
