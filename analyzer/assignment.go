package analyzer

import (
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

// ComputeAssignment is the pre-order pass of spec §4.5. It threads a single
// to_enc_dec set explicitly through the whole walk (spec §9: never stored
// on a node), assigns every leaf to its relation's storage provider,
// chooses a cost-minimizing assignee for every other non-cryptographic
// node (or consumes the head of manual when supplied), and splices in
// re-encryption nodes wherever an assignee can see in plaintext an
// attribute the tree still owes a re-encryption for, or can re-encrypt
// part of its own Ae locally.
//
// Cryptographic nodes are skipped: they were inserted by an earlier step
// of this same pass (or by a prior Compile run) and already carry their
// assignee. manual, when non-empty, overrides cost-based selection for
// non-leaf nodes in the order they are visited; it exists to reproduce
// fixed textbook examples and is validated against each node's candidates.
//
// Returns the (possibly new) root: inserting a re-encryption node above
// the original root replaces it.
func ComputeAssignment(root *plan.Node, cat *catalog.Catalog, manual []catalog.SubjectID) (*plan.Node, error) {
	toEncDec := catalog.AttrSet{}
	manualQueue := append([]catalog.SubjectID(nil), manual...)

	for _, n := range plan.PreOrder(root) {
		if n.Cryptographic {
			continue
		}

		if n.IsLeaf() {
			if err := assignLeaf(n, cat, toEncDec); err != nil {
				return nil, err
			}
			continue
		}

		if n.Assignee == "" {
			sMin, rest, err := pickAssignee(n, cat, toEncDec, manualQueue)
			if err != nil {
				return nil, err
			}
			n.Assignee = sMin
			manualQueue = rest
		}

		if err := resolvePending(n, cat, toEncDec); err != nil {
			return nil, err
		}
	}

	final := root
	for final.Parent != nil {
		final = final.Parent
	}
	return final, nil
}

// assignLeaf implements the leaf case of spec §4.5: fixed assignment to
// the relation's storage provider, followed by cheapest-first resolution
// of any pending to_enc_dec attributes the relation itself stores
// encrypted.
func assignLeaf(n *plan.Node, cat *catalog.Catalog, toEncDec catalog.AttrSet) error {
	n.Assignee = n.Relation.Storage

	pending := toEncDec.Intersect(n.Relation.Enc)
	if pending.IsEmpty() {
		return nil
	}

	cursor := n
	for _, sid := range n.Candidates {
		if pending.IsEmpty() {
			break
		}
		auth := cat.Auth(sid)
		if !plan.IsAuthorized(auth, n) {
			continue
		}
		for _, a := range pending.Sorted() {
			if !auth.Plain.Has(a) {
				continue
			}
			reenc, err := plan.NewNode(plan.Reencryption, catalog.AttrSet{}, catalog.NewAttrSet(a), catalog.AttrSet{}, "", false, false, "re-encryption("+string(a)+")")
			if err != nil {
				return err
			}
			reenc.Assignee = sid
			cursor.InsertAbove(reenc)
			cursor = reenc
			pending.Remove(a)
			toEncDec.Remove(a)
		}
	}

	if !pending.IsEmpty() {
		return ErrUnresolvableReencryption.New(n.String(), pending)
	}
	return nil
}

// pickAssignee implements step 1 of spec §4.5's non-leaf case: the
// manual queue's head, if present, overrides cost-based selection, but
// still has to be a candidate. Otherwise the candidate with minimal K(n,s)
// wins, ties broken by first appearance (the candidate list's own
// ascending-price order).
func pickAssignee(n *plan.Node, cat *catalog.Catalog, toEncDec catalog.AttrSet, manualQueue []catalog.SubjectID) (catalog.SubjectID, []catalog.SubjectID, error) {
	if len(manualQueue) > 0 {
		sid := manualQueue[0]
		if !containsSubject(n.Candidates, sid) {
			return "", manualQueue, ErrManualAssigneeNotCandidate.New(n.String(), sid, n.Candidates)
		}
		return sid, manualQueue[1:], nil
	}

	hasParent := n.Parent != nil
	var parentAssignee catalog.SubjectID
	if hasParent {
		parentAssignee = n.Parent.Assignee
	}

	var best catalog.SubjectID
	var bestCost uint64
	found := false
	for _, sid := range n.Candidates {
		s, ok := cat.Subject(sid)
		if !ok {
			continue
		}
		auth := cat.Auth(sid)
		cost := assignmentCost(n, s, auth, hasParent, parentAssignee, cat, toEncDec)
		if !found || cost < bestCost {
			best, bestCost, found = sid, cost, true
		}
	}
	return best, manualQueue, nil
}

// resolvePending implements steps 2-4 of spec §4.5's non-leaf case, given
// n.Assignee already set: it discharges whatever part of to_enc_dec the
// assignee can now see in plaintext by inserting a re-encryption node
// above n, delegates the part of n's own Ae the assignee cannot see in
// plaintext by adding it to to_enc_dec, and pushes the part it can see
// down onto the matching leaves under n for local re-encryption.
func resolvePending(n *plan.Node, cat *catalog.Catalog, toEncDec catalog.AttrSet) error {
	sMin := n.Assignee
	auth := cat.Auth(sMin)

	discharged := toEncDec.Intersect(auth.Plain)
	if !discharged.IsEmpty() {
		reenc, err := plan.NewNode(plan.Reencryption, catalog.AttrSet{}, discharged, catalog.AttrSet{}, "", false, false, "re-encryption("+discharged.String()+")")
		if err != nil {
			return err
		}
		reenc.Assignee = sMin
		n.InsertAbove(reenc)
		for a := range discharged {
			toEncDec.Remove(a)
		}
	}

	delegate := n.Ae.Diff(auth.Plain)
	for a := range delegate {
		toEncDec.Add(a)
	}

	local := n.Ae.Intersect(auth.Plain)
	if local.IsEmpty() {
		return nil
	}
	return pushLocalReencryption(n, local, sMin)
}

// pushLocalReencryption implements step 4: for attributes the assignee
// will re-encrypt itself, find the matching attribute at every leaf under
// n's children and insert a re-encryption node directly above that leaf,
// skipping whatever an intervening node between n and the leaf already
// re-encrypts as part of its own Ae.
func pushLocalReencryption(n *plan.Node, local catalog.AttrSet, assignee catalog.SubjectID) error {
	for _, child := range n.Children {
		for _, leaf := range plan.Leaves(child) {
			covered := catalog.AttrSet{}
			for cur := leaf.Parent; cur != nil && cur != n; cur = cur.Parent {
				covered = covered.Union(cur.Ae)
			}
			matched := leaf.Ae.Union(leaf.As).Intersect(local).Diff(covered)
			if matched.IsEmpty() {
				continue
			}
			reenc, err := plan.NewNode(plan.Reencryption, catalog.AttrSet{}, matched, catalog.AttrSet{}, "", false, false, "re-encryption("+matched.String()+")")
			if err != nil {
				return err
			}
			reenc.Assignee = assignee
			leaf.InsertAbove(reenc)
		}
	}
	return nil
}

func containsSubject(ids []catalog.SubjectID, want catalog.SubjectID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
