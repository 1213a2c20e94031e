package analyzer

import (
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

// ExtendPlan is the final post-order pass of spec §4.6: it inserts the
// decryption and encryption nodes that make every assignee boundary
// explicit, then recomputes the profile of the whole tree once more so
// the exported plan's annotations reflect its final shape (spec
// invariant 5 lets this be done freely; ComputeProfile is idempotent).
//
// At the synthetic query root, a terminal decryption hands the user
// everything its child still carries re-encrypted or encrypted (spec
// invariant 6: after this pass the root's direct children carry
// ve = vE = ∅). Below the root, every non-cryptographic node decrypts
// whatever subset of its own Ap a child still only carries re-encrypted
// or encrypted, and whatever a node now exposes in plaintext that its
// non-cryptographic parent's assignee is authorized for in encrypted form
// is encrypted before it crosses that boundary.
func ExtendPlan(root *plan.Node, cat *catalog.Catalog) (*plan.Node, error) {
	// ComputeAssignment spliced re-encryption nodes into the tree without
	// ever profiling them (they default to the empty profile NewNode
	// leaves them with); refresh the whole tree once before using any
	// node's vp/ve/vE to decide where a boundary node is needed.
	plan.RecomputeProfiles(root)

	if err := extendNode(root, cat); err != nil {
		return nil, err
	}

	final := root
	for final.Parent != nil {
		final = final.Parent
	}
	plan.RecomputeProfiles(final)
	return final, nil
}

func extendNode(n *plan.Node, cat *catalog.Catalog) error {
	// Post-order: extend children first, and re-profile each as soon as
	// its own subtree is final, so this node's boundary decisions (and
	// its parent's, later) read accurate vp/ve/vE.
	for _, c := range n.Children {
		if err := extendNode(c, cat); err != nil {
			return err
		}
		plan.ComputeProfile(c)
	}

	if n.Op == plan.Query {
		_, err := insertTerminalDecryption(n)
		return err
	}

	if !n.Cryptographic {
		for _, c := range n.Children {
			if _, err := insertChildDecryption(n, c); err != nil {
				return err
			}
		}
	}

	_, err := insertParentEncryption(n, cat)
	return err
}

// insertTerminalDecryption implements spec §4.6 bullet 1: the root always
// hands its result to the user in full plaintext, so anything its
// subtree still carries under ve or vE must be decrypted one last time.
func insertTerminalDecryption(root *plan.Node) (*plan.Node, error) {
	if len(root.Children) == 0 {
		return nil, nil
	}
	decrypt := catalog.AttrSet{}
	for _, c := range root.Children {
		decrypt = decrypt.Union(c.Ve).Union(c.VE)
	}
	if decrypt.IsEmpty() {
		return nil, nil
	}
	dec, err := plan.NewNode(plan.Decryption, catalog.AttrSet{}, decrypt, catalog.AttrSet{}, "", false, false, "decryption("+decrypt.String()+")")
	if err != nil {
		return nil, err
	}
	dec.Assignee = root.Assignee
	root.Children[0].InsertAbove(dec)
	plan.ComputeProfile(dec)
	return dec, nil
}

// insertChildDecryption implements spec §4.6 bullet 2: n can only read its
// own Ap in plaintext, so whatever subset of that child still carries
// under ve or vE (and doesn't already expose under vp) must be decrypted
// between n and child — regardless of whether the two share an assignee,
// since the data is physically still re-encrypted even when the same
// party executes both steps.
func insertChildDecryption(n, child *plan.Node) (*plan.Node, error) {
	dec := n.Ap.Intersect(child.Ve.Union(child.VE)).Diff(child.Vp)
	if dec.IsEmpty() {
		return nil, nil
	}
	node, err := plan.NewNode(plan.Decryption, catalog.AttrSet{}, dec, catalog.AttrSet{}, "", false, false, "decryption("+dec.String()+")")
	if err != nil {
		return nil, err
	}
	node.Assignee = n.Assignee
	child.InsertAbove(node)
	plan.ComputeProfile(node)
	return node, nil
}

// insertParentEncryption implements spec §4.6 bullet 3: after n's own
// boundary decryptions are in place, whatever n now exposes under vp that
// its non-cryptographic parent's assignee is authorized for in encrypted
// form (encᴬ) is encrypted before crossing into the parent.
// This rule applies to n regardless of whether n itself is a
// cryptographic node.
func insertParentEncryption(n *plan.Node, cat *catalog.Catalog) (*plan.Node, error) {
	if n.Parent == nil || n.Parent.Cryptographic {
		return nil, nil
	}
	enc := n.Vp.Intersect(cat.Auth(n.Parent.Assignee).Enc)
	if enc.IsEmpty() {
		return nil, nil
	}
	node, err := plan.NewNode(plan.Encryption, enc, catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "encryption("+enc.String()+")")
	if err != nil {
		return nil, err
	}
	node.Assignee = n.Assignee
	n.InsertAbove(node)
	plan.ComputeProfile(node)
	return node, nil
}
