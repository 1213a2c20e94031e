package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bonis98/Distributed-query/analyzer"
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

// A node's Ap drives decryption, not an assignee mismatch: here parent and
// child share an assignee, but the child only carries N encrypted, and
// the parent's own Ap needs it in plaintext, so a decryption node is still
// required (the data is physically still re-encrypted even though the same
// party executes both steps).
func TestExtendPlan_InsertsDecryptionForParentAp(t *testing.T) {
	rel, err := catalog.NewRelation("R", "P", catalog.AttrSet{}, catalog.AttrSet{}, catalog.ParseAttrString("N"),
		map[catalog.Attribute]uint64{"N": 1}, map[catalog.Attribute]uint64{"N": 1}, map[catalog.Attribute]uint64{"N": 1})
	require.NoError(t, err)

	leaf, err := plan.NewNode(plan.Projection, catalog.AttrSet{}, catalog.AttrSet{}, catalog.ParseAttrString("N"), "", false, false, "leaf")
	require.NoError(t, err)
	leaf.Relation = rel
	leaf.Assignee = "P"

	root, err := plan.NewNode(plan.Projection, catalog.ParseAttrString("N"), catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "root")
	require.NoError(t, err)
	root.AddChild(leaf)
	root.Assignee = "P"

	final, err := analyzer.ExtendPlan(root, catalog.NewCatalog(nil, nil, nil))
	require.NoError(t, err)
	require.Same(t, root, final)

	require.Len(t, root.Children, 1)
	dec := root.Children[0]
	require.Equal(t, plan.Decryption, dec.Op)
	require.Equal(t, catalog.SubjectID("P"), dec.Assignee)
	require.True(t, dec.Ae.Has("N"))
	require.Same(t, leaf, dec.Children[0])
}

// No decryption is inserted just because an assignee changes: the parent's
// own Ap never touches anything the child only has re-encrypted, so the
// boundary is spec-correctly left untouched.
func TestExtendPlan_NoInsertionWhenParentApDoesNotNeedIt(t *testing.T) {
	rel, err := catalog.NewRelation("R", "P", catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{},
		map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{})
	require.NoError(t, err)

	leaf, err := plan.NewNode(plan.Projection, catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "leaf")
	require.NoError(t, err)
	leaf.Relation = rel
	leaf.Assignee = "P"

	root, err := plan.NewNode(plan.Projection, catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "root")
	require.NoError(t, err)
	root.AddChild(leaf)
	root.Assignee = "M"

	final, err := analyzer.ExtendPlan(root, catalog.NewCatalog(nil, nil, nil))
	require.NoError(t, err)
	require.Same(t, leaf, final.Children[0])
	require.NotEqual(t, plan.Decryption, final.Children[0].Op)
}

// A node whose vp overlaps its non-cryptographic parent's assignee's encᴬ
// gets an encryption node spliced above it (spec §4.6 bullet 3).
func TestExtendPlan_InsertsEncryptionAtParentBoundary(t *testing.T) {
	rel, err := catalog.NewRelation("R", "P", catalog.AttrSet{}, catalog.ParseAttrString("N"), catalog.AttrSet{},
		map[catalog.Attribute]uint64{"N": 1}, map[catalog.Attribute]uint64{"N": 1}, map[catalog.Attribute]uint64{"N": 1})
	require.NoError(t, err)

	leaf, err := plan.NewNode(plan.Projection, catalog.ParseAttrString("N"), catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "leaf")
	require.NoError(t, err)
	leaf.Relation = rel
	leaf.Assignee = "P"

	mid, err := plan.NewNode(plan.Cartesian, catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "mid")
	require.NoError(t, err)
	mid.AddChild(leaf)
	mid.Assignee = "P"

	parent, err := plan.NewNode(plan.Cartesian, catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "parent")
	require.NoError(t, err)
	parent.AddChild(mid)
	parent.Assignee = "Q"

	subs := []catalog.Subject{
		{ID: "P", CompPrice: 1, TransferPrice: 1},
		{ID: "Q", CompPrice: 1, TransferPrice: 1},
	}
	auths := map[catalog.SubjectID]catalog.Authorization{
		"P": {Subject: "P", Plain: catalog.ParseAttrString("N"), Enc: catalog.AttrSet{}},
		"Q": {Subject: "Q", Plain: catalog.AttrSet{}, Enc: catalog.ParseAttrString("N")},
	}
	cat := catalog.NewCatalog(subs, auths, map[string]*catalog.Relation{"R": rel})

	final, err := analyzer.ExtendPlan(parent, cat)
	require.NoError(t, err)
	require.Same(t, parent, final)

	require.Len(t, parent.Children, 1)
	enc := parent.Children[0]
	require.Equal(t, plan.Encryption, enc.Op)
	require.Equal(t, catalog.SubjectID("P"), enc.Assignee)
	require.True(t, enc.Ap.Has("N"))
	require.Same(t, mid, enc.Children[0])
}
