package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bonis98/Distributed-query/analyzer"
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

func mustLeaf(t *testing.T, ae string, rel *catalog.Relation) *plan.Node {
	t.Helper()
	n, err := plan.NewNode(plan.Projection, catalog.AttrSet{}, catalog.ParseAttrString(ae), catalog.AttrSet{}, "", false, false, "leaf("+rel.Name+")")
	require.NoError(t, err)
	n.Relation = rel
	return n
}

// joinCatalog builds the fixture behind the join-with-local-reencryption
// scenario: two storage providers who see nothing, and a mediator M
// authorized in plaintext for exactly the join key, making M the sole
// candidate able to compute the join's equality predicate.
func joinCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	subs := []catalog.Subject{
		{ID: "P1", CompPrice: 10, TransferPrice: 5},
		{ID: "P2", CompPrice: 10, TransferPrice: 5},
		{ID: "M", CompPrice: 1, TransferPrice: 1},
	}
	auths := map[catalog.SubjectID]catalog.Authorization{
		"P1": {Subject: "P1", Plain: catalog.AttrSet{}, Enc: catalog.AttrSet{}},
		"P2": {Subject: "P2", Plain: catalog.AttrSet{}, Enc: catalog.AttrSet{}},
		"M":  {Subject: "M", Plain: catalog.ParseAttrString("NS"), Enc: catalog.AttrSet{}},
	}
	return catalog.NewCatalog(subs, auths, map[string]*catalog.Relation{})
}

func TestComputeAssignment_PushesLocalReencryptionToBothLeaves(t *testing.T) {
	cat := joinCatalog(t)

	r1, err := catalog.NewRelation("R1", "P1", catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{})
	require.NoError(t, err)
	r2, err := catalog.NewRelation("R2", "P2", catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{})
	require.NoError(t, err)

	leaf1 := mustLeaf(t, "N", r1)
	leaf2 := mustLeaf(t, "S", r2)

	root, err := plan.NewNode(plan.Join, catalog.AttrSet{}, catalog.ParseAttrString("NS"), catalog.AttrSet{}, "", false, false, "join")
	require.NoError(t, err)
	root.AddChild(leaf1)
	root.AddChild(leaf2)

	require.NoError(t, analyzer.IdentifyCandidates(root, cat))
	require.Equal(t, []catalog.SubjectID{"M"}, root.Candidates)

	analyzer.ComputeCost(root, cat)

	final, err := analyzer.ComputeAssignment(root, cat, nil)
	require.NoError(t, err)
	require.Same(t, root, final)

	require.Equal(t, catalog.SubjectID("M"), root.Assignee)
	require.Len(t, root.Children, 2)

	reencA, reencB := root.Children[0], root.Children[1]
	require.Equal(t, plan.Reencryption, reencA.Op)
	require.Equal(t, plan.Reencryption, reencB.Op)
	require.Equal(t, catalog.SubjectID("M"), reencA.Assignee)
	require.Equal(t, catalog.SubjectID("M"), reencB.Assignee)
	require.True(t, reencA.Ae.Has("N"))
	require.True(t, reencB.Ae.Has("S"))

	require.Same(t, leaf1, reencA.Children[0])
	require.Same(t, leaf2, reencB.Children[0])
	require.Equal(t, catalog.SubjectID("P1"), leaf1.Assignee)
	require.Equal(t, catalog.SubjectID("P2"), leaf2.Assignee)
}

func TestComputeAssignment_ManualOverrideMustBeCandidate(t *testing.T) {
	cat := joinCatalog(t)

	r1, err := catalog.NewRelation("R1", "P1", catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{})
	require.NoError(t, err)
	r2, err := catalog.NewRelation("R2", "P2", catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{}, map[catalog.Attribute]uint64{})
	require.NoError(t, err)

	leaf1 := mustLeaf(t, "N", r1)
	leaf2 := mustLeaf(t, "S", r2)
	root, err := plan.NewNode(plan.Join, catalog.AttrSet{}, catalog.ParseAttrString("NS"), catalog.AttrSet{}, "", false, false, "join")
	require.NoError(t, err)
	root.AddChild(leaf1)
	root.AddChild(leaf2)

	require.NoError(t, analyzer.IdentifyCandidates(root, cat))
	analyzer.ComputeCost(root, cat)

	_, err = analyzer.ComputeAssignment(root, cat, []catalog.SubjectID{"P1"})
	require.Error(t, err)
	require.True(t, analyzer.ErrManualAssigneeNotCandidate.Is(err))
}
