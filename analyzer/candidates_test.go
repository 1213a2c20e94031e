package analyzer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Bonis98/Distributed-query/analyzer"
	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

func mustNode(t *testing.T, op plan.OpKind, ap, ae, as string, label string) *plan.Node {
	t.Helper()
	n, err := plan.NewNode(op, catalog.ParseAttrString(ap), catalog.ParseAttrString(ae), catalog.ParseAttrString(as), "", false, false, label)
	require.NoError(t, err)
	return n
}

// twoSubjectCatalog builds a minimal catalog with two subjects: one
// authorized for everything in plaintext, one seeing nothing, mirroring
// test_procedures.py's fixture shape.
func twoSubjectCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	subs := []catalog.Subject{
		{ID: "S1", CompPrice: 2, TransferPrice: 1},
		{ID: "S2", CompPrice: 5, TransferPrice: 3},
	}
	auths := map[catalog.SubjectID]catalog.Authorization{
		"S1": {Subject: "S1", Plain: catalog.ParseAttrString("NSP"), Enc: catalog.AttrSet{}},
		"S2": {Subject: "S2", Plain: catalog.AttrSet{}, Enc: catalog.AttrSet{}},
	}
	return catalog.NewCatalog(subs, auths, map[string]*catalog.Relation{})
}

func TestIdentifyCandidates_LeafAdmitsEverySubject(t *testing.T) {
	cat := twoSubjectCatalog(t)
	leaf := mustNode(t, plan.Projection, "N", "", "", "leaf")

	require.NoError(t, analyzer.IdentifyCandidates(leaf, cat))
	require.ElementsMatch(t, []catalog.SubjectID{"S1", "S2"}, leaf.Candidates)
}

func TestIdentifyCandidates_FiltersUnauthorizedSubjects(t *testing.T) {
	cat := twoSubjectCatalog(t)
	leaf := mustNode(t, plan.Projection, "N", "", "", "leaf")
	root := mustNode(t, plan.Projection, "N", "", "", "root")
	root.AddChild(leaf)

	require.NoError(t, analyzer.IdentifyCandidates(root, cat))
	if diff := cmp.Diff([]catalog.SubjectID{"S1"}, root.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

// TestIdentifyCandidates_Monotonicity checks spec invariant 6: when the
// child's plaintext attributes are implicit at the node (child.Ap ⊆
// node.ip), the candidate pool is inherited from the child rather than
// taken from the full subject pool, so the node's candidates are a subset
// of the child's candidates.
func TestIdentifyCandidates_Monotonicity(t *testing.T) {
	cat := twoSubjectCatalog(t)
	leaf := mustNode(t, plan.Projection, "N", "", "", "leaf")
	parent := mustNode(t, plan.Selection, "N", "", "", "parent")
	parent.AddChild(leaf)

	require.NoError(t, analyzer.IdentifyCandidates(parent, cat))
	for _, c := range parent.Candidates {
		require.Contains(t, leaf.Candidates, c)
	}
}

func TestIdentifyCandidates_NoCandidateAborts(t *testing.T) {
	subs := []catalog.Subject{{ID: "S1", CompPrice: 1, TransferPrice: 1}}
	auths := map[catalog.SubjectID]catalog.Authorization{}
	cat := catalog.NewCatalog(subs, auths, map[string]*catalog.Relation{})

	leaf := mustNode(t, plan.Projection, "N", "", "", "leaf")
	root := mustNode(t, plan.Projection, "N", "", "", "root")
	root.AddChild(leaf)

	err := analyzer.IdentifyCandidates(root, cat)
	require.Error(t, err)
	require.True(t, analyzer.ErrNoCandidate.Is(err))
}
