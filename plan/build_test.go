package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

func TestBuildTree_WiresParentChildAndRelations(t *testing.T) {
	rows := []catalog.TreeRow{
		{ID: 1, Operation: "join", ParentID: 0, PrintLabel: "root"},
		{ID: 2, Operation: "projection", Ap: "N", ParentID: 1, PrintLabel: "left"},
		{ID: 3, Operation: "projection", Ap: "S", ParentID: 1, PrintLabel: "right"},
	}
	rel := &catalog.Relation{Name: "R", Storage: "P", Plain: catalog.ParseAttrString("N")}
	relByRow := map[int]*catalog.Relation{2: rel}

	root, err := plan.BuildTree(rows, relByRow)
	require.NoError(t, err)

	require.Equal(t, plan.Join, root.Op)
	require.Len(t, root.Children, 2)
	require.Equal(t, "left", root.Children[0].String())
	require.Equal(t, "right", root.Children[1].String())
	require.Same(t, rel, root.Children[0].Relation)
	require.Nil(t, root.Children[1].Relation)
}

func TestBuildTree_NoRootIsAnError(t *testing.T) {
	rows := []catalog.TreeRow{
		{ID: 1, Operation: "projection", ParentID: 2, PrintLabel: "a"},
		{ID: 2, Operation: "projection", ParentID: 1, PrintLabel: "b"},
	}
	_, err := plan.BuildTree(rows, nil)
	require.ErrorIs(t, err, plan.ErrNoRoot)
}

func TestBuildTree_MultipleRootsIsAnError(t *testing.T) {
	rows := []catalog.TreeRow{
		{ID: 1, Operation: "projection", ParentID: 0, PrintLabel: "a"},
		{ID: 2, Operation: "projection", ParentID: 0, PrintLabel: "b"},
	}
	_, err := plan.BuildTree(rows, nil)
	require.ErrorIs(t, err, plan.ErrMultipleRoots)
}

func TestBuildTree_UnknownParentIsAnError(t *testing.T) {
	rows := []catalog.TreeRow{
		{ID: 1, Operation: "projection", ParentID: 0, PrintLabel: "a"},
		{ID: 2, Operation: "projection", ParentID: 99, PrintLabel: "b"},
	}
	_, err := plan.BuildTree(rows, nil)
	require.Error(t, err)
	require.True(t, plan.ErrUnknownParent.Is(err))
}
