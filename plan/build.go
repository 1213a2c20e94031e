package plan

import (
	"github.com/Bonis98/Distributed-query/catalog"
)

// ErrNoRoot and ErrMultipleRoots are raised by BuildTree when tree.csv
// does not describe exactly one node with parent = 0.
var (
	ErrNoRoot        = buildErr("tree.csv describes no root node (every row has a non-zero parent)")
	ErrMultipleRoots = buildErr("tree.csv describes more than one root node (parent = 0)")
)

type buildErr string

func (e buildErr) Error() string { return string(e) }

// BuildTree constructs the plan tree described by rows (spec §6's
// tree.csv), binding each row's relation from relByRow when present. Rows
// are otherwise data-only (catalog.TreeRow); this is where they become a
// validated Node tree, since catalog cannot import plan.
func BuildTree(rows []catalog.TreeRow, relByRow map[int]*catalog.Relation) (*Node, error) {
	nodes := make(map[int]*Node, len(rows))
	order := make([]catalog.TreeRow, 0, len(rows))

	for _, row := range rows {
		op, err := ParseOpKind(row.Operation)
		if err != nil {
			return nil, err
		}
		n, err := NewNode(
			op,
			catalog.ParseAttrString(row.Ap),
			catalog.ParseAttrString(row.Ae),
			catalog.ParseAttrString(row.As),
			catalog.Attribute(row.GroupAttr),
			row.HasGroupAttr,
			row.SelectMultiAttr,
			row.PrintLabel,
		)
		if err != nil {
			return nil, err
		}
		n.Size = row.Size
		if rel, ok := relByRow[row.ID]; ok {
			n.Relation = rel
		}
		nodes[row.ID] = n
		order = append(order, row)
	}

	var root *Node
	for _, row := range order {
		n := nodes[row.ID]
		if row.ParentID == 0 {
			if root != nil {
				return nil, ErrMultipleRoots
			}
			root = n
			continue
		}
		parent, ok := nodes[row.ParentID]
		if !ok {
			return nil, ErrUnknownParent.New(n.String(), row.ParentID)
		}
		parent.AddChild(n)
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}
