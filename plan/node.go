package plan

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/Bonis98/Distributed-query/catalog"
)

// EqClass is a frozen equivalence class: a set of attributes that must be
// seen by one subject through a single consistent representation (spec
// §4.1's eq, spec §4.2's uniform-visibility rule). It is hashed with
// hashstructure so that Node.Eq (a "set of sets") can be deduplicated and
// compared by value without writing custom set-of-set equality.
type EqClass struct {
	Attrs catalog.AttrSet
	hash  uint64
}

// NewEqClass freezes attrs into an EqClass.
func NewEqClass(attrs catalog.AttrSet) EqClass {
	h, err := hashstructure.Hash(attrs.Sorted(), nil)
	if err != nil {
		// attrs.Sorted() is a []catalog.Attribute, always hashable.
		panic(fmt.Sprintf("plan: hashing equivalence class: %v", err))
	}
	return EqClass{Attrs: attrs.Clone(), hash: h}
}

// Hash returns the stable hash used as the map key in EqClassSet.
func (e EqClass) Hash() uint64 { return e.hash }

// EqClassSet is a set of equivalence classes, keyed by EqClass.Hash so that
// identical attribute sets collapse into one class regardless of insertion
// order (spec §4.1 rule for "selection, multi-attribute form" and "join").
type EqClassSet map[uint64]EqClass

// NewEqClassSet builds an EqClassSet from zero or more classes.
func NewEqClassSet(classes ...EqClass) EqClassSet {
	s := make(EqClassSet, len(classes))
	for _, c := range classes {
		s[c.Hash()] = c
	}
	return s
}

// Add inserts a class in place.
func (s EqClassSet) Add(c EqClass) {
	s[c.Hash()] = c
}

// Union returns a new set containing classes from both s and other.
func (s EqClassSet) Union(other EqClassSet) EqClassSet {
	out := make(EqClassSet, len(s)+len(other))
	for h, c := range s {
		out[h] = c
	}
	for h, c := range other {
		out[h] = c
	}
	return out
}

// Clone returns a shallow copy.
func (s EqClassSet) Clone() EqClassSet {
	return s.Union(EqClassSet{})
}

// Node is a mutable plan-tree node (spec §3). Attribute-set fields are
// never aliased between nodes: every assignment into vp/ve/vE/ip/ie/Eq
// clones or builds a fresh AttrSet so ComputeProfile can be re-run
// idempotently (spec invariant 5) without corrupting sibling state.
type Node struct {
	Op OpKind

	// Operator parameters (spec §3): attributes to be observed in
	// plaintext, re-encrypted, and already-encrypted, respectively, by
	// this operator. Pairwise disjoint on every non-leaf node.
	Ap catalog.AttrSet
	Ae catalog.AttrSet
	As catalog.AttrSet

	GroupAttr       catalog.Attribute
	HasGroupAttr    bool
	SelectMultiAttr bool
	Cryptographic   bool

	PrintLabel string

	Parent   *Node
	Children []*Node

	// Base relation, set only on leaves.
	Relation *catalog.Relation

	// Derived profile (spec §4.1).
	Vp catalog.AttrSet
	Ve catalog.AttrSet
	VE catalog.AttrSet
	Ip catalog.AttrSet
	Ie catalog.AttrSet
	Eq EqClassSet

	// Running totals used by candidate identification (spec §4.3).
	TotAp catalog.AttrSet
	TotAe catalog.AttrSet

	Candidates []catalog.SubjectID
	Assignee   catalog.SubjectID
	Size       uint64
	CompCost   map[catalog.SubjectID]uint64
}

// NewNode constructs and validates a Node per spec §3/§7: Ap, Ae, As must
// be pairwise disjoint, and group_attr (if present) must be among the
// node's own attributes.
func NewNode(op OpKind, ap, ae, as catalog.AttrSet, groupAttr catalog.Attribute, hasGroupAttr, selectMultiAttr bool, printLabel string) (*Node, error) {
	if ap == nil {
		ap = catalog.AttrSet{}
	}
	if ae == nil {
		ae = catalog.AttrSet{}
	}
	if as == nil {
		as = catalog.AttrSet{}
	}

	if ap.Intersects(ae) || ap.Intersects(as) || ae.Intersects(as) {
		return nil, ErrAttrsNotDisjoint.New(printLabel, ap, ae, as)
	}

	all := ap.Union(ae).UnionAll(as)
	if hasGroupAttr && !all.Has(groupAttr) {
		return nil, ErrBadGroupAttr.New(printLabel, groupAttr)
	}

	n := &Node{
		Op:              op,
		Ap:              ap,
		Ae:              ae,
		As:              as,
		GroupAttr:       groupAttr,
		HasGroupAttr:    hasGroupAttr,
		SelectMultiAttr: op == Selection && selectMultiAttr,
		Cryptographic:   op.Cryptographic(),
		PrintLabel:      printLabel,
		Vp:              catalog.AttrSet{},
		Ve:              catalog.AttrSet{},
		VE:              catalog.AttrSet{},
		Ip:              catalog.AttrSet{},
		Ie:              catalog.AttrSet{},
		Eq:              EqClassSet{},
		TotAp:           catalog.AttrSet{},
		TotAe:           catalog.AttrSet{},
		CompCost:        map[catalog.SubjectID]uint64{},
	}
	return n, nil
}

// Attributes returns Ap ∪ Ae ∪ As, the node's total attribute set.
func (n *Node) Attributes() catalog.AttrSet {
	return n.Ap.Union(n.Ae).UnionAll(n.As)
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// AddChild appends child to n.Children and sets child.Parent, maintaining
// the single upward-only parent link of spec §9.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// ReplaceChild swaps old for new in n.Children, updating parent links. It
// is the primitive the assignment and extension passes use to splice
// cryptographic nodes into the tree (spec §4.5, §4.6).
func (n *Node) ReplaceChild(old, new *Node) bool {
	for i, c := range n.Children {
		if c == old {
			n.Children[i] = new
			new.Parent = n
			return true
		}
	}
	return false
}

// InsertAbove splices newParent between n and n.Parent: newParent becomes
// the sole child-holder of n, and takes n's former place among its
// grandparent's children (or becomes the new root if n had no parent).
// This is the structural primitive behind every cryptographic-node
// insertion in spec §4.5 and §4.6.
func (n *Node) InsertAbove(newParent *Node) {
	oldParent := n.Parent
	newParent.Children = []*Node{n}
	n.Parent = newParent
	newParent.Parent = oldParent
	if oldParent != nil {
		oldParent.ReplaceChild(n, newParent)
	}
}

func (n *Node) String() string {
	if n.PrintLabel != "" {
		return n.PrintLabel
	}
	return n.Op.String()
}
