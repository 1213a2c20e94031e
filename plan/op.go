// Package plan implements the relational IR: the Node type, the profile
// algebra (spec §4.1), the authorization predicate (spec §4.2) and the
// tree-walking helpers the analyzer passes use to traverse and mutate the
// plan tree.
package plan

import errors "gopkg.in/src-d/go-errors.v1"

// OpKind is an operator kind from spec §3. The kind is immutable once a
// Node is created (spec §4.6's state-machine note).
type OpKind int

const (
	// Projection restricts the output to the node's own attributes.
	Projection OpKind = iota
	// Selection filters rows; SelectMultiAttr distinguishes the
	// attribute-vs-attribute form from the attribute-vs-constant form.
	Selection
	// Cartesian is the unconditional binary product.
	Cartesian
	// Join is the binary product with an equality predicate between children.
	Join
	// GroupBy aggregates by GroupAttr.
	GroupBy
	// Encryption is a cryptographic unary operator.
	Encryption
	// Decryption is a cryptographic unary operator.
	Decryption
	// Reencryption is a cryptographic unary operator.
	Reencryption
	// Query is the synthetic root representing the requesting user.
	Query
)

var opNames = map[OpKind]string{
	Projection:   "projection",
	Selection:    "selection",
	Cartesian:    "cartesian",
	Join:         "join",
	GroupBy:      "group-by",
	Encryption:   "encryption",
	Decryption:   "decryption",
	Reencryption: "re-encryption",
	Query:        "query",
}

var opByName = func() map[string]OpKind {
	m := make(map[string]OpKind, len(opNames))
	for k, v := range opNames {
		m[v] = k
	}
	return m
}()

func (k OpKind) String() string {
	if name, ok := opNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseOpKind parses a CSV operation column value. "query" is accepted
// here too, though spec §6 notes it is normally synthesized by the driver
// rather than read from tree.csv.
func ParseOpKind(s string) (OpKind, error) {
	if k, ok := opByName[s]; ok {
		return k, nil
	}
	return 0, ErrUnknownOperator.New(s)
}

// Cryptographic reports whether k is one of encryption/decryption/re-encryption.
func (k OpKind) Cryptographic() bool {
	switch k {
	case Encryption, Decryption, Reencryption:
		return true
	default:
		return false
	}
}

// OpWeight is the fixed per-operator computational weight of spec §4.4,
// used as op_weight(n.op) in K(n,s) = comp_price(s) × op_weight(n.op) + ...
var OpWeight = map[OpKind]uint64{
	Projection:   1,
	Selection:    3,
	Cartesian:    5,
	Join:         5,
	GroupBy:      2,
	Encryption:   2,
	Decryption:   2,
	Reencryption: 3,
}

// The InputValidation error kinds this package raises at node-construction
// time, per spec §7.
var (
	ErrAttrsNotDisjoint = errors.NewKind("node %s: Ap, Ae and As must be pairwise disjoint (got Ap=%s Ae=%s As=%s)")
	ErrUnknownOperator  = errors.NewKind("unknown operator kind %q")
	ErrBadGroupAttr     = errors.NewKind("node %s: group_attr %q is not in Ap ∪ Ae ∪ As")
	ErrUnknownParent    = errors.NewKind("node %s: parent id %d does not reference any known node")
)
