package catalog

import (
	"github.com/hashicorp/go-multierror"
	errors "gopkg.in/src-d/go-errors.v1"
)

// The InputValidation error kinds of spec §7. All are reported at
// construction time, before any analyzer pass runs.
var (
	// ErrPrimaryKeyNotCovered fires when a relation's primary key is not a
	// subset of plain ∪ enc.
	ErrPrimaryKeyNotCovered = errors.NewKind("relation %s: primary key %s is not a subset of plain ∪ enc attributes")
	// ErrAttrsOverlap fires when a relation's plain and enc attribute sets overlap.
	ErrAttrsOverlap = errors.NewKind("relation %s: plain and enc attribute sets must be disjoint (both contain %s)")
	// ErrVectorLengthMismatch fires when a cost/size vector's length does
	// not match the attribute list it is aligned to.
	ErrVectorLengthMismatch = errors.NewKind("relation %s: %s vector has %d entries, expected %d (one per plain+enc attribute)")
	// ErrUnknownRelationNode fires when relations.csv binds a relation to a
	// node id that tree.csv never defined.
	ErrUnknownRelationNode = errors.NewKind("relation %s: node_id %d does not reference any known node")
)

// ErrCollector accumulates InputValidation violations across many CSV rows
// so a malformed catalog is reported in full, not one row at a time. Used
// by the CSV readers and NewRelation in this package.
type ErrCollector struct {
	err *multierror.Error
}

// Add records err if non-nil; a nil err is a no-op.
func (c *ErrCollector) Add(err error) {
	if err == nil {
		return
	}
	c.err = multierror.Append(c.err, err)
}

// Result returns the aggregated error, or nil if nothing was added.
func (c *ErrCollector) Result() error {
	if c.err == nil {
		return nil
	}
	return c.err.ErrorOrNil()
}
