// Package analyzer implements the four compiler passes of spec §2:
// IdentifyCandidates, ComputeCost, ComputeAssignment and ExtendPlan, plus
// the Compile driver that sequences them and reinserts profile
// recomputation at the end.
package analyzer

import errors "gopkg.in/src-d/go-errors.v1"

// The two runtime-fatal error kinds of spec §7. Both abort compilation; no
// partial output is emitted.
var (
	// ErrNoCandidate fires when a node's candidate set is empty after §4.3.
	ErrNoCandidate = errors.NewKind("no candidates available for node %s")
	// ErrUnresolvableReencryption fires when a leaf's pending to_enc_dec
	// attributes cannot be fully covered by any authorized, cheaper-first
	// subject during §4.5.
	ErrUnresolvableReencryption = errors.NewKind("node %s: cannot resolve re-encryption obligation for attributes %s")
	// ErrManualAssigneeNotCandidate fires when a --manual assignment names
	// a subject outside the node's computed candidate list (spec §9).
	ErrManualAssigneeNotCandidate = errors.NewKind("node %s: manual assignee %s is not among its candidates %v")
)
