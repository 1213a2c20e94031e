package analyzer

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

// Options configures a Compile run.
type Options struct {
	// Manual, when non-empty, overrides cost-based assignee selection for
	// non-leaf nodes in pre-order visitation order (spec §9: reproducing
	// fixed textbook examples). Every entry is validated against the
	// node it is popped for.
	Manual []catalog.SubjectID
	Log    logrus.FieldLogger
}

// Compile runs the four passes of spec §2 over root: it wraps root in a
// synthetic query node assigned to the user (spec §6), then sequences
// IdentifyCandidates, ComputeCost, ComputeAssignment and ExtendPlan,
// tracing and logging each pass the way a rule-based analyzer tracks its
// own rule batch. The returned node is the tree's final root (the query
// node, unless a re-encryption was spliced above it).
func Compile(ctx context.Context, root *plan.Node, cat *catalog.Catalog, opts Options) (*plan.Node, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "analyzer.Compile")
	defer span.Finish()

	query, err := plan.NewNode(plan.Query, catalog.AttrSet{}, catalog.AttrSet{}, catalog.AttrSet{}, "", false, false, "query")
	if err != nil {
		return nil, err
	}
	query.Assignee = catalog.User
	query.AddChild(root)

	if err := runPass(ctx, log, "identify_candidates", func() error {
		return IdentifyCandidates(query, cat)
	}); err != nil {
		return nil, err
	}

	if err := runPass(ctx, log, "compute_cost", func() error {
		ComputeCost(query, cat)
		return nil
	}); err != nil {
		return nil, err
	}

	var assigned *plan.Node
	if err := runPass(ctx, log, "compute_assignment", func() error {
		var err error
		assigned, err = ComputeAssignment(query, cat, opts.Manual)
		return err
	}); err != nil {
		return nil, err
	}

	var extended *plan.Node
	if err := runPass(ctx, log, "extend_plan", func() error {
		var err error
		extended, err = ExtendPlan(assigned, cat)
		return err
	}); err != nil {
		return nil, err
	}

	log.WithField("root", extended.String()).Debug("compilation finished")
	return extended, nil
}

func runPass(ctx context.Context, log logrus.FieldLogger, name string, fn func() error) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "analyzer."+name)
	defer span.Finish()

	log.WithField("pass", name).Debug("running pass")
	if err := fn(); err != nil {
		log.WithField("pass", name).WithError(err).Error("pass failed")
		span.SetTag("error", true)
		return err
	}
	return nil
}
