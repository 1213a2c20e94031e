package catalog

import "sort"

// Catalog is the immutable collection of subjects, their authorizations,
// and the base relations referenced by the plan tree's leaves. Subjects are
// kept sorted ascending by TotalPrice, per spec §3 and §6: this ordering is
// inherited by every candidate list derived from it.
type Catalog struct {
	Subjects       []Subject
	Authorizations map[SubjectID]Authorization
	Relations      map[string]*Relation

	AvgCompPrice     float64
	AvgTransferPrice float64
}

// NewCatalog builds a Catalog from already-parsed subjects, authorizations
// and relations, sorting subjects and computing the price averages exposed
// by spec §6.
func NewCatalog(subjects []Subject, auths map[SubjectID]Authorization, relations map[string]*Relation) *Catalog {
	sorted := make([]Subject, len(subjects))
	copy(sorted, subjects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPrice() < sorted[j].TotalPrice()
	})

	var sumComp, sumTransfer float64
	for _, s := range sorted {
		sumComp += float64(s.CompPrice)
		sumTransfer += float64(s.TransferPrice)
	}
	n := float64(len(sorted))

	cat := &Catalog{
		Subjects:       sorted,
		Authorizations: auths,
		Relations:      relations,
	}
	if n > 0 {
		cat.AvgCompPrice = sumComp / n
		cat.AvgTransferPrice = sumTransfer / n
	}
	return cat
}

// SubjectIDs returns the sorted subject ids, the base candidate pool used
// by analyzer.IdentifyCandidates.
func (c *Catalog) SubjectIDs() []SubjectID {
	out := make([]SubjectID, len(c.Subjects))
	for i, s := range c.Subjects {
		out[i] = s.ID
	}
	return out
}

// Subject looks up a subject's price record by id.
func (c *Catalog) Subject(id SubjectID) (Subject, bool) {
	for _, s := range c.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// Auth looks up a subject's authorization, defaulting to the empty
// authorization (sees nothing) if absent.
func (c *Catalog) Auth(id SubjectID) Authorization {
	if a, ok := c.Authorizations[id]; ok {
		return a
	}
	return Authorization{Subject: id, Plain: AttrSet{}, Enc: AttrSet{}}
}

// RelationsWithEncAttr returns, for an attribute, every relation in the catalog
// that defines it in its encrypted set — used by the cost model (spec
// §4.4) to find dec_cost/enc_cost for an attribute a subject can read.
func (c *Catalog) RelationsWithEncAttr(a Attribute) []*Relation {
	var out []*Relation
	names := make([]string, 0, len(c.Relations))
	for name := range c.Relations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r := c.Relations[name]
		if r.Enc.Has(a) {
			out = append(out, r)
		}
	}
	return out
}
