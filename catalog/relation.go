package catalog

import "fmt"

// SubjectID identifies a subject (user or compute provider). The
// distinguished id "U" denotes the user formulating the query.
type SubjectID string

// User is the distinguished subject id for the requester.
const User SubjectID = "U"

// Relation is a base relation: part plaintext, part stored encrypted at an
// external provider. Per spec §3: plain ∩ enc = ∅; pk ⊆ plain ∪ enc; the
// three cost vectors are defined exactly on plain ∪ enc.
type Relation struct {
	Name    string
	Storage SubjectID
	PK      AttrSet
	Plain   AttrSet
	Enc     AttrSet

	EncCost map[Attribute]uint64
	DecCost map[Attribute]uint64
	Size    map[Attribute]uint64
}

// NewRelation validates and constructs a Relation. It is the single place
// InputValidation errors about relations are raised (spec §7).
func NewRelation(name string, storage SubjectID, pk, plain, enc AttrSet, encCost, decCost, size map[Attribute]uint64) (*Relation, error) {
	c := &ErrCollector{}

	if plain.Intersects(enc) {
		c.Add(ErrAttrsOverlap.New(name, plain.Intersect(enc)))
	}
	all := plain.Union(enc)
	if !pk.SubsetOf(all) {
		c.Add(ErrPrimaryKeyNotCovered.New(name, pk))
	}
	for _, vec := range []struct {
		label string
		m     map[Attribute]uint64
	}{{"enc_cost", encCost}, {"dec_cost", decCost}, {"size", size}} {
		if len(vec.m) != len(all) {
			c.Add(ErrVectorLengthMismatch.New(name, vec.label, len(vec.m), len(all)))
			continue
		}
		for a := range all {
			if _, ok := vec.m[a]; !ok {
				c.Add(ErrVectorLengthMismatch.New(name, vec.label, len(vec.m), len(all)))
				break
			}
		}
	}

	if err := c.Result(); err != nil {
		return nil, err
	}

	return &Relation{
		Name:    name,
		Storage: storage,
		PK:      pk.Clone(),
		Plain:   plain.Clone(),
		Enc:     enc.Clone(),
		EncCost: encCost,
		DecCost: decCost,
		Size:    size,
	}, nil
}

// Attributes returns plain ∪ enc.
func (r *Relation) Attributes() AttrSet {
	return r.Plain.Union(r.Enc)
}

func (r *Relation) String() string {
	return fmt.Sprintf("%s@%s(%s|%s)", r.Name, r.Storage, r.Plain, r.Enc)
}

// Subject is a user or compute provider with a computational and a
// transfer price, both strictly positive per spec §3.
type Subject struct {
	ID            SubjectID
	CompPrice     uint64
	TransferPrice uint64
}

// TotalPrice is the ascending sort key used for candidate ordering
// (spec §3: "sorted by ascending comp_price + transfer_price").
func (s Subject) TotalPrice() uint64 {
	return s.CompPrice + s.TransferPrice
}

// Authorization describes which attributes a subject may see in plaintext
// and/or under deterministic encryption. The two sets may overlap; plainᴬ
// strictly dominates when both hold (spec §3).
type Authorization struct {
	Subject SubjectID
	Plain   AttrSet
	Enc     AttrSet
}

// Visible returns plainᴬ ∪ encᴬ, the set of attributes the subject can see
// in some form.
func (a Authorization) Visible() AttrSet {
	return a.Plain.Union(a.Enc)
}
