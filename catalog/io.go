package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"
)

// TreeRow is a single row of tree.csv, parsed but not yet validated into a
// plan.Node (spec §6). catalog cannot depend on plan, so tree.csv is read
// here as data and handed to plan.BuildTree for construction.
type TreeRow struct {
	ID              int
	Operation       string
	Ap, Ae, As      string
	GroupAttr       string
	HasGroupAttr    bool
	Size            uint64
	PrintLabel      string
	ParentID        int
	SelectMultiAttr bool
}

// ErrCSVField fires when a CSV cell cannot be coerced to the column's
// expected type.
var ErrCSVField = errors.NewKind("%s:%d: column %q: %v")

// ReadAll reads the four input tables from dir (spec §6: tree.csv,
// relations.csv, subjects.csv, authorizations.csv) and returns the
// resulting Catalog plus the raw tree rows, a relation-by-row-id map for
// binding leaves (plan.BuildTree does the binding), and any aggregated
// InputValidation error.
func ReadAll(dir string) (cat *Catalog, rows []TreeRow, relByRow map[int]*Relation, err error) {
	c := &ErrCollector{}

	rows, terr := readTree(filepath.Join(dir, "tree.csv"))
	c.Add(terr)

	relByRow, rerr := readRelations(filepath.Join(dir, "relations.csv"), rows)
	c.Add(rerr)

	subjects, aerr := readSubjects(filepath.Join(dir, "subjects.csv"))
	c.Add(aerr)

	auths, aerr2 := readAuthorizations(filepath.Join(dir, "authorizations.csv"))
	c.Add(aerr2)

	if err := c.Result(); err != nil {
		return nil, nil, nil, err
	}

	relations := make(map[string]*Relation)
	for _, r := range relByRow {
		relations[r.Name] = r
	}

	return NewCatalog(subjects, auths, relations), rows, relByRow, nil
}

func openCSV(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r, f, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx, nil
}

func cell(record []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func readTree(path string) ([]TreeRow, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	c := &ErrCollector{}
	var rows []TreeRow
	for lineNo := 2; ; lineNo++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.Add(err)
			break
		}

		id, err := cast.ToIntE(cell(record, idx, "ID"))
		if err != nil {
			c.Add(ErrCSVField.New(path, lineNo, "ID", err))
			continue
		}
		size, err := cast.ToUint64E(orZero(cell(record, idx, "size")))
		if err != nil {
			c.Add(ErrCSVField.New(path, lineNo, "size", err))
			continue
		}
		parentStr := orZero(cell(record, idx, "parent"))
		parentID, err := cast.ToIntE(parentStr)
		if err != nil {
			c.Add(ErrCSVField.New(path, lineNo, "parent", err))
			continue
		}

		ap := cell(record, idx, "Ap")
		ae := cell(record, idx, "Ae")
		as := cell(record, idx, "As")
		groupAttr := cell(record, idx, "group_attr")
		op := cell(record, idx, "operation")

		total := len(ParseAttrString(ap)) + len(ParseAttrString(ae)) + len(ParseAttrString(as))

		rows = append(rows, TreeRow{
			ID:              id,
			Operation:       op,
			Ap:              ap,
			Ae:              ae,
			As:              as,
			GroupAttr:       groupAttr,
			HasGroupAttr:    groupAttr != "",
			Size:            size,
			PrintLabel:      cell(record, idx, "print_label"),
			ParentID:        parentID,
			SelectMultiAttr: op == "selection" && total > 1,
		})
	}
	return rows, c.Result()
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func readRelations(path string, rows []TreeRow) (map[int]*Relation, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	knownRows := make(map[int]bool, len(rows))
	for _, row := range rows {
		knownRows[row.ID] = true
	}

	c := &ErrCollector{}
	out := make(map[int]*Relation)
	for lineNo := 2; ; lineNo++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.Add(err)
			break
		}

		name := cell(record, idx, "name")
		nodeID, err := cast.ToIntE(cell(record, idx, "node_id"))
		if err != nil {
			c.Add(ErrCSVField.New(path, lineNo, "node_id", err))
			continue
		}
		if !knownRows[nodeID] {
			c.Add(ErrUnknownRelationNode.New(name, nodeID))
			continue
		}

		plainStr := cell(record, idx, "plain_attr")
		encStr := cell(record, idx, "enc_attr")
		plain := ParseAttrString(plainStr)
		enc := ParseAttrString(encStr)
		pk := ParseAttrString(cell(record, idx, "primary_key"))
		var all []Attribute
		for _, ch := range plainStr + encStr {
			all = append(all, Attribute(ch))
		}

		encCost, e1 := splitCosts(cell(record, idx, "enc_costs"), all)
		decCost, e2 := splitCosts(cell(record, idx, "dec_costs"), all)
		size, e3 := splitCosts(cell(record, idx, "size"), all)
		for _, e := range []error{e1, e2, e3} {
			if e != nil {
				c.Add(ErrCSVField.New(path, lineNo, "costs", e))
			}
		}

		rel, err := NewRelation(name, SubjectID(cell(record, idx, "provider")), pk, plain, enc, encCost, decCost, size)
		if err != nil {
			c.Add(err)
			continue
		}
		out[nodeID] = rel
	}
	return out, c.Result()
}

// splitCosts parses a ';'-separated integer list aligned one-to-one with
// attrs (spec §6: plain_attr's attributes followed by enc_attr's).
func splitCosts(s string, attrs []Attribute) (map[Attribute]uint64, error) {
	if s == "" {
		return map[Attribute]uint64{}, nil
	}
	parts := strings.Split(s, ";")
	if len(parts) != len(attrs) {
		return nil, fmt.Errorf("expected %d values, got %d", len(attrs), len(parts))
	}
	out := make(map[Attribute]uint64, len(attrs))
	for i, a := range attrs {
		v, err := cast.ToUint64E(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil, err
		}
		out[a] = v
	}
	return out, nil
}

func readSubjects(path string) ([]Subject, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	c := &ErrCollector{}
	var out []Subject
	for lineNo := 2; ; lineNo++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.Add(err)
			break
		}
		comp, e1 := cast.ToUint64E(cell(record, idx, "comp_price"))
		transfer, e2 := cast.ToUint64E(cell(record, idx, "transfer_price"))
		if e1 != nil {
			c.Add(ErrCSVField.New(path, lineNo, "comp_price", e1))
		}
		if e2 != nil {
			c.Add(ErrCSVField.New(path, lineNo, "transfer_price", e2))
		}
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, Subject{
			ID:            SubjectID(cell(record, idx, "subject")),
			CompPrice:     comp,
			TransferPrice: transfer,
		})
	}
	return out, c.Result()
}

func readAuthorizations(path string) (map[SubjectID]Authorization, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	c := &ErrCollector{}
	out := make(map[SubjectID]Authorization)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.Add(err)
			break
		}
		sid := SubjectID(cell(record, idx, "subject"))
		out[sid] = Authorization{
			Subject: sid,
			Plain:   ParseAttrString(cell(record, idx, "plain")),
			Enc:     ParseAttrString(cell(record, idx, "enc")),
		}
	}
	return out, c.Result()
}
