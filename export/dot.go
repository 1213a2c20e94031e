// Package export renders a compiled plan tree as Graphviz DOT. It is
// presentation-only (spec §9: "not part of the core") and has no
// influence on any compiler invariant.
package export

import (
	"fmt"
	"html"
	"io"

	"github.com/Bonis98/Distributed-query/catalog"
	"github.com/Bonis98/Distributed-query/plan"
)

// WriteDOT renders root as a Graphviz DOT digraph to w, mirroring
// original_source/export.py's node_attr: cryptographic nodes are drawn as
// filled ellipses (re-encryption half-shaded, encryption fully shaded),
// the query root as a plain box, and every other node as an HTML-like
// table showing its profile (vp/ve/vE over ip/ie), candidates and
// assignee.
func WriteDOT(w io.Writer, root *plan.Node) error {
	nodes := plan.PreOrder(root)
	ids := make(map[*plan.Node]int, len(nodes))
	for i, n := range nodes {
		ids[n] = i
	}

	if _, err := fmt.Fprintln(w, "digraph plan {"); err != nil {
		return err
	}
	fmt.Fprintln(w, `  node [fontname="Helvetica"];`)

	for _, n := range nodes {
		fmt.Fprintf(w, "  n%d [%s];\n", ids[n], nodeAttrs(n))
		for _, c := range n.Children {
			fmt.Fprintf(w, "  n%d -> n%d [dir=back];\n", ids[n], ids[c])
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func nodeAttrs(n *plan.Node) string {
	switch {
	case n.Cryptographic:
		return cryptoAttrs(n)
	case n.Op == plan.Query:
		return `shape=box, label="User formulating the query"`
	default:
		return `shape=plain, label=<` + operatorTable(n) + `>`
	}
}

func cryptoAttrs(n *plan.Node) string {
	attrs := n.Ae
	if attrs.IsEmpty() {
		attrs = n.Ap
	}
	label := html.EscapeString(attrs.String()) + "<BR/>Assignee: <B>" + html.EscapeString(string(n.Assignee)) + "</B>"

	style := ""
	switch n.Op {
	case plan.Reencryption:
		style = `, style=filled, fillcolor="white:lightgrey", gradientangle=90`
	case plan.Decryption, plan.Encryption:
		style = `, style=filled, fillcolor=lightgrey`
	}
	return fmt.Sprintf(`shape=ellipse, label=<%s>%s`, label, style)
}

func operatorTable(n *plan.Node) string {
	name := html.EscapeString(n.String())

	row1 := fmt.Sprintf(`<tr><td border="0" colspan="3">%s</td>%s</tr>`, name, profileCells(n.Vp, n.Ve, n.VE))

	cand := " "
	if n.IsLeaf() {
		cand = "&uarr;"
	} else if len(n.Candidates) > 0 {
		cand = "Candidates: <B>" + candidateList(n.Candidates) + "</B>"
	}
	row2 := fmt.Sprintf(`<tr><td border="0" colspan="3">%s</td>%s</tr>`, cand, profileCells(n.Ip, n.Ie, catalog.AttrSet{}))

	var row3 string
	switch {
	case n.IsLeaf() && n.Relation != nil:
		row3 = fmt.Sprintf(`<tr><td border="0" colspan="3">%s @%s</td></tr>`,
			html.EscapeString(n.Relation.Name), html.EscapeString(string(n.Relation.Storage)))
	case !n.IsLeaf() && n.Assignee != "":
		row3 = fmt.Sprintf(`<tr><td border="0" colspan="3">Assignee: <B>%s</B></td></tr>`, html.EscapeString(string(n.Assignee)))
	}

	return `<table border="1" cellborder="1">` + row1 + row2 + row3 + `</table>`
}

func profileCells(a, b, c catalog.AttrSet) string {
	if a.IsEmpty() && b.IsEmpty() && c.IsEmpty() {
		return ""
	}
	cell := func(s catalog.AttrSet) string {
		v := html.EscapeString(s.String())
		if v == "" {
			return " "
		}
		return v
	}
	return fmt.Sprintf(`<td>%s</td><td bgcolor="lightgrey">%s</td><td bgcolor="lightgrey">%s</td>`, cell(a), cell(b), cell(c))
}

func candidateList(ids []catalog.SubjectID) string {
	out := ""
	for _, id := range ids {
		out += html.EscapeString(string(id))
	}
	return out
}
