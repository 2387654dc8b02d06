package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// Turtle serializes the graph in Turtle syntax: a prefix block followed by
// one statement group per subject, predicates separated by ";" and repeated
// objects by ",". Subjects appear in first-insertion order.
func (g *Graph) Turtle() string {
	var sb strings.Builder

	prefixes := g.sortedPrefixes()
	for _, p := range prefixes {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", p, g.prefixes[p]))
	}
	if len(prefixes) > 0 {
		sb.WriteString("\n")
	}

	for _, subject := range g.subjectOrder() {
		g.writeSubject(&sb, subject)
		sb.WriteString("\n")
	}

	return sb.String()
}

// NTriples serializes the graph as one full triple per line.
func (g *Graph) NTriples() string {
	var sb strings.Builder
	for _, t := range g.triples {
		sb.WriteString(t.Subject.String())
		sb.WriteString(" ")
		sb.WriteString(t.Predicate.String())
		sb.WriteString(" ")
		sb.WriteString(t.Object.String())
		sb.WriteString(" .\n")
	}
	return sb.String()
}

func (g *Graph) sortedPrefixes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	sort.Strings(out)
	return out
}

// subjectOrder returns distinct subjects in first-insertion order.
func (g *Graph) subjectOrder() []Term {
	var out []Term
	seen := make(map[string]bool)
	for _, t := range g.triples {
		key := t.Subject.String()
		if !seen[key] {
			seen[key] = true
			out = append(out, t.Subject)
		}
	}
	return out
}

func (g *Graph) writeSubject(sb *strings.Builder, subject Term) {
	type predGroup struct {
		pred    IRI
		objects []Term
	}
	var groups []predGroup
	index := make(map[IRI]int)
	for _, t := range g.triples {
		if !sameTerm(t.Subject, subject) {
			continue
		}
		i, ok := index[t.Predicate]
		if !ok {
			index[t.Predicate] = len(groups)
			groups = append(groups, predGroup{pred: t.Predicate})
			i = len(groups) - 1
		}
		groups[i].objects = append(groups[i].objects, t.Object)
	}

	sb.WriteString(g.renderTerm(subject))
	sb.WriteString("\n")
	for gi, grp := range groups {
		sb.WriteString("    ")
		sb.WriteString(g.renderPredicate(grp.pred))
		sb.WriteString(" ")
		for oi, obj := range grp.objects {
			sb.WriteString(g.renderObject(obj))
			if oi < len(grp.objects)-1 {
				sb.WriteString(", ")
			}
		}
		if gi < len(groups)-1 {
			sb.WriteString(" ;\n")
		} else {
			sb.WriteString(" .\n")
		}
	}
}

// renderTerm compacts IRIs against bound prefixes where possible.
func (g *Graph) renderTerm(t Term) string {
	iri, ok := t.(IRI)
	if !ok {
		return t.String()
	}
	if qname, ok := g.compact(iri); ok {
		return qname
	}
	return iri.String()
}

func (g *Graph) renderPredicate(p IRI) string {
	if p == RDFType {
		return "a"
	}
	return g.renderTerm(p)
}

func (g *Graph) renderObject(o Term) string {
	if lit, ok := o.(Literal); ok {
		if lit.Datatype != "" && lit.Datatype != XSDString {
			if qname, ok := g.compact(lit.Datatype); ok {
				return `"` + escapeLiteral(lit.Value) + `"^^` + qname
			}
		}
		return lit.String()
	}
	return g.renderTerm(o)
}

// compact rewrites an IRI as prefix:local when a bound namespace matches and
// the local part is a valid prefixed-name suffix.
func (g *Graph) compact(iri IRI) (string, bool) {
	s := string(iri)
	for _, prefix := range g.order {
		ns := g.prefixes[prefix]
		if ns == "" || !strings.HasPrefix(s, ns) {
			continue
		}
		local := s[len(ns):]
		if local == "" || !validLocalPart(local) {
			continue
		}
		return prefix + ":" + local, true
	}
	return "", false
}

// validLocalPart reports whether local can appear after a prefix without
// escaping. Conservative: alphanumerics, hyphen, underscore, dot (not
// leading or trailing).
func validLocalPart(local string) bool {
	for i, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_':
		case r == '.':
			if i == 0 || i == len(local)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
