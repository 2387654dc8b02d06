package rdf

import "strconv"

// Triple is a single subject-predicate-object statement.
type Triple struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

// Graph is an ordered collection of triples with prefix bindings.
// Triples keep insertion order so serialized output is deterministic.
type Graph struct {
	triples  []Triple
	prefixes map[string]string
	order    []string
	bnodeSeq int
}

// NewGraph returns an empty graph with no prefix bindings.
func NewGraph() *Graph {
	return &Graph{
		triples:  make([]Triple, 0),
		prefixes: make(map[string]string),
	}
}

// Bind associates a prefix with a namespace IRI for serialization.
// Rebinding an existing prefix replaces the namespace.
func (g *Graph) Bind(prefix, namespace string) {
	if _, ok := g.prefixes[prefix]; !ok {
		g.order = append(g.order, prefix)
	}
	g.prefixes[prefix] = namespace
}

// Add appends a triple to the graph.
func (g *Graph) Add(subject Term, predicate IRI, object Term) {
	g.triples = append(g.triples, Triple{Subject: subject, Predicate: predicate, Object: object})
}

// NewBNode returns a fresh blank node unique within this graph.
func (g *Graph) NewBNode() BNode {
	g.bnodeSeq++
	return BNode(bnodeLabel(g.bnodeSeq))
}

// Triples returns the triples in insertion order. The returned slice is
// shared with the graph; callers must not modify it.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Objects returns all objects of triples matching the given subject and
// predicate, in insertion order.
func (g *Graph) Objects(subject Term, predicate IRI) []Term {
	var out []Term
	for _, t := range g.triples {
		if t.Predicate == predicate && sameTerm(t.Subject, subject) {
			out = append(out, t.Object)
		}
	}
	return out
}

// Object returns the first object matching subject and predicate, or nil.
func (g *Graph) Object(subject Term, predicate IRI) Term {
	for _, t := range g.triples {
		if t.Predicate == predicate && sameTerm(t.Subject, subject) {
			return t.Object
		}
	}
	return nil
}

// Has reports whether the graph contains the given triple.
func (g *Graph) Has(subject Term, predicate IRI, object Term) bool {
	for _, t := range g.triples {
		if t.Predicate == predicate && sameTerm(t.Subject, subject) && sameTerm(t.Object, object) {
			return true
		}
	}
	return false
}

// SubjectsOfType returns the distinct subjects that have an rdf:type triple
// with the given class, in first-seen order.
func (g *Graph) SubjectsOfType(class IRI) []Term {
	var out []Term
	seen := make(map[string]bool)
	for _, t := range g.triples {
		if t.Predicate != RDFType {
			continue
		}
		obj, ok := t.Object.(IRI)
		if !ok || obj != class {
			continue
		}
		key := t.Subject.String()
		if !seen[key] {
			seen[key] = true
			out = append(out, t.Subject)
		}
	}
	return out
}

// List resolves an RDF collection starting at head into its member terms.
// Returns nil if head does not start a well-formed list.
func (g *Graph) List(head Term) []Term {
	var out []Term
	cur := head
	for {
		if iri, ok := cur.(IRI); ok && iri == RDFNil {
			return out
		}
		first := g.Object(cur, RDFFirst)
		if first == nil {
			return nil
		}
		out = append(out, first)
		rest := g.Object(cur, RDFRest)
		if rest == nil {
			return nil
		}
		cur = rest
	}
}

func sameTerm(a, b Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

func bnodeLabel(n int) string {
	return "b" + strconv.Itoa(n)
}
