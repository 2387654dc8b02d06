// Package rdf provides an in-memory RDF graph with Turtle serialization
// and a Turtle parser covering the subset of the syntax used by DCAT-BR
// data and SHACL shape files.
package rdf

import (
	"fmt"
	"strings"
)

// Term is an RDF term: an IRI, a literal, or a blank node.
type Term interface {
	// String returns the N-Triples rendering of the term.
	String() string
	termNode()
}

// IRI is an absolute IRI reference.
type IRI string

func (i IRI) String() string { return "<" + string(i) + ">" }
func (i IRI) termNode()      {}

// BNode is a blank node label (without the "_:" prefix).
type BNode string

func (b BNode) String() string { return "_:" + string(b) }
func (b BNode) termNode()      {}

// Literal is an RDF literal with an optional language tag or datatype IRI.
// A literal carries at most one of the two.
type Literal struct {
	Value    string
	Lang     string
	Datatype IRI
}

func (l Literal) String() string {
	s := `"` + escapeLiteral(l.Value) + `"`
	if l.Lang != "" {
		return s + "@" + l.Lang
	}
	if l.Datatype != "" && l.Datatype != XSDString {
		return s + "^^" + l.Datatype.String()
	}
	return s
}

func (l Literal) termNode() {}

// NewLiteral returns a plain string literal.
func NewLiteral(value string) Literal {
	return Literal{Value: value}
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(value, lang string) Literal {
	return Literal{Value: value, Lang: lang}
}

// NewTypedLiteral returns a literal with an explicit datatype IRI.
func NewTypedLiteral(value string, datatype IRI) Literal {
	return Literal{Value: value, Datatype: datatype}
}

// Boolean returns an xsd:boolean literal.
func Boolean(v bool) Literal {
	return Literal{Value: fmt.Sprintf("%t", v), Datatype: XSDBoolean}
}

// Decimal returns an xsd:decimal literal.
func Decimal(v float64) Literal {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return Literal{Value: s, Datatype: XSDDecimal}
}

// Date returns an xsd:date literal from a YYYY-MM-DD string.
func Date(v string) Literal {
	return Literal{Value: v, Datatype: XSDDate}
}

// Common datatype IRIs used by the serializer and validator.
const (
	XSDString  IRI = "http://www.w3.org/2001/XMLSchema#string"
	XSDBoolean IRI = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDecimal IRI = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDInteger IRI = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDate    IRI = "http://www.w3.org/2001/XMLSchema#date"
	RDFType    IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFFirst   IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	RDFRest    IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	RDFNil     IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
	RDFLangStr IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// escapeLiteral escapes special characters for Turtle/N-Triples output.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
