// Package shacl implements the subset of SHACL core needed to validate
// DCAT-BR dataset graphs: node shapes targeted by class, with property
// constraints on cardinality, datatype, node kind, class, pattern and
// value enumeration.
package shacl

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/opendata-br/dcatbr/rdf"
)

// SHACL vocabulary terms used by the compiler and validator.
const (
	shNamespace = "http://www.w3.org/ns/shacl#"

	shNodeShape     rdf.IRI = shNamespace + "NodeShape"
	shTargetClass   rdf.IRI = shNamespace + "targetClass"
	shProperty      rdf.IRI = shNamespace + "property"
	shPath          rdf.IRI = shNamespace + "path"
	shMinCount      rdf.IRI = shNamespace + "minCount"
	shMaxCount      rdf.IRI = shNamespace + "maxCount"
	shDatatype      rdf.IRI = shNamespace + "datatype"
	shNodeKind      rdf.IRI = shNamespace + "nodeKind"
	shClass         rdf.IRI = shNamespace + "class"
	shPattern       rdf.IRI = shNamespace + "pattern"
	shIn            rdf.IRI = shNamespace + "in"
	shSeverity      rdf.IRI = shNamespace + "severity"
	shMessage       rdf.IRI = shNamespace + "message"
	shIRI           rdf.IRI = shNamespace + "IRI"
	shLiteral       rdf.IRI = shNamespace + "Literal"
	shBlankNode     rdf.IRI = shNamespace + "BlankNode"
	shBlankNodeIRI  rdf.IRI = shNamespace + "BlankNodeOrIRI"
	shIRIOrLiteral  rdf.IRI = shNamespace + "IRIOrLiteral"
	shViolationTerm rdf.IRI = shNamespace + "Violation"
	shWarningTerm   rdf.IRI = shNamespace + "Warning"
	shInfoTerm      rdf.IRI = shNamespace + "Info"
)

// Severity of a validation result.
type Severity string

const (
	Violation Severity = "Violation"
	Warning   Severity = "Warning"
	Info      Severity = "Info"
)

// propertyShape is one sh:property constraint block.
type propertyShape struct {
	path     rdf.IRI
	minCount int // -1 when unset
	maxCount int // -1 when unset
	datatype rdf.IRI
	nodeKind rdf.IRI
	class    rdf.IRI
	pattern  *regexp.Regexp
	in       []rdf.Term
	severity Severity
	message  string
}

// nodeShape is a compiled sh:NodeShape with a class target.
type nodeShape struct {
	name        string
	targetClass rdf.IRI
	properties  []propertyShape
}

// Validator holds a compiled, immutable shape set.
type Validator struct {
	shapes []nodeShape
}

// Compile extracts node shapes from a shapes graph. Shapes without an
// sh:targetClass are skipped: class targeting is the only target kind the
// DCAT-BR shape set uses.
func Compile(g *rdf.Graph) (*Validator, error) {
	var shapes []nodeShape
	for _, subject := range g.SubjectsOfType(shNodeShape) {
		target, ok := g.Object(subject, shTargetClass).(rdf.IRI)
		if !ok {
			continue
		}
		shape := nodeShape{
			name:        termValue(subject),
			targetClass: target,
		}
		for _, propNode := range g.Objects(subject, shProperty) {
			prop, err := compileProperty(g, propNode)
			if err != nil {
				return nil, fmt.Errorf("shape %s: %w", shape.name, err)
			}
			shape.properties = append(shape.properties, prop)
		}
		shapes = append(shapes, shape)
	}
	if len(shapes) == 0 {
		return nil, fmt.Errorf("shapes graph contains no node shapes with a target class")
	}
	return &Validator{shapes: shapes}, nil
}

func compileProperty(g *rdf.Graph, node rdf.Term) (propertyShape, error) {
	prop := propertyShape{minCount: -1, maxCount: -1, severity: Violation}

	path, ok := g.Object(node, shPath).(rdf.IRI)
	if !ok {
		return prop, fmt.Errorf("property shape %s has no IRI sh:path", termValue(node))
	}
	prop.path = path

	if v, ok, err := intConstraint(g, node, shMinCount); err != nil {
		return prop, err
	} else if ok {
		prop.minCount = v
	}
	if v, ok, err := intConstraint(g, node, shMaxCount); err != nil {
		return prop, err
	} else if ok {
		prop.maxCount = v
	}

	if dt, ok := g.Object(node, shDatatype).(rdf.IRI); ok {
		prop.datatype = dt
	}
	if kind, ok := g.Object(node, shNodeKind).(rdf.IRI); ok {
		prop.nodeKind = kind
	}
	if class, ok := g.Object(node, shClass).(rdf.IRI); ok {
		prop.class = class
	}
	if lit, ok := g.Object(node, shPattern).(rdf.Literal); ok {
		re, err := regexp.Compile(lit.Value)
		if err != nil {
			return prop, fmt.Errorf("sh:pattern %q: %w", lit.Value, err)
		}
		prop.pattern = re
	}
	if head := g.Object(node, shIn); head != nil {
		members := g.List(head)
		if members == nil {
			return prop, fmt.Errorf("sh:in on %s is not a well-formed list", path)
		}
		prop.in = members
	}
	if sev, ok := g.Object(node, shSeverity).(rdf.IRI); ok {
		switch sev {
		case shWarningTerm:
			prop.severity = Warning
		case shInfoTerm:
			prop.severity = Info
		case shViolationTerm:
			prop.severity = Violation
		default:
			return prop, fmt.Errorf("unknown sh:severity %s", sev)
		}
	}
	if lit, ok := g.Object(node, shMessage).(rdf.Literal); ok {
		prop.message = lit.Value
	}
	return prop, nil
}

func intConstraint(g *rdf.Graph, node rdf.Term, predicate rdf.IRI) (int, bool, error) {
	obj := g.Object(node, predicate)
	if obj == nil {
		return 0, false, nil
	}
	lit, ok := obj.(rdf.Literal)
	if !ok {
		return 0, false, fmt.Errorf("%s must be an integer literal", predicate)
	}
	v, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, false, fmt.Errorf("%s value %q: %w", predicate, lit.Value, err)
	}
	return v, true, nil
}

// termValue renders a term without Turtle syntax decoration, matching how
// focus nodes appear in validation messages.
func termValue(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return string(v)
	case rdf.BNode:
		return "_:" + string(v)
	case rdf.Literal:
		return v.Value
	default:
		return t.String()
	}
}
