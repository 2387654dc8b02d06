package shacl

import (
	"fmt"

	"github.com/opendata-br/dcatbr/rdf"
)

// Result is one validation finding.
type Result struct {
	FocusNode rdf.Term
	Path      rdf.IRI
	Value     rdf.Term
	Severity  Severity
	Message   string
}

// String renders the result the way downstream reports expect:
// violations carry the offending property, warnings just the focus node.
func (r Result) String() string {
	if r.Severity == Violation && r.Path != "" {
		return fmt.Sprintf("%s at %s (property: %s)", r.Message, termValue(r.FocusNode), string(r.Path))
	}
	return fmt.Sprintf("%s at %s", r.Message, termValue(r.FocusNode))
}

// Report is the outcome of validating one data graph.
type Report struct {
	Conforms bool
	Results  []Result
}

// Errors returns the rendered Violation-severity results.
func (r *Report) Errors() []string {
	var out []string
	for _, res := range r.Results {
		if res.Severity == Violation {
			out = append(out, res.String())
		}
	}
	return out
}

// Warnings returns the rendered results below Violation severity.
func (r *Report) Warnings() []string {
	var out []string
	for _, res := range r.Results {
		if res.Severity != Violation {
			out = append(out, res.String())
		}
	}
	return out
}

// Validate checks data against the compiled shapes. Conforms is true iff
// no Violation-severity result was produced; warnings never block.
func (v *Validator) Validate(data *rdf.Graph) *Report {
	report := &Report{Conforms: true}
	for _, shape := range v.shapes {
		for _, focus := range data.SubjectsOfType(shape.targetClass) {
			for _, prop := range shape.properties {
				results := checkProperty(data, focus, prop)
				report.Results = append(report.Results, results...)
			}
		}
	}
	for _, res := range report.Results {
		if res.Severity == Violation {
			report.Conforms = false
			break
		}
	}
	return report
}

func checkProperty(data *rdf.Graph, focus rdf.Term, prop propertyShape) []Result {
	values := data.Objects(focus, prop.path)
	var out []Result

	add := func(value rdf.Term, defaultMsg string) {
		msg := prop.message
		if msg == "" {
			msg = defaultMsg
		}
		out = append(out, Result{
			FocusNode: focus,
			Path:      prop.path,
			Value:     value,
			Severity:  prop.severity,
			Message:   msg,
		})
	}

	if prop.minCount >= 0 && len(values) < prop.minCount {
		add(nil, fmt.Sprintf("Less than %d values for %s", prop.minCount, prop.path))
	}
	if prop.maxCount >= 0 && len(values) > prop.maxCount {
		add(nil, fmt.Sprintf("More than %d values for %s", prop.maxCount, prop.path))
	}

	for _, value := range values {
		if prop.datatype != "" && !matchesDatatype(value, prop.datatype) {
			add(value, fmt.Sprintf("Value does not have datatype %s", prop.datatype))
		}
		if prop.nodeKind != "" && !matchesNodeKind(value, prop.nodeKind) {
			add(value, fmt.Sprintf("Value does not have node kind %s", prop.nodeKind))
		}
		if prop.class != "" && !hasClass(data, value, prop.class) {
			add(value, fmt.Sprintf("Value is not an instance of %s", prop.class))
		}
		if prop.pattern != nil {
			lit, ok := value.(rdf.Literal)
			if !ok || !prop.pattern.MatchString(lit.Value) {
				add(value, fmt.Sprintf("Value does not match pattern %q", prop.pattern))
			}
		}
		if len(prop.in) > 0 && !inList(value, prop.in) {
			add(value, "Value is not one of the allowed values")
		}
	}
	return out
}

func matchesDatatype(value rdf.Term, datatype rdf.IRI) bool {
	lit, ok := value.(rdf.Literal)
	if !ok {
		return false
	}
	switch {
	case lit.Lang != "":
		return datatype == rdf.RDFLangStr
	case lit.Datatype == "":
		return datatype == rdf.XSDString
	default:
		return lit.Datatype == datatype
	}
}

func matchesNodeKind(value rdf.Term, kind rdf.IRI) bool {
	switch value.(type) {
	case rdf.IRI:
		return kind == shIRI || kind == shBlankNodeIRI || kind == shIRIOrLiteral
	case rdf.BNode:
		return kind == shBlankNode || kind == shBlankNodeIRI
	case rdf.Literal:
		return kind == shLiteral || kind == shIRIOrLiteral
	}
	return false
}

func hasClass(data *rdf.Graph, value rdf.Term, class rdf.IRI) bool {
	switch value.(type) {
	case rdf.IRI, rdf.BNode:
		return data.Has(value, rdf.RDFType, class)
	}
	return false
}

func inList(value rdf.Term, allowed []rdf.Term) bool {
	for _, a := range allowed {
		if a.String() == value.String() {
			return true
		}
	}
	return false
}
