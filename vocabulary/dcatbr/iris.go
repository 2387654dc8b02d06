// Package dcatbr defines the DCAT-BR profile terms and the controlled
// vocabularies used to convert literal portal values into IRIs.
package dcatbr

import "github.com/opendata-br/dcatbr/rdf"

// Namespace is the base IRI for DCAT-BR specific properties.
const Namespace = "http://purl.org/dcat-br/"

// VocabBase is the base IRI under which the DCAT-BR controlled vocabularies
// are published.
const VocabBase = "https://dcat-br.github.io/dcat-br/docs/vocabularies/"

// DCAT-BR specific property IRIs.
const (
	DadosRacaEtnia rdf.IRI = Namespace + "dadosRacaEtnia"
	DadosGenero    rdf.IRI = Namespace + "dadosGenero"
)

// Concept scheme IRIs asserted alongside vocabulary lookups so SHACL class
// and scheme constraints can be checked without dereferencing.
const (
	SchemeFrequency    rdf.IRI = VocabBase + "VCR-FR"
	SchemeSEI          rdf.IRI = VocabBase + "SEI/esquema"
	SchemeFormat       rdf.IRI = VocabBase + "formato/esquema"
	SchemeResourceType rdf.IRI = VocabBase + "tipo-recurso/"
	SchemeThemes       rdf.IRI = VocabBase + "themes/"
)
