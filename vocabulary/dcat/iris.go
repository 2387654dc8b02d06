// Package dcat defines the W3C and Dublin Core term IRIs used when mapping
// dataset records onto the DCAT vocabulary.
//
// References:
// - DCAT: https://www.w3.org/TR/vocab-dcat-3/
// - Dublin Core: https://www.dublincore.org/specifications/dublin-core/dcmi-terms/
// - FOAF: http://xmlns.com/foaf/spec/
// - vCard: https://www.w3.org/TR/vcard-rdf/
// - SKOS: https://www.w3.org/TR/skos-reference/
package dcat

import "github.com/opendata-br/dcatbr/rdf"

// Namespace base IRIs.
const (
	Namespace      = "http://www.w3.org/ns/dcat#"
	DCTNamespace   = "http://purl.org/dc/terms/"
	FOAFNamespace  = "http://xmlns.com/foaf/0.1/"
	VCardNamespace = "http://www.w3.org/2006/vcard/ns#"
	SKOSNamespace  = "http://www.w3.org/2004/02/skos/core#"
	XSDNamespace   = "http://www.w3.org/2001/XMLSchema#"
	RDFNamespace   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// DCAT class and property IRIs.
const (
	Dataset                 rdf.IRI = Namespace + "Dataset"
	Distribution            rdf.IRI = Namespace + "Distribution"
	PropDistribution        rdf.IRI = Namespace + "distribution"
	ContactPoint            rdf.IRI = Namespace + "contactPoint"
	Keyword                 rdf.IRI = Namespace + "keyword"
	Theme                   rdf.IRI = Namespace + "theme"
	AccessURL               rdf.IRI = Namespace + "accessURL"
	DownloadURL             rdf.IRI = Namespace + "downloadURL"
	MediaType               rdf.IRI = Namespace + "mediaType"
	ByteSize                rdf.IRI = Namespace + "byteSize"
	StartDate               rdf.IRI = Namespace + "startDate"
	EndDate                 rdf.IRI = Namespace + "endDate"
	Version                 rdf.IRI = Namespace + "version"
	SpatialResolutionMeters rdf.IRI = Namespace + "spatialResolutionInMeters"
)

// Dublin Core term IRIs.
const (
	Identifier         rdf.IRI = DCTNamespace + "identifier"
	Title              rdf.IRI = DCTNamespace + "title"
	Description        rdf.IRI = DCTNamespace + "description"
	Issued             rdf.IRI = DCTNamespace + "issued"
	Modified           rdf.IRI = DCTNamespace + "modified"
	License            rdf.IRI = DCTNamespace + "license"
	Publisher          rdf.IRI = DCTNamespace + "publisher"
	Creator            rdf.IRI = DCTNamespace + "creator"
	Spatial            rdf.IRI = DCTNamespace + "spatial"
	AccessRights       rdf.IRI = DCTNamespace + "accessRights"
	AccrualPeriodicity rdf.IRI = DCTNamespace + "accrualPeriodicity"
	Format             rdf.IRI = DCTNamespace + "format"
	Type               rdf.IRI = DCTNamespace + "type"
	Frequency          rdf.IRI = DCTNamespace + "Frequency"
	RightsStatement    rdf.IRI = DCTNamespace + "RightsStatement"
	MediaTypeClass     rdf.IRI = DCTNamespace + "MediaType"
	MediaTypeOrExtent  rdf.IRI = DCTNamespace + "MediaTypeOrExtent"
)

// FOAF and vCard term IRIs.
const (
	Agent        rdf.IRI = FOAFNamespace + "Agent"
	Organization rdf.IRI = FOAFNamespace + "Organization"
	Name         rdf.IRI = FOAFNamespace + "name"
	Mbox         rdf.IRI = FOAFNamespace + "mbox"
	VCardKind    rdf.IRI = VCardNamespace + "Kind"
	VCardEmail   rdf.IRI = VCardNamespace + "hasEmail"
)

// SKOS term IRIs.
const (
	Concept   rdf.IRI = SKOSNamespace + "Concept"
	InScheme  rdf.IRI = SKOSNamespace + "inScheme"
	PrefLabel rdf.IRI = SKOSNamespace + "prefLabel"
)

// Prefixes is the standard prefix table bound to every produced graph.
var Prefixes = map[string]string{
	"dcat":  Namespace,
	"dct":   DCTNamespace,
	"foaf":  FOAFNamespace,
	"vcard": VCardNamespace,
	"skos":  SKOSNamespace,
	"xsd":   XSDNamespace,
	"rdf":   RDFNamespace,
}
