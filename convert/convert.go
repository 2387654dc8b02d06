// Package convert maps dataset records onto the DCAT-BR application profile
// as an RDF graph.
package convert

import (
	"errors"
	"strings"

	"github.com/opendata-br/dcatbr/dataset"
	"github.com/opendata-br/dcatbr/rdf"
	"github.com/opendata-br/dcatbr/vocabulary/dcat"
	"github.com/opendata-br/dcatbr/vocabulary/dcatbr"
)

// DefaultBaseURL roots dataset IRIs when no portal base is configured.
const DefaultBaseURL = "https://dados.gov.br/dados/conjuntos-dados"

// ErrNoDistributions is returned for records without a single usable
// recurso. DCAT-BR requires at least one distribution per dataset, so
// such a record can never validate and is rejected up front.
var ErrNoDistributions = errors.New("dataset has no distributions (recursos)")

// Converter turns Records into DCAT-BR graphs.
type Converter struct {
	baseURL string
}

// New returns a Converter rooting dataset IRIs at baseURL. An empty
// baseURL falls back to DefaultBaseURL.
func New(baseURL string) *Converter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Converter{baseURL: strings.TrimRight(baseURL, "/")}
}

// Convert maps one record to a DCAT-BR graph. Optional fields that are
// absent or unparseable are simply omitted; only a record with no
// recursos is an error.
func (c *Converter) Convert(rec dataset.Record) (*rdf.Graph, error) {
	if len(rec.Recursos) == 0 {
		return nil, ErrNoDistributions
	}

	g := rdf.NewGraph()
	for prefix, ns := range dcat.Prefixes {
		g.Bind(prefix, ns)
	}
	g.Bind("dcatbr", dcatbr.Namespace)

	name := rec.Nome
	if name == "" {
		name = rec.ID
	}
	ds := rdf.IRI(c.baseURL + "/" + name)

	g.Add(ds, rdf.RDFType, dcat.Dataset)

	if rec.ID != "" {
		g.Add(ds, dcat.Identifier, rdf.NewLiteral(rec.ID))
	}
	if rec.Titulo != "" {
		g.Add(ds, dcat.Title, rdf.NewLangLiteral(rec.Titulo, "pt-BR"))
	}
	if desc := dataset.CleanDescription(rec.Descricao); desc != "" {
		g.Add(ds, dcat.Description, rdf.NewLangLiteral(desc, "pt-BR"))
	}

	c.addFrequency(g, ds, rec.Periodicidade)
	c.addSpatial(g, ds, rec.CoberturaEspacial)
	c.addAccessRights(g, ds, rec.ObservanciaLegal)
	addDate(g, ds, dcat.Issued, rec.DataCatalogacao)
	addDate(g, ds, dcat.Modified, rec.DataUltimaAtualizacaoMetadados)
	c.addLicense(g, ds, rec.Licenca)
	c.addContactAndPublisher(g, ds, rec.Responsavel, rec.EmailResponsavel)
	c.addCreator(g, ds, rec.Organizacao)

	if rec.Versao != "" {
		g.Add(ds, dcat.Version, rdf.NewLiteral(rec.Versao))
	}
	if rec.DadosRacaEtnia != nil {
		g.Add(ds, dcatbr.DadosRacaEtnia, rdf.Boolean(*rec.DadosRacaEtnia))
	}
	if rec.DadosGenero != nil {
		g.Add(ds, dcatbr.DadosGenero, rdf.Boolean(*rec.DadosGenero))
	}
	if rec.GranularidadeEspacial != "" {
		g.Add(ds, dcat.SpatialResolutionMeters, rdf.NewLiteral(rec.GranularidadeEspacial))
	}

	for _, tag := range rec.Tags {
		if tag.Name != "" {
			g.Add(ds, dcat.Keyword, rdf.NewLiteral(tag.Name))
		}
	}

	addDate(g, ds, dcat.StartDate, rec.CoberturaTemporalInicio)
	addDate(g, ds, dcat.EndDate, rec.CoberturaTemporalFim)

	for _, tema := range rec.Temas {
		c.addTheme(g, ds, tema.Value())
	}

	for _, res := range rec.Recursos {
		c.addDistribution(g, ds, string(ds), res)
	}
	return g, nil
}

func (c *Converter) addFrequency(g *rdf.Graph, ds rdf.IRI, value string) {
	if value == "" {
		return
	}
	iri := dcatbr.FrequencyToIRI(value)
	if iri == "" {
		g.Add(ds, dcat.AccrualPeriodicity, rdf.NewLiteral(value))
		return
	}
	freq := rdf.IRI(iri)
	g.Add(ds, dcat.AccrualPeriodicity, freq)
	g.Add(freq, rdf.RDFType, dcat.Frequency)
	g.Add(freq, rdf.RDFType, dcat.Concept)
	g.Add(freq, dcat.InScheme, dcatbr.SchemeFrequency)
}

func (c *Converter) addSpatial(g *rdf.Graph, ds rdf.IRI, value string) {
	if value == "" || value == "-" {
		return
	}
	g.Add(ds, dcat.Spatial, rdf.NewLiteral(value))
}

func (c *Converter) addAccessRights(g *rdf.Graph, ds rdf.IRI, value string) {
	if value == "" {
		return
	}
	iri := dcatbr.SEIToIRI(value)
	if iri == "" {
		return
	}
	rights := rdf.IRI(iri)
	g.Add(ds, dcat.AccessRights, rights)
	g.Add(rights, rdf.RDFType, dcat.RightsStatement)
	g.Add(rights, rdf.RDFType, dcat.Concept)
	g.Add(rights, dcat.InScheme, dcatbr.SchemeSEI)
}

func (c *Converter) addLicense(g *rdf.Graph, ds rdf.IRI, value string) {
	if value == "" {
		return
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		g.Add(ds, dcat.License, rdf.IRI(value))
		return
	}
	if iri := dcatbr.LicenseToIRI(value); iri != "" {
		g.Add(ds, dcat.License, rdf.IRI(iri))
	}
}

func (c *Converter) addContactAndPublisher(g *rdf.Graph, ds rdf.IRI, name, email string) {
	if email != "" {
		contact := g.NewBNode()
		g.Add(ds, dcat.ContactPoint, contact)
		g.Add(contact, rdf.RDFType, dcat.VCardKind)
		g.Add(contact, dcat.VCardEmail, rdf.IRI("mailto:"+email))
	}
	if name != "" {
		publisher := g.NewBNode()
		g.Add(ds, dcat.Publisher, publisher)
		g.Add(publisher, rdf.RDFType, dcat.Agent)
		g.Add(publisher, rdf.RDFType, dcat.Organization)
		g.Add(publisher, dcat.Name, rdf.NewLiteral(name))
		if email != "" {
			g.Add(publisher, dcat.Mbox, rdf.IRI("mailto:"+email))
		}
	}
}

func (c *Converter) addCreator(g *rdf.Graph, ds rdf.IRI, org string) {
	if org == "" {
		return
	}
	creator := g.NewBNode()
	g.Add(ds, dcat.Creator, creator)
	g.Add(creator, rdf.RDFType, dcat.Agent)
	g.Add(creator, rdf.RDFType, dcat.Organization)
	g.Add(creator, dcat.Name, rdf.NewLiteral(org))
}

func (c *Converter) addTheme(g *rdf.Graph, ds rdf.IRI, value string) {
	if value == "" {
		return
	}
	iri := dcatbr.ThemeToIRI(value)
	if iri == "" {
		return
	}
	theme := rdf.IRI(iri)
	g.Add(ds, dcat.Theme, theme)
	g.Add(theme, rdf.RDFType, dcat.Concept)
	g.Add(theme, dcat.InScheme, dcatbr.SchemeThemes)
}

func (c *Converter) addDistribution(g *rdf.Graph, ds rdf.IRI, baseURI string, res dataset.Recurso) {
	id := res.ID
	if id == "" {
		id = "unknown"
	}
	dist := rdf.IRI(baseURI + "/resource/" + id)

	g.Add(ds, dcat.PropDistribution, dist)
	g.Add(dist, rdf.RDFType, dcat.Distribution)

	if title := res.Title(); title != "" {
		g.Add(dist, dcat.Title, rdf.NewLangLiteral(title, "pt-BR"))
	}
	if desc := res.Desc(); desc != "" {
		g.Add(dist, dcat.Description, rdf.NewLangLiteral(desc, "pt-BR"))
	}

	if format := res.MediaFormat(); format != "" {
		if iri := dcatbr.FormatToIRI(format); iri != "" {
			media := rdf.IRI(iri)
			g.Add(dist, dcat.Format, media)
			g.Add(dist, dcat.MediaType, media)
			g.Add(media, rdf.RDFType, dcat.MediaTypeClass)
			g.Add(media, rdf.RDFType, dcat.MediaTypeOrExtent)
			g.Add(media, rdf.RDFType, dcat.Concept)
			g.Add(media, dcat.InScheme, dcatbr.SchemeFormat)
		} else {
			g.Add(dist, dcat.Format, rdf.NewLiteral(format))
			g.Add(dist, dcat.MediaType, rdf.NewLiteral(format))
		}
	}

	if url := res.URL(); url != "" {
		g.Add(dist, dcat.AccessURL, rdf.IRI(url))
		g.Add(dist, dcat.DownloadURL, rdf.IRI(url))
	}

	addDate(g, dist, dcat.Issued, res.Issued())

	if typ := res.Tipo; typ != "" {
		if iri := dcatbr.ResourceTypeToIRI(typ); iri != "" {
			kind := rdf.IRI(iri)
			g.Add(dist, dcat.Type, kind)
			g.Add(kind, rdf.RDFType, dcat.Concept)
			g.Add(kind, dcat.InScheme, dcatbr.SchemeResourceType)
		} else {
			g.Add(dist, dcat.Type, rdf.NewLiteral(typ))
		}
	}

	addDate(g, dist, dcat.Modified, res.Modified())

	if size := res.Bytes(); size > 0 {
		g.Add(dist, dcat.ByteSize, rdf.Decimal(size))
	}
}

func addDate(g *rdf.Graph, subject rdf.Term, predicate rdf.IRI, raw string) {
	if raw == "" {
		return
	}
	if iso, ok := dataset.NormalizeDate(raw); ok {
		g.Add(subject, predicate, rdf.Date(iso))
	}
}
