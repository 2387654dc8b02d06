package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-br/dcatbr/dataset"
	"github.com/opendata-br/dcatbr/rdf"
	"github.com/opendata-br/dcatbr/vocabulary/dcat"
)

func boolPtr(v bool) *bool { return &v }

func sampleRecord() dataset.Record {
	return dataset.Record{
		ID:                             "abc-123",
		Nome:                           "gastos-diretos",
		Titulo:                         "Gastos Diretos",
		Organizacao:                    "Ministério da Gestão",
		Descricao:                      "Execução orçamentária da União.",
		Licenca:                        "https://opendefinition.org/licenses/odc-odbl/",
		Responsavel:                    "Equipe de Dados",
		EmailResponsavel:               "dados@gestao.gov.br",
		Periodicidade:                  "Mensal",
		Versao:                         "1.2",
		CoberturaEspacial:              "Brasil",
		GranularidadeEspacial:          "Município",
		CoberturaTemporalInicio:        "01/01/2020",
		CoberturaTemporalFim:           "31/12/2023",
		DataCatalogacao:                "15/03/2021",
		DataUltimaAtualizacaoMetadados: "2024-02-10T08:30:00",
		DadosRacaEtnia:                 boolPtr(true),
		Temas:                          []dataset.Theme{{Name: "economia"}},
		Tags:                           []dataset.Tag{{Name: "orcamento"}},
		Recursos: []dataset.Recurso{{
			ID:                           "r1",
			Titulo:                       "Execução 2023",
			Formato:                      "CSV",
			Tipo:                         "Dados",
			Link:                         "https://dados.gov.br/arquivos/execucao-2023.csv",
			DataCatalogacao:              "10/01/2024",
			DataUltimaAtualizacaoArquivo: "12/01/2024",
			Tamanho:                      2048,
		}},
	}
}

func TestConvert(t *testing.T) {
	g, err := New("").Convert(sampleRecord())
	require.NoError(t, err)

	ds := rdf.IRI(DefaultBaseURL + "/gastos-diretos")

	assert.True(t, g.Has(ds, rdf.RDFType, dcat.Dataset))
	assert.True(t, g.Has(ds, dcat.Identifier, rdf.NewLiteral("abc-123")))
	assert.True(t, g.Has(ds, dcat.Title, rdf.NewLangLiteral("Gastos Diretos", "pt-BR")))
	assert.True(t, g.Has(ds, dcat.Spatial, rdf.NewLiteral("Brasil")))
	assert.True(t, g.Has(ds, dcat.License, rdf.IRI("https://opendefinition.org/licenses/odc-odbl/")))
	assert.True(t, g.Has(ds, dcat.Keyword, rdf.NewLiteral("orcamento")))
	assert.True(t, g.Has(ds, dcat.Issued, rdf.Date("2021-03-15")))
	assert.True(t, g.Has(ds, dcat.Modified, rdf.Date("2024-02-10")))
	assert.True(t, g.Has(ds, dcat.StartDate, rdf.Date("2020-01-01")))
	assert.True(t, g.Has(ds, dcat.EndDate, rdf.Date("2023-12-31")))
	assert.True(t, g.Has(ds, dcat.Version, rdf.NewLiteral("1.2")))

	dist := rdf.IRI(string(ds) + "/resource/r1")
	assert.True(t, g.Has(ds, dcat.PropDistribution, dist))
	assert.True(t, g.Has(dist, rdf.RDFType, dcat.Distribution))
	assert.True(t, g.Has(dist, dcat.Title, rdf.NewLangLiteral("Execução 2023", "pt-BR")))
	assert.True(t, g.Has(dist, dcat.AccessURL, rdf.IRI("https://dados.gov.br/arquivos/execucao-2023.csv")))
	assert.True(t, g.Has(dist, dcat.DownloadURL, rdf.IRI("https://dados.gov.br/arquivos/execucao-2023.csv")))
	assert.True(t, g.Has(dist, dcat.Issued, rdf.Date("2024-01-10")))
	assert.True(t, g.Has(dist, dcat.Modified, rdf.Date("2024-01-12")))
	assert.True(t, g.Has(dist, dcat.ByteSize, rdf.Decimal(2048)))
}

func TestConvertFrequencyVocabulary(t *testing.T) {
	g, err := New("").Convert(sampleRecord())
	require.NoError(t, err)

	ds := rdf.IRI(DefaultBaseURL + "/gastos-diretos")
	freq := g.Object(ds, dcat.AccrualPeriodicity)
	require.NotNil(t, freq)

	iri, ok := freq.(rdf.IRI)
	require.True(t, ok, "frequency should resolve to a vocabulary IRI")
	assert.True(t, g.Has(iri, rdf.RDFType, dcat.Frequency))
	assert.True(t, g.Has(iri, rdf.RDFType, dcat.Concept))
}

func TestConvertUnknownFrequencyFallsBackToLiteral(t *testing.T) {
	rec := sampleRecord()
	rec.Periodicidade = "quando der"
	g, err := New("").Convert(rec)
	require.NoError(t, err)

	ds := rdf.IRI(DefaultBaseURL + "/gastos-diretos")
	assert.True(t, g.Has(ds, dcat.AccrualPeriodicity, rdf.NewLiteral("quando der")))
}

func TestConvertPublisherAndContact(t *testing.T) {
	g, err := New("").Convert(sampleRecord())
	require.NoError(t, err)

	ds := rdf.IRI(DefaultBaseURL + "/gastos-diretos")

	contact := g.Object(ds, dcat.ContactPoint)
	require.NotNil(t, contact)
	assert.True(t, g.Has(contact, dcat.VCardEmail, rdf.IRI("mailto:dados@gestao.gov.br")))

	publisher := g.Object(ds, dcat.Publisher)
	require.NotNil(t, publisher)
	assert.True(t, g.Has(publisher, dcat.Name, rdf.NewLiteral("Equipe de Dados")))
	assert.True(t, g.Has(publisher, dcat.Mbox, rdf.IRI("mailto:dados@gestao.gov.br")))

	creator := g.Object(ds, dcat.Creator)
	require.NotNil(t, creator)
	assert.True(t, g.Has(creator, dcat.Name, rdf.NewLiteral("Ministério da Gestão")))
}

func TestConvertBooleanFlags(t *testing.T) {
	rec := sampleRecord()
	rec.DadosGenero = boolPtr(false)
	g, err := New("").Convert(rec)
	require.NoError(t, err)

	ttl := g.Turtle()
	assert.Contains(t, ttl, "dcatbr:dadosRacaEtnia")
	assert.Contains(t, ttl, "dcatbr:dadosGenero")
}

func TestConvertNoRecursos(t *testing.T) {
	rec := sampleRecord()
	rec.Recursos = nil
	_, err := New("").Convert(rec)
	require.ErrorIs(t, err, ErrNoDistributions)
}

func TestConvertSpatialDashIsSkipped(t *testing.T) {
	rec := sampleRecord()
	rec.CoberturaEspacial = "-"
	g, err := New("").Convert(rec)
	require.NoError(t, err)

	ds := rdf.IRI(DefaultBaseURL + "/gastos-diretos")
	assert.Nil(t, g.Object(ds, dcat.Spatial))
}

func TestConvertCustomBaseURL(t *testing.T) {
	g, err := New("https://portal.example.org/datasets/").Convert(sampleRecord())
	require.NoError(t, err)

	ds := rdf.IRI("https://portal.example.org/datasets/gastos-diretos")
	assert.True(t, g.Has(ds, rdf.RDFType, dcat.Dataset))
}
