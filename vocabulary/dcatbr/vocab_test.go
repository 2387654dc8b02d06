package dcatbr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyLookup(t *testing.T) {
	assert.Equal(t,
		"https://dcat-br.github.io/dcat-br/docs/vocabularies/VCR-FR/mensal",
		FrequencyToIRI("Mensal"))
	assert.Equal(t,
		"https://dcat-br.github.io/dcat-br/docs/vocabularies/VCR-FR/diaria",
		FrequencyToIRI("DIARIA"))
	assert.Empty(t, FrequencyToIRI("quando der"))
	assert.Empty(t, FrequencyToIRI(""))
}

func TestSEILookup(t *testing.T) {
	assert.Equal(t,
		"https://dcat-br.github.io/dcat-br/docs/vocabularies/SEI/publico",
		SEIToIRI("Público"))
	assert.Empty(t, SEIToIRI("desconhecido"))
}

func TestFormatLookup(t *testing.T) {
	assert.Equal(t,
		"https://www.iana.org/assignments/media-types/text/csv",
		FormatToIRI("csv"))
	assert.Equal(t,
		"https://www.iana.org/assignments/media-types/application/json",
		FormatToIRI("JSON"))
	assert.Empty(t, FormatToIRI("formato-misterioso"))
}

func TestResourceTypeLookup(t *testing.T) {
	assert.Equal(t,
		"https://dcat-br.github.io/dcat-br/docs/vocabularies/tipo-recurso/dado",
		ResourceTypeToIRI("Dado"))
	assert.Equal(t,
		"https://dcat-br.github.io/dcat-br/docs/vocabularies/tipo-recurso/documentacao",
		ResourceTypeToIRI("Documentação"))
}

func TestLicenseLookupNormalizesSeparators(t *testing.T) {
	want := "http://www.opendefinition.org/licenses/odc-odbl"
	assert.Equal(t, want, LicenseToIRI("odc-odbl"))
	assert.Equal(t, want, LicenseToIRI("ODC_ODBL"))
	assert.Equal(t, want, LicenseToIRI("odc odbl"))
}

func TestThemeLookup(t *testing.T) {
	assert.Equal(t,
		"https://dcat-br.github.io/dcat-br/docs/vocabularies/themes/educacao",
		ThemeToIRI("Educação"))
	assert.Equal(t,
		"https://dcat-br.github.io/dcat-br/docs/vocabularies/themes/economia-e-financas",
		ThemeToIRI("economia-e-financas"))
}

func TestUnknownThemeGetsConstructedIRI(t *testing.T) {
	iri := ThemeToIRI("Assunto Inédito")
	assert.True(t, strings.HasPrefix(iri, string(SchemeThemes)))
	assert.Equal(t, string(SchemeThemes)+"assunto-inedito", iri)
}
