package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRow(t *testing.T) {
	row := map[string]string{
		"id":               "abc-123",
		"titulo":           "Gastos Diretos",
		"nome":             "gastos-diretos",
		"organizacao":      "Ministério da Gestão",
		"descricao":        "Execução orçamentária.",
		"licenca":          "ODbL",
		"responsavel":      "Equipe de Dados",
		"emailResponsavel": "dados@gestao.gov.br",
		"periodicidade":    "Mensal",
		"dadosRacaEtnia":   "Sim",
		"dadosGenero":      "",
		"temas":            `[{"name": "economia", "title": "Economia e Finanças"}]`,
		"tags":             `[{"id": "t1", "name": "orcamento", "display_name": "Orçamento"}]`,
		"recursos":         `[{"id": "r1", "titulo": "CSV 2024", "formato": "CSV", "link": "https://dados.gov.br/r1.csv", "tamanho": 1024}]`,
		"campoNovo":        "valor",
	}

	rec, err := FromRow(row)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", rec.ID)
	assert.Equal(t, "Gastos Diretos", rec.Titulo)
	require.NotNil(t, rec.DadosRacaEtnia)
	assert.True(t, *rec.DadosRacaEtnia)
	assert.Nil(t, rec.DadosGenero)

	require.Len(t, rec.Temas, 1)
	assert.Equal(t, "economia", rec.Temas[0].Value())
	require.Len(t, rec.Tags, 1)
	assert.Equal(t, "orcamento", rec.Tags[0].Name)
	require.Len(t, rec.Recursos, 1)
	assert.Equal(t, "CSV 2024", rec.Recursos[0].Title())
	assert.Equal(t, float64(1024), rec.Recursos[0].Bytes())

	assert.Equal(t, "valor", rec.Extra["campoNovo"])
}

func TestFromRowMalformedJSON(t *testing.T) {
	_, err := FromRow(map[string]string{
		"id":       "x",
		"recursos": `[{"id": "r1"`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursos")
}

func TestRecursoDialects(t *testing.T) {
	r := Recurso{
		Name:         "Planilha",
		Format:       "XLSX",
		URLField:     "https://example.org/x.xlsx",
		LastModified: "2024-03-01",
		Size:         2048,
	}
	assert.Equal(t, "Planilha", r.Title())
	assert.Equal(t, "XLSX", r.MediaFormat())
	assert.Equal(t, "https://example.org/x.xlsx", r.URL())
	assert.Equal(t, "2024-03-01", r.Modified())
	assert.Equal(t, float64(2048), r.Bytes())
}

func TestFlexNumber(t *testing.T) {
	var rs []Recurso
	input := `[{"tamanho": "512"}, {"tamanho": null}, {"tamanho": 3.5}, {"tamanho": "n/a"}]`
	require.NoError(t, decodeList(input, "recursos", &rs))
	require.Len(t, rs, 4)
	assert.Equal(t, FlexNumber(512), rs[0].Tamanho)
	assert.Equal(t, FlexNumber(0), rs[1].Tamanho)
	assert.Equal(t, FlexNumber(3.5), rs[2].Tamanho)
	assert.Equal(t, FlexNumber(0), rs[3].Tamanho)
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		`id,titulo,organizacao,recursos`,
		`d1,Primeiro,Org A,"[{""id"": ""r1"", ""formato"": ""CSV""}]"`,
		`d2,Segundo,Org B,"[{""broken""`,
		`d3,Terceiro,Org C,`,
	}, "\n")

	records, rowErrs, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "d1", records[0].ID)
	assert.Equal(t, "d3", records[1].ID)
	assert.Empty(t, records[1].Recursos)

	require.Len(t, rowErrs, 1)
	assert.Equal(t, "d2", rowErrs[0].ID)
	assert.Equal(t, 3, rowErrs[0].Line)
}

func TestReadCSVEmpty(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"25/12/2023", "2023-12-25", true},
		{"25/12/2023 14:30:00", "2023-12-25", true},
		{"2023-12-25", "2023-12-25", true},
		{"2023-12-25T14:30:00", "2023-12-25", true},
		{"25-12-2023", "2023-12-25", true},
		{"2023/12/25", "2023-12-25", true},
		{"31/02/2023", "", false},
		{"Indisponível", "", false},
		{"não encontrado", "", false},
		{"N/A", "", false},
		{"", "", false},
		{"amanhã", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeDate(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestCleanDescription(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		assert.Equal(t, "Dados de execução.", CleanDescription("  Dados de execução.  "))
	})

	t.Run("html is converted", func(t *testing.T) {
		out := CleanDescription("<p>Dados de <strong>execução</strong> orçamentária.</p>")
		assert.NotContains(t, out, "<p>")
		assert.Contains(t, out, "execução")
	})

	t.Run("scripts are dropped", func(t *testing.T) {
		out := CleanDescription(`<p>Texto</p><script>alert("x")</script>`)
		assert.NotContains(t, out, "alert")
		assert.Contains(t, out, "Texto")
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", CleanDescription("   "))
	})
}
