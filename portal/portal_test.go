package portal

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{BaseURL: server.URL, PageSize: 2, PageDelay: -1}, testLogger())
}

func buscarHandler(t *testing.T, total int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/publico/conjuntos-dados/buscar", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("dadosAbertos"))

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("tamanhoPagina"))

		var regs []map[string]any
		for i := offset; i < total && len(regs) < pageSize; i++ {
			regs = append(regs, map[string]any{
				"id":                fmt.Sprintf("id-%d", i),
				"title":             fmt.Sprintf("Dataset %d", i),
				"name":              fmt.Sprintf("dataset-%d", i),
				"organizationTitle": "Org",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"totalRegistros": total,
			"registros":      regs,
		})
	})
}

func TestFetchListPaginates(t *testing.T) {
	c := newTestClient(t, buscarHandler(t, 5))

	entries, err := c.FetchList(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "id-0", entries[0].ID)
	assert.Equal(t, "Dataset 4", entries[4].Titulo)
	assert.Equal(t, "dataset-4", entries[4].Nome)
	assert.Equal(t, "Org", entries[4].Organizacao)
}

func TestFetchListMax(t *testing.T) {
	c := newTestClient(t, buscarHandler(t, 10))

	entries, err := c.FetchList(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFetchListKeepsPartialOnPageFailure(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		buscarHandler(t, 10).ServeHTTP(w, r)
	}))

	entries, err := c.FetchList(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // first page only
}

func TestFetchListFirstPageFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))

	_, err := c.FetchList(context.Background(), "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

const detailJSON = `{
  "id": "abc-123",
  "name": "gastos-diretos",
  "title": "Gastos Diretos",
  "notes": "Linha um.\nLinha  dois.",
  "organization": {"display_name": "Ministério da Gestão"},
  "maintainer": "Equipe",
  "maintainer_email": "dados@gestao.gov.br",
  "license_id": "odc-odbl",
  "version": "1.0",
  "metadata_created": "2021-03-15T10:00:00",
  "metadata_modified": "2024-02-10T08:30:00",
  "extras": [
    {"key": "periodicidade", "value": "Mensal"},
    {"key": "dadosRacaEtnia", "value": "false"},
    {"key": "observanciaLegal", "value": "Público"}
  ],
  "tags": [{"id": "t1", "name": "orcamento", "display_name": "Orçamento"}],
  "groups": [{"name": "economia", "title": "Economia"}],
  "resources": [{
    "id": "r1",
    "name": "Execução 2023",
    "format": "CSV",
    "url": "https://example.org/r1.csv",
    "created": "10/01/2024",
    "last_modified": "12/01/2024",
    "size": 2048
  }]
}`

func TestFetchDetailAndFlatten(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/publico/conjuntos-dados/gastos-diretos", r.URL.Path)
		w.Write([]byte(detailJSON))
	}))

	detail, err := c.FetchDetail(context.Background(), "gastos-diretos")
	require.NoError(t, err)

	row := DetailToRow(detail)
	assert.Equal(t, "abc-123", row["id"])
	assert.Equal(t, "Gastos Diretos", row["titulo"])
	assert.Equal(t, "Ministério da Gestão", row["organizacao"])
	assert.Equal(t, "Linha um. Linha dois.", row["descricao"])
	assert.Equal(t, "Mensal", row["periodicidade"])
	assert.Equal(t, "2021-03-15T10:00:00", row["dataCatalogacao"])
	// boolean-ish extras are blanked, free text survives
	assert.Equal(t, "", row["dadosRacaEtnia"])
	assert.Equal(t, "Público", row["observanciaLegal"])
	assert.Equal(t, "PUBLICA", row["visibilidade"])
	assert.Equal(t, "Scraping", row["origemCadastro"])

	var recursos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(row["recursos"]), &recursos))
	require.Len(t, recursos, 1)
	assert.Equal(t, "Execução 2023", recursos[0]["titulo"])
	assert.Equal(t, "abc-123", recursos[0]["idConjuntoDados"])
	assert.Equal(t, float64(2048), recursos[0]["tamanho"])

	assert.Equal(t, "12/01/2024", row["dataUltimaAtualizacaoArquivo"])
}

func TestDetailToRowDefaults(t *testing.T) {
	row := DetailToRow(&Detail{ID: "x", Name: "x-nome"})
	assert.Equal(t, "x-nome", row["titulo"])
	assert.Equal(t, "notspecified", row["licenca"])
	assert.Equal(t, "[]", row["temas"])
	assert.Equal(t, "[]", row["recursos"])
	assert.Equal(t, "[]", row["conjuntoDadosAssociados"])
	assert.Equal(t, "Indisponível", row["dataUltimaAtualizacaoArquivo"])
	assert.Equal(t, "False", row["descontinuado"])
}

func TestFetchAllDetailsSkipsFailures(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/quebrado") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Write([]byte(detailJSON))
	}))

	rows, err := c.FetchAllDetails(context.Background(), []ListEntry{
		{Nome: "gastos-diretos"},
		{Nome: "quebrado"},
		{Nome: "gastos-diretos"},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lista_conjuntos.csv")
	entries := []ListEntry{
		{ID: "1", Titulo: "Primeiro", Nome: "primeiro", Organizacao: "Org A"},
		{ID: "2", Titulo: "Segundo, com vírgula", Nome: "segundo", Organizacao: "Org B"},
	}
	require.NoError(t, WriteList(path, entries))

	got, err := ReadList(path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestWriteRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados", "dados_scraping.csv")
	row := DetailToRow(&Detail{ID: "x", Name: "x-nome", Title: "X"})
	require.NoError(t, WriteRows(path, []map[string]string{row}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CSVColumns, rows[0])
	assert.Equal(t, "x", rows[1][0])
	assert.Equal(t, "X", rows[1][1])
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", singleLine("a\r\nb\nc"))
	assert.Equal(t, "a b", singleLine("  a    b  "))
	long := singleLine(strings.Repeat("x", 6000))
	assert.Len(t, long, 5000)
}
