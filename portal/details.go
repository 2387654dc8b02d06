package portal

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/opendata-br/dcatbr/dataset"
)

// Columns of the flat export (dados_abertos_publicos_5k layout), in order.
var CSVColumns = []string{
	"id", "titulo", "nome", "organizacao", "descricao", "licenca", "responsavel",
	"emailResponsavel", "periodicidade", "temas", "tags",
	"coberturaTemporalInicio", "coberturaTemporalFim", "coberturaEspacial",
	"valorCoberturaEspacial", "granularidadeEspacial", "versao", "atualizacaoVersao",
	"visibilidade", "descontinuado", "dataDescontinuacao", "reuso", "recursos",
	"conjuntoDadosAssociados", "dataUltimaAtualizacaoMetadados",
	"dataUltimaAtualizacaoArquivo", "dataCatalogacao", "atualizado",
	"dadosRacaEtnia", "dadosGenero", "observanciaLegal", "dadosAbertos", "selo",
	"origemCadastro", "Dados Abertos", "Dados Públicos",
}

// Detail is the portal's per-dataset API response (CKAN-like keys).
type Detail struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Title            string           `json:"title"`
	Notes            string           `json:"notes"`
	Organization     *Organization    `json:"organization"`
	Maintainer       string           `json:"maintainer"`
	MaintainerEmail  string           `json:"maintainer_email"`
	LicenseID        string           `json:"license_id"`
	Version          string           `json:"version"`
	MetadataCreated  string           `json:"metadata_created"`
	MetadataModified string           `json:"metadata_modified"`
	Extras           []Extra          `json:"extras"`
	Tags             []dataset.Tag    `json:"tags"`
	Groups           []dataset.Theme  `json:"groups"`
	Resources        []DetailResource `json:"resources"`
}

// Organization is the dataset's owning organization.
type Organization struct {
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	Name        string `json:"name"`
}

// Extra is one key/value metadata extension.
type Extra struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DetailResource is one resource of the detail response. Some portal
// deployments nest the Portuguese fields under recursoForm or
// recursoApiView.
type DetailResource struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Format         string             `json:"format"`
	URL            string             `json:"url"`
	Tipo           string             `json:"tipo"`
	Created        string             `json:"created"`
	LastModified   string             `json:"last_modified"`
	Size           dataset.FlexNumber `json:"size"`
	RecursoForm    *resourceForm      `json:"recursoForm"`
	RecursoAPIView *resourceForm      `json:"recursoApiView"`
}

type resourceForm struct {
	Link                         string             `json:"link"`
	Titulo                       string             `json:"titulo"`
	Descricao                    string             `json:"descricao"`
	Formato                      string             `json:"formato"`
	Tipo                         string             `json:"tipo"`
	DataCatalogacao              string             `json:"dataCatalogacao"`
	DataUltimaAtualizacaoArquivo string             `json:"dataUltimaAtualizacaoArquivo"`
	Tamanho                      dataset.FlexNumber `json:"tamanho"`
}

func (r DetailResource) form() resourceForm {
	if r.RecursoForm != nil {
		return *r.RecursoForm
	}
	if r.RecursoAPIView != nil {
		return *r.RecursoAPIView
	}
	return resourceForm{}
}

// FetchDetail retrieves the full dataset record for nome.
func (c *Client) FetchDetail(ctx context.Context, nome string) (*Detail, error) {
	var detail Detail
	if err := c.getJSON(ctx, c.baseURL+detailPath+nome, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FetchAllDetails fetches each list entry's detail and flattens it to a
// CSV row. A failed dataset is logged and skipped; the batch continues.
func (c *Client) FetchAllDetails(ctx context.Context, entries []ListEntry) ([]map[string]string, error) {
	var rows []map[string]string
	for idx, entry := range entries {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		detail, err := c.FetchDetail(ctx, entry.Nome)
		if err != nil {
			c.logger.Warn("dataset detail fetch failed",
				"index", idx+1, "total", len(entries), "nome", entry.Nome, "error", err)
			continue
		}
		rows = append(rows, DetailToRow(detail))
		c.logger.Info("fetched dataset detail",
			"index", idx+1, "total", len(entries), "nome", entry.Nome)
		c.sleep(ctx)
	}
	return rows, nil
}

var multiSpaceRe = regexp.MustCompile(`  +`)

// singleLine truncates and flattens a description so the CSV row stays on
// one physical line.
func singleLine(s string) string {
	if len(s) > 5000 {
		s = s[:5000]
	}
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

// optionalText keeps free-text extras but drops boolean-ish placeholders,
// which the flat format leaves blank.
func optionalText(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" || s == "true" || s == "false" || s == "0" || s == "1" {
		return ""
	}
	return strings.TrimSpace(v)
}

// DetailToRow flattens a detail response into the 5k CSV row format.
func DetailToRow(detail *Detail) map[string]string {
	extras := make(map[string]string, len(detail.Extras))
	for _, e := range detail.Extras {
		if e.Key != "" {
			extras[e.Key] = e.Value
		}
	}

	orgName := ""
	if org := detail.Organization; org != nil {
		orgName = firstOf(org.DisplayName, org.Title, org.Name)
	}

	license := strings.TrimSpace(detail.LicenseID)
	if license == "" {
		license = "notspecified"
	}

	titulo := firstOf(detail.Title, detail.Name)
	if titulo == "" {
		titulo = "Sem título"
	}

	descontinuado := "False"
	if strings.EqualFold(extras["descontinuado"], "true") {
		descontinuado = "True"
	}

	associados := strings.TrimSpace(extras["conjuntoDadosAssociados"])
	if associados == "" || !strings.HasPrefix(associados, "[") {
		associados = "[]"
	}

	ultimaMetadados := extras["ultimaAtualizacaoMetadados"]
	if ultimaMetadados == "" {
		ultimaMetadados = detail.MetadataModified
	}

	recursos := make([]map[string]any, 0, len(detail.Resources))
	for _, res := range detail.Resources {
		recursos = append(recursos, recursoTo5K(res, detail.ID))
	}

	ultimoArquivo := "Indisponível"
	if len(recursos) > 0 {
		if v, ok := recursos[0]["dataUltimaAtualizacaoArquivo"].(string); ok && v != "" && !strings.Contains(v, "Indisponível") {
			ultimoArquivo = v
		}
	}

	return map[string]string{
		"id":                             detail.ID,
		"titulo":                         titulo,
		"nome":                           strings.TrimSpace(detail.Name),
		"organizacao":                    orgName,
		"descricao":                      singleLine(detail.Notes),
		"licenca":                        license,
		"responsavel":                    strings.TrimSpace(detail.Maintainer),
		"emailResponsavel":               strings.TrimSpace(detail.MaintainerEmail),
		"periodicidade":                  strings.TrimSpace(extras["periodicidade"]),
		"temas":                          marshalJSON(themesJSON(detail.Groups)),
		"tags":                           marshalJSON(tagsJSON(detail.Tags)),
		"coberturaTemporalInicio":        "",
		"coberturaTemporalFim":           "",
		"coberturaEspacial":              strings.TrimSpace(extras["coberturaEspacial"]),
		"valorCoberturaEspacial":         strings.TrimSpace(extras["valorCoberturaEspacial"]),
		"granularidadeEspacial":          strings.TrimSpace(extras["granularidadeEspacial"]),
		"versao":                         strings.TrimSpace(detail.Version),
		"atualizacaoVersao":              "",
		"visibilidade":                   "PUBLICA",
		"descontinuado":                  descontinuado,
		"dataDescontinuacao":             strings.TrimSpace(extras["dataDescontinuacao"]),
		"reuso":                          "False",
		"recursos":                       marshalJSON(recursos),
		"conjuntoDadosAssociados":        associados,
		"dataUltimaAtualizacaoMetadados": ultimaMetadados,
		"dataUltimaAtualizacaoArquivo":   ultimoArquivo,
		"dataCatalogacao":                detail.MetadataCreated,
		"atualizado":                     "Atualização não verificável",
		"dadosRacaEtnia":                 optionalText(extras["dadosRacaEtnia"]),
		"dadosGenero":                    optionalText(extras["dadosGenero"]),
		"observanciaLegal":               optionalText(extras["observanciaLegal"]),
		"dadosAbertos":                   "Aberto",
		"selo":                           "Público",
		"origemCadastro":                 "Scraping",
		"Dados Abertos":                  "Aberto",
		"Dados Públicos":                 "Público",
	}
}

func recursoTo5K(res DetailResource, datasetID string) map[string]any {
	rf := res.form()
	size := float64(res.Size)
	if size == 0 {
		size = float64(rf.Tamanho)
	}
	return map[string]any{
		"dataUltimaAtualizacaoArquivo": firstOf(rf.DataUltimaAtualizacaoArquivo, res.LastModified),
		"dataCatalogacao":              firstOf(rf.DataCatalogacao, res.Created),
		"link":                         firstOf(res.URL, rf.Link),
		"idConjuntoDados":              datasetID,
		"descricao":                    firstOf(res.Description, rf.Descricao),
		"titulo":                       firstOf(res.Name, rf.Titulo),
		"formato":                      firstOf(res.Format, rf.Formato),
		"tipo":                         firstOf(res.Tipo, rf.Tipo),
		"numOrdem":                     nil,
		"nomeArquivo":                  nil,
		"quantidadeDownloads":          nil,
		"tamanho":                      size,
		"id":                           res.ID,
	}
}

func themesJSON(groups []dataset.Theme) []map[string]any {
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, map[string]any{"name": g.Name, "title": g.Title})
	}
	return out
}

func tagsJSON(tags []dataset.Tag) []map[string]any {
	out := make([]map[string]any, 0, len(tags))
	for _, t := range tags {
		out = append(out, map[string]any{"id": t.ID, "name": t.Name, "display_name": t.DisplayName})
	}
	return out
}

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// WriteRows writes flattened rows in CSVColumns order, creating parent
// directories as needed.
func WriteRows(path string, rows []map[string]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CSVColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(CSVColumns))
		for i, col := range CSVColumns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
