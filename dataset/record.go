// Package dataset models open-data portal dataset records and reads them
// from the flat CSV interchange format (one row per dataset, list-valued
// columns carried as embedded JSON arrays).
package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Theme is one entry of the "temas" column.
type Theme struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Value returns the theme label, preferring the machine name.
func (t Theme) Value() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Title
}

// Tag is one entry of the "tags" column.
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Recurso is one entry of the "recursos" column. Portal exports carry two
// key dialects (the legacy Portuguese form and the CKAN-like form); both
// are accepted and merged through the accessor methods.
type Recurso struct {
	ID                           string     `json:"id"`
	Titulo                       string     `json:"titulo"`
	Name                         string     `json:"name"`
	Descricao                    string     `json:"descricao"`
	Description                  string     `json:"description"`
	Formato                      string     `json:"formato"`
	Format                       string     `json:"format"`
	Tipo                         string     `json:"tipo"`
	Link                         string     `json:"link"`
	URLField                     string     `json:"url"`
	DataCatalogacao              string     `json:"dataCatalogacao"`
	Created                      string     `json:"created"`
	DataUltimaAtualizacaoArquivo string     `json:"dataUltimaAtualizacaoArquivo"`
	LastModified                 string     `json:"last_modified"`
	Tamanho                      FlexNumber `json:"tamanho"`
	Size                         FlexNumber `json:"size"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Title returns the resource title from either dialect.
func (r Recurso) Title() string { return firstNonEmpty(r.Name, r.Titulo) }

// Desc returns the resource description from either dialect.
func (r Recurso) Desc() string { return firstNonEmpty(r.Description, r.Descricao) }

// MediaFormat returns the declared format from either dialect.
func (r Recurso) MediaFormat() string { return firstNonEmpty(r.Format, r.Formato) }

// URL returns the access link from either dialect.
func (r Recurso) URL() string { return firstNonEmpty(r.URLField, r.Link) }

// Issued returns the catalog date from either dialect.
func (r Recurso) Issued() string { return firstNonEmpty(r.Created, r.DataCatalogacao) }

// Modified returns the file update date from either dialect.
func (r Recurso) Modified() string {
	return firstNonEmpty(r.LastModified, r.DataUltimaAtualizacaoArquivo)
}

// Bytes returns the resource size, zero when absent or unparseable.
func (r Recurso) Bytes() float64 {
	if r.Size != 0 {
		return float64(r.Size)
	}
	return float64(r.Tamanho)
}

// FlexNumber unmarshals from a JSON number, a numeric string, or null.
// Portal exports are inconsistent about the tamanho field.
type FlexNumber float64

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexNumber(v)
	return nil
}

// Record is one dataset row. List-valued fields are already decoded from
// their embedded JSON; Extra keeps unrecognized columns verbatim.
type Record struct {
	ID                            string
	Titulo                        string
	Nome                          string
	Organizacao                   string
	Descricao                     string
	Licenca                       string
	Responsavel                   string
	EmailResponsavel              string
	Periodicidade                 string
	Versao                        string
	CoberturaEspacial             string
	GranularidadeEspacial         string
	CoberturaTemporalInicio       string
	CoberturaTemporalFim          string
	DataCatalogacao               string
	DataUltimaAtualizacaoMetadados string
	ObservanciaLegal              string
	DadosRacaEtnia                *bool
	DadosGenero                   *bool
	Temas                         []Theme
	Tags                          []Tag
	Recursos                      []Recurso
	Extra                         map[string]string
}

// knownColumns are consumed into typed fields; everything else lands in Extra.
var knownColumns = map[string]bool{
	"id": true, "titulo": true, "nome": true, "organizacao": true,
	"descricao": true, "licenca": true, "responsavel": true,
	"emailResponsavel": true, "periodicidade": true, "versao": true,
	"coberturaEspacial": true, "granularidadeEspacial": true,
	"coberturaTemporalInicio": true, "coberturaTemporalFim": true,
	"dataCatalogacao": true, "dataUltimaAtualizacaoMetadados": true,
	"observanciaLegal": true, "dadosRacaEtnia": true, "dadosGenero": true,
	"temas": true, "tags": true, "recursos": true,
}

// FromRow builds a Record from a header-keyed CSV row. Malformed JSON in a
// list column is reported as an error naming the column; the caller decides
// whether that fails the row or the run.
func FromRow(row map[string]string) (Record, error) {
	rec := Record{
		ID:                             row["id"],
		Titulo:                         row["titulo"],
		Nome:                           row["nome"],
		Organizacao:                    row["organizacao"],
		Descricao:                      row["descricao"],
		Licenca:                        row["licenca"],
		Responsavel:                    row["responsavel"],
		EmailResponsavel:               row["emailResponsavel"],
		Periodicidade:                  row["periodicidade"],
		Versao:                         row["versao"],
		CoberturaEspacial:              row["coberturaEspacial"],
		GranularidadeEspacial:          row["granularidadeEspacial"],
		CoberturaTemporalInicio:        row["coberturaTemporalInicio"],
		CoberturaTemporalFim:           row["coberturaTemporalFim"],
		DataCatalogacao:                row["dataCatalogacao"],
		DataUltimaAtualizacaoMetadados: row["dataUltimaAtualizacaoMetadados"],
		ObservanciaLegal:               row["observanciaLegal"],
		DadosRacaEtnia:                 parseOptionalBool(row["dadosRacaEtnia"]),
		DadosGenero:                    parseOptionalBool(row["dadosGenero"]),
	}

	if err := decodeList(row["temas"], "temas", &rec.Temas); err != nil {
		return rec, err
	}
	if err := decodeList(row["tags"], "tags", &rec.Tags); err != nil {
		return rec, err
	}
	if err := decodeList(row["recursos"], "recursos", &rec.Recursos); err != nil {
		return rec, err
	}

	for k, v := range row {
		if knownColumns[k] {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[k] = v
	}
	return rec, nil
}

func decodeList(raw, column string, dst any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("column %s: malformed JSON: %w", column, err)
	}
	return nil
}

// parseOptionalBool follows the portal's loose boolean spellings. An empty
// value means "not declared" and stays nil.
func parseOptionalBool(s string) *bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	v := s == "true" || s == "sim" || s == "1" || s == "yes"
	return &v
}
