package portal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ListEntry is one row of lista_conjuntos.csv.
type ListEntry struct {
	ID          string
	Titulo      string
	Nome        string
	Organizacao string
}

var listHeader = []string{"id", "titulo", "nome", "organizacao"}

// registro is one item of the buscar response. The endpoint has gone
// through key renames over time, so both spellings are read.
type registro struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Titulo            string `json:"titulo"`
	Name              string `json:"name"`
	Nome              string `json:"nome"`
	OrganizationTitle string `json:"organizationTitle"`
	NomeOrganizacao   string `json:"nomeOrganizacao"`
}

type buscarPage struct {
	TotalRegistros int        `json:"totalRegistros"`
	Registros      []registro `json:"registros"`
}

func (r registro) toEntry() ListEntry {
	titulo := r.Title
	if titulo == "" {
		titulo = r.Titulo
	}
	nome := r.Name
	if nome == "" {
		nome = r.Nome
	}
	org := r.OrganizationTitle
	if org == "" {
		org = r.NomeOrganizacao
	}
	return ListEntry{ID: r.ID, Titulo: titulo, Nome: nome, Organizacao: org}
}

// FetchList walks the paginated buscar endpoint and returns dataset list
// entries. max caps the number of entries (<=0 means all). The walk stops
// on a short page; a failed page request ends the walk with whatever was
// collected, and only a walk that collected nothing returns the error.
func (c *Client) FetchList(ctx context.Context, query string, max int) ([]ListEntry, error) {
	var entries []ListEntry
	offset := 0
	total := -1

	for {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		if max > 0 && len(entries) >= max {
			break
		}
		pageSize := c.pageSize
		if max > 0 && max-len(entries) < pageSize {
			pageSize = max - len(entries)
		}

		var page buscarPage
		if err := c.getJSON(ctx, c.buscarURL(offset, pageSize, query), &page); err != nil {
			c.logger.Warn("list page request failed", "offset", offset, "error", err)
			if len(entries) == 0 {
				return nil, err
			}
			break
		}
		if total < 0 {
			total = page.TotalRegistros
			c.logger.Info("portal reports total datasets", "total", total)
		}

		for _, r := range page.Registros {
			entries = append(entries, r.toEntry())
		}
		c.logger.Info("fetched list page", "offset", offset, "page", len(page.Registros), "collected", len(entries))

		if len(page.Registros) == 0 || len(page.Registros) < pageSize {
			break
		}
		offset += len(page.Registros)
		c.sleep(ctx)
	}
	return entries, nil
}

// WriteList writes entries as lista_conjuntos.csv, creating parent
// directories as needed.
func WriteList(path string, entries []ListEntry) error {
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
	if err := w.Write(listHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.ID, e.Titulo, e.Nome, e.Organizacao}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadList reads a lista_conjuntos.csv written by WriteList.
func ReadList(path string) ([]ListEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	var entries []ListEntry
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		entries = append(entries, ListEntry{
			ID:          field(row, "id"),
			Titulo:      field(row, "titulo"),
			Nome:        field(row, "nome"),
			Organizacao: field(row, "organizacao"),
		})
	}
	return entries, nil
}
