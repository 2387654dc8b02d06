package dcatbr

import (
	"embed"
	"encoding/csv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Vocabulary names accepted by Lookup.
const (
	VocabFrequency    = "freq"
	VocabSEI          = "sei"
	VocabFormat       = "formato"
	VocabResourceType = "tipo-recurso"
	VocabThemes       = "themes"
	VocabLicenses     = "vcr-lu"
)

//go:embed data/*.csv
var vocabFS embed.FS

var vocabFiles = map[string]string{
	VocabFrequency:    "data/freq.csv",
	VocabSEI:          "data/sei.csv",
	VocabFormat:       "data/formatos.csv",
	VocabResourceType: "data/tipo-recurso.csv",
	VocabThemes:       "data/themes.csv",
	VocabLicenses:     "data/licencas.csv",
}

var (
	vocabOnce  sync.Once
	vocabCache map[string]map[string]string
)

// load parses every embedded vocabulary CSV once. Each file holds
// "URI,NOTATION" rows; the notation is mapped under multiple spellings so
// lookups survive case and separator variation in portal data.
func load() map[string]map[string]string {
	vocabOnce.Do(func() {
		vocabCache = make(map[string]map[string]string, len(vocabFiles))
		for name, path := range vocabFiles {
			data, err := vocabFS.ReadFile(path)
			if err != nil {
				// embedded files are part of the build; a miss is a bug
				panic("dcatbr: missing vocabulary file " + path)
			}
			vocabCache[name] = parseVocabCSV(string(data))
		}
	})
	return vocabCache
}

func parseVocabCSV(content string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r := csv.NewReader(strings.NewReader(line))
		fields, err := r.Read()
		if err != nil || len(fields) < 2 {
			continue
		}
		uri := strings.TrimSpace(fields[0])
		notation := strings.TrimSpace(fields[1])
		if uri == "" || notation == "" {
			continue
		}
		out[strings.ToUpper(notation)] = uri
		out[notation] = uri
		if slug := slugify(notation); slug != strings.ToLower(notation) {
			out[slug] = uri
			out[strings.ToUpper(slug)] = uri
		}
	}
	return out
}

// Lookup converts a literal portal value to its vocabulary IRI. It returns
// the empty string when the value has no mapping; themes are the exception
// and always resolve (unknown themes get a constructed IRI under the theme
// scheme, matching the published vocabulary layout).
func Lookup(value, vocab string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	table, ok := load()[vocab]
	if !ok {
		return ""
	}

	if uri, ok := table[strings.ToUpper(value)]; ok {
		return uri
	}
	if uri, ok := table[value]; ok {
		return uri
	}

	switch vocab {
	case VocabLicenses:
		hyphens := strings.ToLower(strings.NewReplacer("_", "-", " ", "-").Replace(value))
		if uri, ok := table[hyphens]; ok {
			return uri
		}
		underscores := strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(value))
		if uri, ok := table[underscores]; ok {
			return uri
		}
	case VocabThemes:
		slug := slugify(stripAccents(value))
		if uri, ok := table[slug]; ok {
			return uri
		}
		return string(SchemeThemes) + slug
	}
	return ""
}

// Convenience wrappers per vocabulary.

func FrequencyToIRI(value string) string    { return Lookup(value, VocabFrequency) }
func SEIToIRI(value string) string          { return Lookup(value, VocabSEI) }
func FormatToIRI(value string) string       { return Lookup(value, VocabFormat) }
func ResourceTypeToIRI(value string) string { return Lookup(value, VocabResourceType) }
func ThemeToIRI(value string) string        { return Lookup(value, VocabThemes) }
func LicenseToIRI(value string) string      { return Lookup(value, VocabLicenses) }

// slugify lowercases and replaces spaces/underscores with hyphens.
func slugify(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "-", "_", "-").Replace(s))
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripAccents removes combining marks so "Educação" matches "educacao".
func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}
