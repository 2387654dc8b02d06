package shacl

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/opendata-br/dcatbr/rdf"
)

//go:embed shapes/*.ttl
var defaultShapesFS embed.FS

// Default compiles the embedded DCAT-BR shape set: the required
// constraints plus the warning-severity recommended ones.
func Default() (*Validator, error) {
	g := rdf.NewGraph()
	entries, err := fs.Glob(defaultShapesFS, "shapes/*.ttl")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	for _, name := range entries {
		data, err := defaultShapesFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded shapes %s: %w", name, err)
		}
		if err := parseInto(g, string(data)); err != nil {
			return nil, fmt.Errorf("embedded shapes %s: %w", name, err)
		}
	}
	return Compile(g)
}

// LoadDir compiles every .ttl file found under dir, recursively. Files
// merge into one shapes graph, so constraints may be split across files
// the way the published DCAT-BR shape distribution splits them.
func LoadDir(dir string) (*Validator, error) {
	pattern := filepath.Join(dir, "**", "*.ttl")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing shapes in %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .ttl shape files found under %s", dir)
	}
	sort.Strings(matches)

	g := rdf.NewGraph()
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading shapes file %s: %w", path, err)
		}
		if err := parseInto(g, string(data)); err != nil {
			return nil, fmt.Errorf("shapes file %s: %w", filepath.Base(path), err)
		}
	}
	return Compile(g)
}

// Load returns the validator for dir when given, the embedded default
// shape set otherwise.
func Load(dir string) (*Validator, error) {
	if strings.TrimSpace(dir) == "" {
		return Default()
	}
	return LoadDir(dir)
}

// parseInto merges parsed Turtle into g. Blank node labels are renamed per
// source so labels from separate files never collide.
func parseInto(g *rdf.Graph, turtle string) error {
	parsed, err := rdf.Parse(turtle)
	if err != nil {
		return err
	}
	rename := make(map[rdf.BNode]rdf.BNode)
	fresh := func(t rdf.Term) rdf.Term {
		b, ok := t.(rdf.BNode)
		if !ok {
			return t
		}
		if r, ok := rename[b]; ok {
			return r
		}
		r := g.NewBNode()
		rename[b] = r
		return r
	}
	for _, t := range parsed.Triples() {
		g.Add(fresh(t.Subject), t.Predicate, fresh(t.Object))
	}
	return nil
}
