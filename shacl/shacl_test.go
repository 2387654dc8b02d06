package shacl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-br/dcatbr/rdf"
)

const testShapes = `
@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:ThingShape a sh:NodeShape ;
    sh:targetClass ex:Thing ;
    sh:property [
        sh:path ex:name ;
        sh:minCount 1 ;
        sh:maxCount 1 ;
        sh:message "Thing must have exactly one name" ;
    ] ;
    sh:property [
        sh:path ex:when ;
        sh:datatype xsd:date ;
    ] ;
    sh:property [
        sh:path ex:link ;
        sh:nodeKind sh:IRI ;
    ] ;
    sh:property [
        sh:path ex:status ;
        sh:in ("ativo" "inativo") ;
    ] ;
    sh:property [
        sh:path ex:code ;
        sh:pattern "^[A-Z]{3}$" ;
    ] ;
    sh:property [
        sh:path ex:nickname ;
        sh:minCount 1 ;
        sh:severity sh:Warning ;
        sh:message "Nickname is recommended" ;
    ] .
`

func compileTestShapes(t *testing.T) *Validator {
	t.Helper()
	g, err := rdf.Parse(testShapes)
	require.NoError(t, err)
	v, err := Compile(g)
	require.NoError(t, err)
	return v
}

func thing(t *testing.T, body string) *rdf.Graph {
	t.Helper()
	g, err := rdf.Parse(`
@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
ex:t1 a ex:Thing ` + body + " .\n")
	require.NoError(t, err)
	return g
}

func TestValidateConforms(t *testing.T) {
	v := compileTestShapes(t)
	g := thing(t, `;
    ex:name "Primeira" ;
    ex:nickname "p1" ;
    ex:when "2024-01-01"^^xsd:date ;
    ex:link <http://example.org/l> ;
    ex:status "ativo" ;
    ex:code "ABC"`)

	report := v.Validate(g)
	assert.True(t, report.Conforms)
	assert.Empty(t, report.Errors())
	assert.Empty(t, report.Warnings())
}

func TestValidateMinCount(t *testing.T) {
	v := compileTestShapes(t)
	report := v.Validate(thing(t, `; ex:nickname "p1"`))

	assert.False(t, report.Conforms)
	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "Thing must have exactly one name at http://example.org/t1 (property: http://example.org/name)", errs[0])
}

func TestValidateMaxCount(t *testing.T) {
	v := compileTestShapes(t)
	report := v.Validate(thing(t, `; ex:name "a" ; ex:name "b" ; ex:nickname "p1"`))
	assert.False(t, report.Conforms)
	require.Len(t, report.Errors(), 1)
}

func TestValidateDatatype(t *testing.T) {
	v := compileTestShapes(t)
	report := v.Validate(thing(t, `; ex:name "a" ; ex:nickname "p1" ; ex:when "ontem"`))
	assert.False(t, report.Conforms)
	require.Len(t, report.Errors(), 1)
	assert.Contains(t, report.Errors()[0], "datatype")
}

func TestValidateNodeKind(t *testing.T) {
	v := compileTestShapes(t)
	report := v.Validate(thing(t, `; ex:name "a" ; ex:nickname "p1" ; ex:link "not-an-iri"`))
	assert.False(t, report.Conforms)
	require.Len(t, report.Errors(), 1)
	assert.Contains(t, report.Errors()[0], "node kind")
}

func TestValidateInAndPattern(t *testing.T) {
	v := compileTestShapes(t)
	report := v.Validate(thing(t, `; ex:name "a" ; ex:nickname "p1" ; ex:status "pendente" ; ex:code "abc"`))
	assert.False(t, report.Conforms)
	assert.Len(t, report.Errors(), 2)
}

func TestValidateWarningsDoNotBlock(t *testing.T) {
	v := compileTestShapes(t)
	report := v.Validate(thing(t, `; ex:name "a"`))

	assert.True(t, report.Conforms)
	assert.Empty(t, report.Errors())
	warnings := report.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Nickname is recommended at http://example.org/t1", warnings[0])
}

func TestValidateIgnoresUntargetedNodes(t *testing.T) {
	v := compileTestShapes(t)
	g, err := rdf.Parse(`
@prefix ex: <http://example.org/> .
ex:other a ex:SomethingElse .
`)
	require.NoError(t, err)
	report := v.Validate(g)
	assert.True(t, report.Conforms)
	assert.Empty(t, report.Results)
}

func TestDefaultShapesCompile(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.GreaterOrEqual(t, len(v.shapes), 4)
}

func TestDefaultShapesAgainstMinimalDataset(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	g, err := rdf.Parse(`
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dct: <http://purl.org/dc/terms/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

<http://example.org/d1> a dcat:Dataset ;
    dct:identifier "d1" ;
    dct:title "Dataset"@pt-BR ;
    dct:description "Descrição"@pt-BR ;
    dcat:distribution <http://example.org/d1/resource/r1> .

<http://example.org/d1/resource/r1> a dcat:Distribution ;
    dct:title "Recurso"@pt-BR ;
    dcat:accessURL <http://example.org/r1.csv> .
`)
	require.NoError(t, err)

	report := v.Validate(g)
	assert.True(t, report.Conforms)
	assert.NotEmpty(t, report.Warnings(), "recommended properties are missing")
}

func TestDefaultShapesMissingDistribution(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	g, err := rdf.Parse(`
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dct: <http://purl.org/dc/terms/> .

<http://example.org/d1> a dcat:Dataset ;
    dct:identifier "d1" ;
    dct:title "Dataset"@pt-BR ;
    dct:description "Descrição"@pt-BR .
`)
	require.NoError(t, err)

	report := v.Validate(g)
	assert.False(t, report.Conforms)
	assert.NotEmpty(t, report.Errors())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "1.0")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "shapes.ttl"), []byte(testShapes), 0o644))

	v, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, v.shapes, 1)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .ttl shape files")
}

func TestLoadFallsBackToDefault(t *testing.T) {
	v, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, v)
}
