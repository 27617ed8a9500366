package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryYAML = `
naming: camelCase
abstracts:
  - base: Animal
    variants:
      - type: Lion
        when: {propertyHasValue: {name: Species, value: Lion}}
      - type: Bear
        when: {propertyHasValue: {name: Species, value: Bear}}
      - type: BigCat
        when: {propertyValueKind: {name: ManeImpressiveness, kind: number}}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRun_Usage(t *testing.T) {
	var out, errb bytes.Buffer
	assert.Equal(t, 2, run(nil, &out, &errb))
	assert.Contains(t, errb.String(), "Usage:")
	assert.Equal(t, 2, run([]string{"frobnicate"}, &out, &errb))
}

func TestRun_Check(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "registry.yaml", registryYAML)

	var out, errb bytes.Buffer
	require.Equal(t, 0, run([]string{"check", "-config", cfg}, &out, &errb), errb.String())
	assert.Contains(t, out.String(), "ok (1 abstracts, 3 variants, naming camelCase)")

	bad := writeFile(t, dir, "bad.yaml", "abstracts: [{base: A, variants: []}]\n")
	errb.Reset()
	assert.Equal(t, 1, run([]string{"check", "-config", bad}, &out, &errb))
	assert.Contains(t, errb.String(), "at least one variant")

	pascal := writeFile(t, dir, "pascal.yaml", "naming: PascalCase\n"+registryYAML[len("\nnaming: camelCase\n"):])
	errb.Reset()
	out.Reset()
	assert.Equal(t, 1, run([]string{"check", "-config", pascal}, &out, &errb))
	assert.Contains(t, errb.String(), `unknown naming policy "PascalCase"`)
	assert.Empty(t, out.String())

	assert.Equal(t, 2, run([]string{"check"}, &out, &errb))
}

func TestRun_Lint(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "registry.yaml", registryYAML)
	ok := writeFile(t, dir, "bear.json", `{"species":"Bear","name":"Baloo"}`)
	yml := writeFile(t, dir, "lion.yaml", "species: Lion\nname: Leo\n")

	var out, errb bytes.Buffer
	code := run([]string{"lint", "-config", cfg, ok, yml}, &out, &errb)
	require.Equal(t, 0, code, errb.String())
	assert.Contains(t, out.String(), ok+": Animal -> Bear")
	assert.Contains(t, out.String(), yml+": Animal -> Lion")
}

func TestRun_LintReportsProblems(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "registry.yaml", registryYAML)
	zoo := writeFile(t, dir, "zoo.json", `[
		{"species":"Lion","maneImpressiveness":9.5},
		{"species":"Tiger"},
		{"species":"Bear"}
	]`)

	var out, errb bytes.Buffer
	code := run([]string{"lint", "-config", cfg, "-each", zoo}, &out, &errb)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), zoo+"#0: Animal -> AMBIGUOUS (Lion, BigCat)")
	assert.Contains(t, out.String(), zoo+"#1: Animal -> NO MATCH")
	assert.Contains(t, out.String(), zoo+"#2: Animal -> Bear")
}

func TestRun_LintFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "registry.yaml", registryYAML)
	doc := writeFile(t, dir, "lion.json", `{"Species":"Lion"}`)

	var out, errb bytes.Buffer
	assert.Equal(t, 1, run([]string{"lint", "-config", cfg, doc}, &out, &errb))

	out.Reset()
	assert.Equal(t, 0, run([]string{"lint", "-config", cfg, "-naming", "identity", "-base", "Animal", doc}, &out, &errb))
	assert.Contains(t, out.String(), "Animal -> Lion")

	assert.Equal(t, 2, run([]string{"lint", "-config", cfg, "-naming", "Pascal", doc}, &out, &errb))
	assert.Equal(t, 2, run([]string{"lint", "-config", cfg, "-base", "Plant", doc}, &out, &errb))
	assert.Equal(t, 2, run([]string{"lint", "-config", cfg}, &out, &errb))
}

func TestRun_LintUnreadableDocument(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "registry.yaml", registryYAML)
	broken := writeFile(t, dir, "broken.json", `{"species":`)

	var out, errb bytes.Buffer
	assert.Equal(t, 1, run([]string{"lint", "-config", cfg, broken, filepath.Join(dir, "missing.json")}, &out, &errb))
	assert.Contains(t, errb.String(), "broken.json")
	assert.Contains(t, errb.String(), "missing.json")
}
