package generator

import (
	"testing"

	"github.com/aledsdavies/bashcst/pkgs/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineScript = `#!/bin/bash
# build helpers
VERSION=1.2
build() {
  go build -o bin/app .
}
for target in linux darwin; do
  GOOS=$target build
done
function clean { rm -rf bin; }
arr[0]=x
`

func TestPrepareOutline(t *testing.T) {
	prog, err := parser.Parse(outlineScript)
	require.NoError(t, err)

	data, err := PrepareOutline(prog)
	require.NoError(t, err)

	want := &OutlineData{
		Functions: []OutlineSymbol{
			{Name: "build", Kind: "function", Line: 4, Column: 1},
			{Name: "clean", Kind: "function", Line: 10, Column: 1},
		},
		Variables: []OutlineSymbol{
			{Name: "VERSION", Kind: "variable", Line: 3, Column: 1},
			{Name: "target", Kind: "variable", Line: 7, Column: 5},
			{Name: "GOOS", Kind: "variable", Line: 8, Column: 3},
			{Name: "arr", Kind: "variable", Line: 11, Column: 1},
		},
		Commands:   []string{"build", "go", "rm"},
		Statements: 5,
		Comments:   2,
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateOutline(t *testing.T) {
	prog, err := parser.Parse("greet() { echo hi; }\nname=world\n")
	require.NoError(t, err)

	got, err := GenerateOutline(prog)
	require.NoError(t, err)
	want := "function greet 1:1\nvariable name 2:1\ncommands: echo\n2 statements, 0 comments\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateOutlineWithTemplate(t *testing.T) {
	prog, err := parser.Parse("a() { :; }\nb() { :; }\n")
	require.NoError(t, err)

	got, err := GenerateOutlineWithTemplate(prog, `{{range .Functions}}{{upper .Name | quote}} {{end}}`)
	require.NoError(t, err)
	assert.Equal(t, `"A" "B" `, got)

	_, err = GenerateOutlineWithTemplate(prog, "   ")
	assert.ErrorContains(t, err, "template string cannot be empty")

	_, err = GenerateOutlineWithTemplate(prog, "{{.Nope")
	assert.ErrorContains(t, err, "failed to parse template")

	_, err = GenerateOutlineWithTemplate(prog, "{{.Missing}}")
	assert.ErrorContains(t, err, "failed to execute template")

	_, err = GenerateOutlineWithTemplate(nil, "x")
	assert.ErrorContains(t, err, "program cannot be nil")
}
