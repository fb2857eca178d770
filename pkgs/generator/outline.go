package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/aledsdavies/bashcst/pkgs/ast"
)

// OutlineData is the template input for script outlines
type OutlineData struct {
	Functions  []OutlineSymbol
	Variables  []OutlineSymbol
	Commands   []string // distinct command names, sorted
	Statements int
	Comments   int
}

// OutlineSymbol is one defined name with its 1-based position
type OutlineSymbol struct {
	Name   string
	Kind   string
	Line   int
	Column int
}

const defaultOutlineTemplate = `{{range .Functions}}function {{.Name}} {{.Line}}:{{.Column}}
{{end}}{{range .Variables}}variable {{.Name}} {{.Line}}:{{.Column}}
{{end}}{{if .Commands}}commands: {{join .Commands " "}}
{{end}}{{.Statements}} statements, {{.Comments}} comments
`

// PrepareOutline collects the symbols and command names of a program.
func PrepareOutline(prog *ast.Program) (*OutlineData, error) {
	if prog == nil {
		return nil, fmt.Errorf("program cannot be nil")
	}

	data := &OutlineData{
		Functions:  []OutlineSymbol{},
		Variables:  []OutlineSymbol{},
		Commands:   []string{},
		Statements: len(prog.Statements()),
		Comments:   len(prog.Comments()),
	}

	for _, s := range ast.DocumentSymbols(prog) {
		sym := OutlineSymbol{Name: s.Name, Kind: s.Kind.String(), Line: s.Pos.Line, Column: s.Pos.Column}
		if s.Kind == ast.SymbolFunction {
			data.Functions = append(data.Functions, sym)
		} else {
			data.Variables = append(data.Variables, sym)
		}
	}

	seen := make(map[string]bool)
	for _, c := range ast.Commands(prog) {
		if c.Name == nil {
			continue
		}
		name := c.Name.Value()
		if !seen[name] {
			seen[name] = true
			data.Commands = append(data.Commands, name)
		}
	}
	sort.Strings(data.Commands)

	return data, nil
}

// GenerateOutline renders the default outline of a program.
func GenerateOutline(prog *ast.Program) (string, error) {
	return GenerateOutlineWithTemplate(prog, defaultOutlineTemplate)
}

// GenerateOutlineWithTemplate renders the outline through a custom
// text/template. The template receives an *OutlineData.
func GenerateOutlineWithTemplate(prog *ast.Program, templateStr string) (string, error) {
	if len(strings.TrimSpace(templateStr)) == 0 {
		return "", fmt.Errorf("template string cannot be empty")
	}

	data, err := PrepareOutline(prog)
	if err != nil {
		return "", fmt.Errorf("failed to prepare outline: %w", err)
	}

	tmpl, err := template.New("outline").Funcs(templateFuncs()).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"join":      strings.Join,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"quote":     func(s string) string { return fmt.Sprintf("%q", s) },
	}
}
