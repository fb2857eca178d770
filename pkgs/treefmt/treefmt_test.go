package treefmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/aledsdavies/bashcst/pkgs/lexer"
	"github.com/aledsdavies/bashcst/pkgs/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `#!/bin/bash
# deploy
greet() { echo "hi $1"; }
for f in *.sh; do
  case $f in
    a*|b*) cat <<-EOF > "$f.out"
	body $f
	EOF
    ;;
    *) [[ -n $f ]] && x=( 1 2 ) ;;
  esac
done 2>/dev/null
(( n++ )) || ! false &
`

func parseSample(t *testing.T) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(sample)
	require.NoError(t, err)
	return prog
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr string
	}{
		{name: "json", want: JSON},
		{name: "YAML", want: YAML},
		{name: "yml", want: YAML},
		{name: " cbor ", want: CBOR},
		{name: "jsn", wantErr: `did you mean "json"?`},
		{name: "ymal", wantErr: `did you mean "yaml"?`},
		{name: "cbr", wantErr: `did you mean "cbor"?`},
		{name: "protobuf", wantErr: "want one of json, yaml, cbor"},
		{name: "", wantErr: "want one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "json", JSON.String())
	assert.Equal(t, "cbor", CBOR.String())
	assert.Equal(t, "Format(9)", Format(9).String())
	assert.True(t, CBOR.Binary())
	assert.False(t, YAML.Binary())
}

func TestMarshalJSON(t *testing.T) {
	prog, err := parser.Parse(`echo "hello world"`)
	require.NoError(t, err)

	data, err := Marshal(prog, JSON, Options{})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"type": "program"`)
	assert.Contains(t, out, `"text": "hello world"`)
	assert.Contains(t, out, `"quote": "double"`)
	assert.NotContains(t, out, `"type": "space"`)

	withTrivia, err := Marshal(prog, JSON, Options{Trivia: true})
	require.NoError(t, err)
	assert.Contains(t, string(withTrivia), `"type": "space"`)
}

func TestMarshalYAML(t *testing.T) {
	prog, err := parser.Parse("cat << EOF\nhello\nEOF")
	require.NoError(t, err)

	data, err := Marshal(prog, YAML, Options{})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "type: program")
	assert.Contains(t, out, "type: heredoc")
	assert.Contains(t, out, "type: redirect")
	assert.Contains(t, out, "content: |")
}

// Each format decodes back to the same dump once numbers are normalized.
func TestEncodingsAgree(t *testing.T) {
	prog := parseSample(t)
	want := Dump(prog, Options{Trivia: true})

	for _, f := range []Format{JSON, YAML, CBOR} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Marshal(prog, f, Options{Trivia: true})
			require.NoError(t, err)

			got, err := Unmarshal(data, f)
			require.NoError(t, err)

			if diff := cmp.Diff(normalize(t, want), normalize(t, got)); diff != "" {
				t.Errorf("%s dump mismatch (-want +got):\n%s", f, diff)
			}
		})
	}
}

func TestCBORIsDeterministic(t *testing.T) {
	prog := parseSample(t)
	first, err := Marshal(prog, CBOR, Options{})
	require.NoError(t, err)
	second, err := Marshal(prog, CBOR, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ast.NewProgram(ast.NewStatement(ast.NewCommand("ls"))), YAML, Options{}))
	assert.Contains(t, buf.String(), "text: ls")

	assert.Error(t, Encode(&buf, &ast.Program{}, Format(7), Options{}))
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte("{"), JSON)
	assert.ErrorContains(t, err, "json decoding failed")

	_, err = Unmarshal([]byte{0xff}, CBOR)
	assert.ErrorContains(t, err, "cbor decoding failed")

	_, err = Unmarshal(nil, Format(5))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestValidate(t *testing.T) {
	prog := parseSample(t)

	t.Run("parsed tree", func(t *testing.T) {
		require.NoError(t, ValidateNode(prog))
		require.NoError(t, Validate(ast.ToMap(prog)))
	})

	t.Run("every encoding", func(t *testing.T) {
		for _, f := range []Format{JSON, YAML, CBOR} {
			data, err := Marshal(prog, f, Options{Trivia: true})
			require.NoError(t, err)
			assert.NoError(t, ValidateBytes(data, f), f.String())
		}
	})

	t.Run("built tree", func(t *testing.T) {
		built := ast.NewProgram(ast.NewStatement(
			ast.NewCommand("grep", ast.NewQuotedWord("x y", lexer.DoubleQuoted)),
			ast.NewCommand("wc"),
		))
		require.NoError(t, ValidateNode(built))
	})

	tests := []struct {
		name string
		dump map[string]interface{}
	}{
		{"unknown node type", map[string]interface{}{"type": "loop"}},
		{"missing type", map[string]interface{}{"children": []interface{}{}}},
		{"unknown key", map[string]interface{}{"type": "program", "extra": 1}},
		{"negative row", map[string]interface{}{
			"type":           "comment",
			"text":           "# x",
			"start_position": map[string]int{"row": -1, "column": 0},
		}},
		{"bad terminator", map[string]interface{}{"type": "case_clause", "terminator": ";"}},
		{"bad child", map[string]interface{}{
			"type":     "program",
			"children": []interface{}{map[string]interface{}{"type": 3}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.dump)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "does not match schema")
		})
	}
}

func TestSchemaIsACopy(t *testing.T) {
	s := Schema()
	require.NotEmpty(t, s)
	s[0] = 'x'
	assert.Equal(t, byte('{'), Schema()[0])
}

// normalize converts every number to float64 so dumps decoded by different
// codecs compare equal.
func normalize(t *testing.T, v interface{}) interface{} {
	t.Helper()
	switch v := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, e := range v {
			m[k] = normalize(t, e)
		}
		return m
	case map[string]int:
		m := make(map[string]interface{}, len(v))
		for k, e := range v {
			m[k] = float64(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, e := range v {
			s[i] = normalize(t, e)
		}
		return s
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return v
}
