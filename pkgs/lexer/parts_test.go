package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestScanParts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Part
	}{
		{
			name:     "plain",
			input:    "hello",
			expected: []Part{{Kind: PartLiteral, Text: "hello"}},
		},
		{
			name:  "double quoted with parameter",
			input: `"a $x b"`,
			expected: []Part{
				{Kind: PartLiteral, Quote: DoubleQuoted, Text: "a "},
				{Kind: PartParam, Quote: DoubleQuoted, Text: "$x", Name: "x"},
				{Kind: PartLiteral, Quote: DoubleQuoted, Text: " b"},
			},
		},
		{
			name:  "mixed",
			input: `pre'single'$(cmd)${var:-d}`,
			expected: []Part{
				{Kind: PartLiteral, Text: "pre"},
				{Kind: PartLiteral, Quote: SingleQuoted, Text: "single"},
				{Kind: PartCommand, Text: "$(cmd)"},
				{Kind: PartParam, Text: "${var:-d}", Name: "var"},
			},
		},
		{
			name:     "ansi-c",
			input:    `$'a\nb'`,
			expected: []Part{{Kind: PartLiteral, Quote: AnsiCQuoted, Text: `a\nb`}},
		},
		{
			name:     "empty double quotes",
			input:    `""`,
			expected: []Part{{Kind: PartLiteral, Quote: DoubleQuoted}},
		},
		{
			name:     "arithmetic",
			input:    "$((1+2))",
			expected: []Part{{Kind: PartArith, Text: "$((1+2))"}},
		},
		{
			name:     "process substitution",
			input:    "<(ls)",
			expected: []Part{{Kind: PartProcess, Text: "<(ls)"}},
		},
		{
			name:  "substitution with heredoc inside double quotes",
			input: "\"$(cat <<'EOF'\nit's\nEOF\n) done\"",
			expected: []Part{
				{Kind: PartCommand, Quote: DoubleQuoted, Text: "$(cat <<'EOF'\nit's\nEOF\n)"},
				{Kind: PartLiteral, Quote: DoubleQuoted, Text: " done"},
			},
		},
		{
			name:     "backtick",
			input:    "`date`",
			expected: []Part{{Kind: PartCommand, Text: "`date`"}},
		},
		{
			name:  "special parameters",
			input: "$1$@",
			expected: []Part{
				{Kind: PartParam, Text: "$1", Name: "1"},
				{Kind: PartParam, Text: "$@", Name: "@"},
			},
		},
		{
			name:  "length and indirection",
			input: "${#arr[@]}${!ref}",
			expected: []Part{
				{Kind: PartParam, Text: "${#arr[@]}", Name: "arr"},
				{Kind: PartParam, Text: "${!ref}", Name: "ref"},
			},
		},
		{
			name:     "lone dollar and escapes stay literal",
			input:    `a\$b$`,
			expected: []Part{{Kind: PartLiteral, Text: `a\$b$`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanParts(tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("parts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanHeredoc(t *testing.T) {
	got := ScanHeredoc("Hello \"$USER\"\nnow: $(date)\n")
	want := []Part{
		{Kind: PartLiteral, Text: "Hello \""},
		{Kind: PartParam, Text: "$USER", Name: "USER"},
		{Kind: PartLiteral, Text: "\"\nnow: "},
		{Kind: PartCommand, Text: "$(date)"},
		{Kind: PartLiteral, Text: "\n"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parts mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitAssignment(t *testing.T) {
	tests := []struct {
		word     string
		name     string
		appendOp bool
		value    string
		ok       bool
	}{
		{"a=1", "a", false, "1", true},
		{"a+=x", "a", true, "x", true},
		{"arr[1]=v", "arr[1]", false, "v", true},
		{"empty=", "empty", false, "", true},
		{"_x9=$(date)", "_x9", false, "$(date)", true},
		{"1a=b", "", false, "", false},
		{"echo", "", false, "", false},
		{"a[x=1", "", false, "", false},
		{"--opt=1", "", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			name, appendOp, value, ok := SplitAssignment(tt.word)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.appendOp, appendOp)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.ok, IsAssignment(tt.word))
		})
	}
}

func TestUnquoteDelimiter(t *testing.T) {
	tests := []struct {
		raw    string
		delim  string
		quoted bool
	}{
		{"EOF", "EOF", false},
		{"'EOF'", "EOF", true},
		{`"E"OF`, "EOF", true},
		{`\EOF`, "EOF", true},
		{"END_1", "END_1", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			delim, quoted := UnquoteDelimiter(tt.raw)
			assert.Equal(t, tt.delim, delim)
			assert.Equal(t, tt.quoted, quoted)
		})
	}
}

func TestQuoteOf(t *testing.T) {
	tests := []struct {
		raw  string
		want QuoteType
	}{
		{`"hello world"`, DoubleQuoted},
		{`'it''s'`, Unquoted},
		{`'single'`, SingleQuoted},
		{"`date`", Backtick},
		{`"a"b`, Unquoted},
		{`"$(echo "x")"`, DoubleQuoted},
		{`plain`, Unquoted},
		{`"`, Unquoted},
		{`$'x'`, Unquoted},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteOf(tt.raw))
		})
	}
}
