package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = "#!/bin/bash\n# greet\ngreet() {\n  echo \"hi $1\"\n}\ncat <<EOF\nbody\nEOF\ngreet  world\n"

// run executes the root command with args and returns its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so runs do not leak
// settings into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bashcst dev")
}

func TestFmtReproducesInput(t *testing.T) {
	out, err := run(t, script, "fmt")
	require.NoError(t, err)
	assert.Equal(t, script, out)

	path := writeScript(t, script)
	out, err = run(t, "", "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, script, out)
}

func TestFmtWrite(t *testing.T) {
	path := writeScript(t, "echo   a\n")
	_, err := run(t, "", "fmt", "-w", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo   a\n", string(data))

	_, err = run(t, "echo a\n", "fmt", "-w")
	assert.ErrorContains(t, err, "--write needs a file argument")
}

func TestTokens(t *testing.T) {
	out, err := run(t, "echo hi\n", "tokens")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], `"echo"`)
	assert.Contains(t, lines[3], `"\n"`)
}

func TestParse(t *testing.T) {
	path := writeScript(t, script)

	out, err := run(t, "", "parse", "--format", "json", "--validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "function_definition"`)
	assert.Contains(t, out, `"content": "body\n"`)

	out, err = run(t, "", "parse", "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "type: program")

	_, err = run(t, "", "parse", "--format", "jsno", path)
	assert.ErrorContains(t, err, `did you mean "json"?`)
}

func TestParseErrors(t *testing.T) {
	_, err := run(t, "case $1 in start) echo a ;;", "parse", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing <stdin>: line 1, column 28: expected 'esac', found end of input")

	_, err = run(t, "", "parse", "--format", "json", filepath.Join(t.TempDir(), "missing.sh"))
	assert.ErrorContains(t, err, "error reading file")
}

func TestCheck(t *testing.T) {
	good := writeScript(t, script)
	bad := filepath.Join(t.TempDir(), "bad.sh")
	require.NoError(t, os.WriteFile(bad, []byte("if true; then\n"), 0644))

	out, err := run(t, "", "check", "--digest", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok (3 statements")
	assert.Contains(t, out, "source    blake2b-256 ")

	out, err = run(t, "", "check", "--digest=false", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 scripts failed")
	assert.Contains(t, out, bad+": FAILED parse: line 2, column 1: expected 'fi', found end of input")
}

func TestCheckOracle(t *testing.T) {
	out, err := run(t, "for x in a b; do echo $x; done\n", "check", "--oracle", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "tree-sitter: both accept")
}

func TestSymbols(t *testing.T) {
	out, err := run(t, script, "symbols")
	require.NoError(t, err)
	assert.Contains(t, out, "function greet 3:1")
	assert.Contains(t, out, "commands: cat echo greet")

	tmpl := filepath.Join(t.TempDir(), "outline.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("{{len .Functions}} functions\n"), 0644))
	out, err = run(t, script, "symbols", "--template", tmpl)
	require.NoError(t, err)
	assert.Equal(t, "1 functions\n", out)
}

func TestConfigFile(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "bashcst.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("format: yaml\ntrivia: true\n"), 0644))

	out, err := run(t, "echo a\n", "--config", conf, "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "type: space")

	require.NoError(t, os.WriteFile(conf, []byte("fromat: yaml\n"), 0644))
	_, err = run(t, "echo a\n", "--config", conf, "version")
	assert.ErrorContains(t, err, "field fromat not found")
}
