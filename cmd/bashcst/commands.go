package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/bashcst/internal/oracle"
	"github.com/aledsdavies/bashcst/internal/roundtrip"
	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/aledsdavies/bashcst/pkgs/generator"
	"github.com/aledsdavies/bashcst/pkgs/lexer"
	"github.com/aledsdavies/bashcst/pkgs/parser"
	"github.com/aledsdavies/bashcst/pkgs/treefmt"
	"github.com/spf13/cobra"
)

const stdinName = "<stdin>"

// readInput returns the script named by args, or standard input.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("error reading standard input: %w", err)
		}
		return stdinName, string(content), nil
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("error reading file %s: %w", args[0], err)
	}
	logger.Debug("read script", "file", args[0], "bytes", len(content))
	return args[0], string(content), nil
}

func parseInput(cmd *cobra.Command, args []string) (string, *ast.Program, error) {
	name, content, err := readInput(cmd, args)
	if err != nil {
		return "", nil, err
	}
	prog, err := parser.Parse(content)
	if err != nil {
		return "", nil, fmt.Errorf("error parsing %s: %w", name, err)
	}
	logger.Debug("parsed script", "file", name, "statements", len(prog.Statements()))
	return name, prog, nil
}

func tokensCommand(cmd *cobra.Command, args []string) error {
	name, content, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(content)
	if err != nil {
		return fmt.Errorf("error tokenizing %s: %w", name, err)
	}
	logger.Debug("tokenized script", "file", name, "tokens", len(tokens))

	out := cmd.OutOrStdout()
	for _, tok := range tokens {
		if _, err := fmt.Fprintf(out, "%-9s %-13s %q\n", tok.Start, tok.Type, tok.Text); err != nil {
			return err
		}
	}
	return nil
}

func parseCommand(cmd *cobra.Command, args []string) error {
	_, prog, err := parseInput(cmd, args)
	if err != nil {
		return err
	}

	f, err := cfg.TreeFormat()
	if err != nil {
		return err
	}
	data, err := treefmt.Marshal(prog, f, treefmt.Options{Trivia: cfg.Trivia})
	if err != nil {
		return fmt.Errorf("error encoding tree: %w", err)
	}

	if cfg.Validate {
		if err := treefmt.ValidateBytes(data, f); err != nil {
			return err
		}
		logger.Debug("tree dump matches schema", "format", f)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func fmtCommand(cmd *cobra.Command, args []string) error {
	name, prog, err := parseInput(cmd, args)
	if err != nil {
		return err
	}
	output := generator.Generate(prog)

	if !write {
		_, err := io.WriteString(cmd.OutOrStdout(), output)
		return err
	}
	if name == stdinName {
		return fmt.Errorf("--write needs a file argument")
	}

	info, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", name, err)
	}
	if err := os.WriteFile(name, []byte(output), info.Mode().Perm()); err != nil {
		return fmt.Errorf("error writing file %s: %w", name, err)
	}
	logger.Debug("wrote script", "file", name, "bytes", len(output))
	return nil
}

func checkCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, arg := range args {
		name, content, err := readInput(cmd, []string{arg})
		if err != nil {
			return err
		}

		report, verr := roundtrip.Verify(name, content)
		if verr != nil {
			failed++
			fmt.Fprintf(out, "%s: FAILED parse: %v\n", name, unwrapName(verr))
		} else {
			fmt.Fprintln(out, report)
			if cfg.Digest {
				fmt.Fprintf(out, "  source    blake2b-256 %s\n", report.SourceDigest)
				fmt.Fprintf(out, "  generated blake2b-256 %s\n", report.GeneratedDigest)
			}
			if !report.OK() {
				failed++
				if cfg.Diff && report.Diff != "" {
					fmt.Fprint(out, report.Diff)
				}
			}
		}

		if cfg.Oracle {
			if err := crossCheck(cmd, name, content, verr); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(args))
	}
	return nil
}

func unwrapName(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok && u.Unwrap() != nil {
		return u.Unwrap()
	}
	return err
}

func crossCheck(cmd *cobra.Command, name, content string, parseErr error) error {
	verdict, err := oracle.Check(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("error checking %s with tree-sitter: %w", name, err)
	}

	agreement := oracle.Compare(verdict, parseErr)
	fmt.Fprintf(cmd.OutOrStdout(), "  tree-sitter: %s\n", agreement)
	if !agreement.Agrees() {
		for _, issue := range verdict.Issues {
			logger.Warn("tree-sitter issue", "file", name, "issue", issue.String())
		}
	}
	logger.Debug("tree-sitter verdict", "file", name, "accepted", verdict.Accepted, "issues", len(verdict.Issues))
	return nil
}

func symbolsCommand(cmd *cobra.Command, args []string) error {
	_, prog, err := parseInput(cmd, args)
	if err != nil {
		return err
	}

	var output string
	if templateFile != "" {
		tmpl, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("error reading template file: %w", err)
		}
		output, err = generator.GenerateOutlineWithTemplate(prog, string(tmpl))
		if err != nil {
			return err
		}
	} else {
		output, err = generator.GenerateOutline(prog)
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(cmd.OutOrStdout(), output)
	return err
}
