package treefmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/fxamacker/cbor/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

// Format names a tree encoding
type Format int

const (
	JSON Format = iota
	YAML
	CBOR
)

var formatNames = [...]string{
	JSON: "json",
	YAML: "yaml",
	CBOR: "cbor",
}

func (f Format) String() string {
	if int(f) < len(formatNames) && int(f) >= 0 {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Binary reports whether the encoding is not text.
func (f Format) Binary() bool {
	return f == CBOR
}

// Formats lists the names accepted by ParseFormat.
func Formats() []string {
	return formatNames[:]
}

// ParseFormat resolves a format name. Unknown names get a suggestion when
// one of the known names is close.
func ParseFormat(name string) (Format, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range formatNames {
		if n == lower || (n == "yaml" && lower == "yml") {
			return Format(i), nil
		}
	}
	if s := suggest(lower); s != "" {
		return 0, fmt.Errorf("unknown format %q, did you mean %q?", name, s)
	}
	return 0, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats(), ", "))
}

func suggest(name string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, Formats())
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	for _, n := range formatNames {
		if fuzzy.LevenshteinDistance(name, n) <= 2 {
			return n
		}
	}
	return ""
}

// Options controls what a dump contains.
type Options struct {
	// Trivia keeps spaces, newlines, semicolons and comments in the dump.
	Trivia bool
}

// Dump converts a node to its map form.
func Dump(node ast.Node, opts Options) map[string]interface{} {
	if opts.Trivia {
		return ast.ToMapWithTrivia(node)
	}
	return ast.ToMap(node)
}

// Marshal encodes the dump of node in the given format. Text formats end
// with a newline.
func Marshal(node ast.Node, f Format, opts Options) ([]byte, error) {
	return encode(Dump(node, opts), f)
}

// Encode writes the encoded dump of node to w.
func Encode(w io.Writer, node ast.Node, f Format, opts Options) error {
	data, err := Marshal(node, f, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encode(v map[string]interface{}, f Format) ([]byte, error) {
	switch f {
	case JSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json encoding failed: %w", err)
		}
		return append(data, '\n'), nil

	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("yaml encoding failed: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("yaml encoding failed: %w", err)
		}
		return buf.Bytes(), nil

	case CBOR:
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		data, err := em.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cbor encoding failed: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported format %s", f)
}

// Unmarshal decodes a dump produced by Marshal. Nested maps are always
// map[string]interface{}; numbers keep the decoder's native types.
func Unmarshal(data []byte, f Format) (map[string]interface{}, error) {
	var v map[string]interface{}
	switch f {
	case JSON:
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("json decoding failed: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("yaml decoding failed: %w", err)
		}
	case CBOR:
		dm, err := cbor.DecOptions{
			DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
		}.DecMode()
		if err != nil {
			return nil, err
		}
		if err := dm.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("cbor decoding failed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %s", f)
	}
	return v, nil
}
