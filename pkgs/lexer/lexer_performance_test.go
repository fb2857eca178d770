package lexer

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

const benchScript = `#!/usr/bin/env bash
set -euo pipefail

deploy() {
	local target="${1:-staging}"
	if [[ "$target" == prod* ]]; then
		echo "Deploying to $target" >&2
	fi
	for host in $(cat hosts.txt); do
		ssh "$host" 'systemctl restart app' || return 1
	done
	cat <<EOF > /tmp/deploy.log
target=$target
time=$(date +%s)
EOF
}

case "$1" in
	deploy) deploy "$2" ;;
	*) echo "usage: $0 deploy [target]" ;;
esac
`

func BenchmarkLexer(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Tokenize(benchScript); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexerLarge(b *testing.B) {
	var input strings.Builder
	for i := 0; i < 100; i++ {
		input.WriteString(strings.ReplaceAll(benchScript, "deploy", fmt.Sprintf("deploy%d", i)))
	}
	script := input.String()

	b.SetBytes(int64(len(script)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Tokenize(script); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanParts(b *testing.B) {
	word := `"prefix ${var:-default} $(cmd "$arg") suffix"'literal'$((1 + 2))`
	for i := 0; i < b.N; i++ {
		_ = ScanParts(word)
	}
}

// TestLexerScalesLinearly guards against accidental quadratic scanning.
func TestLexerScalesLinearly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	measure := func(copies int) time.Duration {
		script := strings.Repeat(benchScript, copies)
		start := time.Now()
		if _, err := Tokenize(script); err != nil {
			t.Fatal(err)
		}
		return time.Since(start)
	}

	measure(10) // warm up
	small := measure(50)
	large := measure(500)

	if small > 0 && large > small*50 {
		t.Errorf("lexing 10x more input took %v vs %v", large, small)
	}
}
