package parser

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// hintWindow is how many recent command names are checked for typos.
const hintWindow = 3

// keywordHint looks for a recent command name that is probably a mistyped
// closing keyword, such as "fii" for "fi" or "doen" for "done".
func (p *Parser) keywordHint(keyword string) string {
	limit := 1
	if len(keyword) > 3 {
		limit = 2
	}

	for i := len(p.names) - 1; i >= 0 && i >= len(p.names)-hintWindow; i-- {
		name := p.names[i]
		if name.Text == keyword {
			continue
		}
		if fuzzy.LevenshteinDistance(name.Text, keyword) <= limit {
			return fmt.Sprintf("did you mean '%s' instead of %q at line %d, column %d?",
				keyword, name.Text, name.Start.Line, name.Start.Column)
		}
	}
	return ""
}
