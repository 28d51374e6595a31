package completion

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/zerowidth/tlmgr-complete/pkg/shell"
)

// Filter narrows candidates down to the ones matching the word being
// completed. Values starting with the word are kept in their original order;
// only if there are none, fuzzy matches are returned, best first.
func Filter(cs shell.Candidates, word string) shell.Candidates {
	if len(word) == 0 {
		return cs
	}

	prefixed := lo.Filter(cs, func(c shell.Candidate, _ int) bool {
		return strings.HasPrefix(c.Value, word)
	})
	if len(prefixed) > 0 {
		return prefixed
	}

	values := lo.Map(cs, func(c shell.Candidate, _ int) string { return c.Value })
	matches := fuzzy.Find(word, values)
	filtered := shell.Candidates{}
	for _, match := range matches {
		filtered = append(filtered, cs[match.Index])
	}
	return filtered
}
