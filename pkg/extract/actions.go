package extract

import (
	"strings"

	"github.com/zerowidth/tlmgr-complete/pkg/helpdoc"
	"github.com/zerowidth/tlmgr-complete/pkg/shell"
)

// Actions extracts action names from `tlmgr help`, described by the rest of
// their heading line. Actions documented under several headings are listed
// once, at their first heading.
func Actions(raw string) shell.Candidates {
	cs := shell.Candidates{}
	seen := map[string]bool{}
	for _, action := range helpdoc.Parse(raw).Actions {
		if seen[action.Name] {
			continue
		}
		seen[action.Name] = true
		usage := strings.TrimSpace(strings.TrimPrefix(action.Heading, action.Name))
		cs = append(cs, shell.Candidate{Value: action.Name, Description: usage})
	}
	return cs
}
