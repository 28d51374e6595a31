// Package extract turns the text reports printed by tlmgr into ordered lists
// of completion candidates.
//
// Every extractor works line by line and skips anything it doesn't recognize.
// None of them fail: output that matches nothing yields an empty list.
package extract

import (
	"regexp"
	"strings"

	"github.com/zerowidth/tlmgr-complete/pkg/shell"
)

// Func is an extractor for one kind of tlmgr output
type Func func(raw string) shell.Candidates

var (
	platformRegex = regexp.MustCompile(`^    [a-z0-9]`)
	keyIDRegex    = regexp.MustCompile(`\b[0-9A-Fa-f]{40}\b`)
	uidTagRegex   = regexp.MustCompile(`\[[^\]]*\]`)
	emailRegex    = regexp.MustCompile(`<[^>]*>`)
)

func lines(raw string) []string {
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}

// PaperSizes yields one candidate per non-empty line, as printed by
// `tlmgr [program] paper --list`.
func PaperSizes(raw string) shell.Candidates {
	cs := shell.Candidates{}
	for _, line := range lines(raw) {
		if size := strings.TrimSpace(line); len(size) > 0 {
			cs = append(cs, shell.Candidate{Value: size})
		}
	}
	return cs
}

// Platforms extracts platform names from `tlmgr platform list`. Platforms are
// listed indented by exactly four spaces; headers and anything marked up
// differently are skipped.
func Platforms(raw string) shell.Candidates {
	cs := shell.Candidates{}
	for _, line := range lines(raw) {
		if !platformRegex.MatchString(line) {
			continue
		}
		cs = append(cs, shell.Candidate{Value: strings.TrimRight(line[4:], " \t")})
	}
	return cs
}

type keyState int

const (
	keyIdle keyState = iota
	keyWantID
	keyWantUID
)

// KeyIDs extracts key fingerprints and their owners from `tlmgr key list`,
// which looks like gpg's listing:
//
//	pub   rsa2048 2016-03-05 [SC]
//	      4CE1877E19438C70FBE7E68C0A7D0BE4A5C80A48
//	uid           [ultimate] TeX Live Distribution <tex-live@tug.org>
//
// The fingerprint may also appear on the pub line itself. Candidates are the
// fingerprint described by the uid's name, with the email address removed.
func KeyIDs(raw string) shell.Candidates {
	cs := shell.Candidates{}
	state := keyIdle
	var id string

	for _, line := range lines(raw) {
		if len(strings.TrimSpace(line)) == 0 {
			state = keyIdle
			continue
		}

		if strings.HasPrefix(line, "pub ") {
			state = keyWantID
			id = ""
		}

		switch state {
		case keyWantID:
			if match := keyIDRegex.FindString(line); len(match) > 0 {
				id = match
				state = keyWantUID
			}
		case keyWantUID:
			loc := uidTagRegex.FindStringIndex(line)
			if loc == nil {
				continue
			}
			label := emailRegex.ReplaceAllString(line[loc[1]:], "")
			label = strings.TrimSpace(label)
			cs = append(cs, shell.Candidate{Value: id, Description: label})
			state = keyIdle
		}
	}
	return cs
}

// OptionKeys extracts option names from `tlmgr option showall`, where each
// line reads "Description (key): value".
func OptionKeys(raw string) shell.Candidates {
	cs := shell.Candidates{}
	for _, line := range lines(raw) {
		end := strings.Index(line, "):")
		if end < 0 {
			continue
		}
		start := strings.LastIndex(line[:end], " (")
		if start < 0 {
			continue
		}
		key := strings.TrimSpace(line[start+2 : end])
		desc := strings.TrimSpace(line[:start])
		if len(key) == 0 {
			continue
		}
		cs = append(cs, shell.Candidate{Value: key, Description: desc})
	}
	return cs
}

// ConfigKeys extracts variable names from `tlmgr conf <file>` output, one
// "name = value" setting per line. Comments and blank lines are skipped.
func ConfigKeys(raw string) shell.Candidates {
	cs := shell.Candidates{}
	for _, line := range lines(raw) {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "#") {
			continue
		}
		name, _, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		if name = strings.TrimSpace(name); len(name) > 0 {
			cs = append(cs, shell.Candidate{Value: name})
		}
	}
	return cs
}

// DefaultRepository returns an extractor that finds the line labeled with
// label and yields everything after "label: " as the single candidate.
func DefaultRepository(label string) Func {
	delim := label + ": "
	return func(raw string) shell.Candidates {
		cs := shell.Candidates{}
		for _, line := range lines(raw) {
			idx := strings.Index(line, delim)
			if idx < 0 {
				continue
			}
			if repo := strings.TrimSpace(line[idx+len(delim):]); len(repo) > 0 {
				cs = append(cs, shell.Candidate{Value: repo})
				break
			}
		}
		return cs
	}
}
