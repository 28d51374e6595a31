// Package helpdoc finds the structure of `tlmgr help` output: its top-level
// sections and the actions documented inside ACTIONS.
//
// The help text is consistently indented. Top-level sections start at column
// zero in all caps, and each action starts with exactly two spaces.
package helpdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// SectionType distinguishes top-level sections from action subsections
type SectionType int

const (
	// Main is a top-level, all-caps section
	Main SectionType = iota
	// Action is a subsection documenting one tlmgr action
	Action
)

// Section is a section of the help text. Lines are numbered from 1.
type Section struct {
	Name    string
	Heading string // the stripped heading line, for actions
	Type    SectionType
	Start   int
	End     int // last line of the section, set by Parse
}

// Document is parsed help output
type Document struct {
	Lines   []string
	Main    []Section
	Actions []Section
}

// the sections that follow ACTIONS in tlmgr's help
var afterActions = map[string]bool{
	"CONFIGURATION FILE FOR TLMGR": true,
	"CRYPTOGRAPHIC VERIFICATION":   true,
	"USER MODE":                    true,
	"MULTIPLE REPOSITORIES":        true,
	"GUI FOR TLMGR":                true,
	"MACHINE-READABLE OUTPUT":      true,
	"ENVIRONMENT VARIABLES":        true,
	"AUTHORS AND COPYRIGHT":        true,
}

var (
	separatorRegex  = regexp.MustCompile(`^[=\-]+$`)
	actionNameRegex = regexp.MustCompile(`^\s*(\w[\w\-]*)`)
	unsafeRegex     = regexp.MustCompile(`[^\w\-.]`)
	underscoreRegex = regexp.MustCompile(`_+`)
)

// Parse splits help text into lines and finds its sections.
func Parse(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	doc := &Document{}
	if len(text) > 0 {
		doc.Lines = strings.Split(text, "\n")
	}

	inActions := false
	for i, line := range doc.Lines {
		n := i + 1
		content := strings.TrimRight(line, " \t")

		if len(content) > 0 && !strings.HasPrefix(line, " ") && isUpper(content) {
			if separatorRegex.MatchString(content) {
				continue
			}
			doc.Main = append(doc.Main, Section{Name: content, Type: Main, Start: n})
			if content == "ACTIONS" {
				inActions = true
			} else if inActions && afterActions[content] {
				inActions = false
			}
			continue
		}

		if inActions && strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "    ") {
			stripped := strings.TrimSpace(content)
			if len(stripped) == 0 {
				continue
			}
			match := actionNameRegex.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			doc.Actions = append(doc.Actions, Section{
				Name:    match[1],
				Heading: stripped,
				Type:    Action,
				Start:   n,
			})
		}
	}

	doc.setRanges()
	return doc
}

// isUpper matches Python's str.isupper: at least one cased character, and no
// lowercase ones.
func isUpper(s string) bool {
	return strings.ToUpper(s) == s && strings.ToLower(s) != s
}

// setRanges ends each section on the line before the next one starts, or at
// the end of the document.
func (d *Document) setRanges() {
	all := d.sorted()
	for i, s := range all {
		end := len(d.Lines)
		if i+1 < len(all) {
			end = all[i+1].Start - 1
		}
		s.End = end
	}
}

// sorted returns pointers to every section in line order
func (d *Document) sorted() []*Section {
	all := make([]*Section, 0, len(d.Main)+len(d.Actions))
	for i := range d.Main {
		all = append(all, &d.Main[i])
	}
	for i := range d.Actions {
		all = append(all, &d.Actions[i])
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })
	return all
}

// Content returns a section's text with trailing blank lines removed
func (d *Document) Content(s Section) string {
	start := s.Start - 1
	end := s.End
	if end > len(d.Lines) {
		end = len(d.Lines)
	}
	if start < 0 || start >= end {
		return ""
	}
	lines := d.Lines[start:end]
	for len(lines) > 0 && len(strings.TrimSpace(lines[len(lines)-1])) == 0 {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Section finds a top-level section by name
func (d *Document) Section(name string) (Section, bool) {
	for _, s := range d.Main {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// SanitizeName turns a section name into something safe to use as a file name
func SanitizeName(name string) string {
	s := unsafeRegex.ReplaceAllString(name, "_")
	s = underscoreRegex.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	s = strings.TrimRight(s, ".")
	return strings.ToLower(s)
}

// Structure renders the map of section line numbers
func (d *Document) Structure(now time.Time) string {
	var b strings.Builder
	b.WriteString("TLMGR HELP.TXT SECTION STRUCTURE\n")
	b.WriteString(strings.Repeat("=", 35) + "\n\n")

	b.WriteString("MAIN SECTIONS:\n")
	b.WriteString(strings.Repeat("-", 14) + "\n")
	for _, s := range d.Main {
		fmt.Fprintf(&b, "Line %-4d: %s\n", s.Start, s.Name)
	}
	b.WriteString("\n")

	b.WriteString("ACTIONS SUBSECTIONS:\n")
	b.WriteString(strings.Repeat("-", 19) + "\n")
	for _, s := range d.Actions {
		fmt.Fprintf(&b, "Line %-4d: %s\n", s.Start, s.Heading)
	}
	b.WriteString("\n")

	b.WriteString("SUMMARY:\n")
	b.WriteString(strings.Repeat("-", 8) + "\n")
	fmt.Fprintf(&b, "Total main sections: %d\n", len(d.Main))
	fmt.Fprintf(&b, "Total actions: %d\n", len(d.Actions))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generated on: %s", now.Format("January 02, 2006"))
	return b.String()
}

// WriteSections writes the OPTIONS section to dir/options.txt and every
// action to dir/actions/<name>.txt. It returns the paths written.
func (d *Document) WriteSections(dir string) ([]string, error) {
	actionsDir := filepath.Join(dir, "actions")
	if err := os.MkdirAll(actionsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", actionsDir, err)
	}

	var written []string
	write := func(path string, s Section) error {
		if err := os.WriteFile(path, []byte(d.Content(s)), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if options, ok := d.Section("OPTIONS"); ok {
		if err := write(filepath.Join(dir, "options.txt"), options); err != nil {
			return written, err
		}
	}
	for _, action := range d.Actions {
		path := filepath.Join(actionsDir, SanitizeName(action.Name)+".txt")
		if err := write(path, action); err != nil {
			return written, err
		}
	}
	return written, nil
}
