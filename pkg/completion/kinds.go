package completion

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/zerowidth/tlmgr-complete/pkg/config"
	"github.com/zerowidth/tlmgr-complete/pkg/extract"
	"github.com/zerowidth/tlmgr-complete/pkg/shell"
)

// Kind is a kind of data a completion can ask for: either a static list, or
// the output of a tlmgr invocation run through an extractor.
type Kind struct {
	Name        string
	Noun        string   // what's missing, as in "no paper sizes found"
	Description string   // shown by `tlmgr-complete kinds`
	Qualifiers  []string // accepted qualifiers, if any
	Required    bool     // is a qualifier required?

	args      func(qualifier string) []string
	extractor func(cfg config.Config) extract.Func
	static    shell.Candidates
}

// Static reports whether the kind's candidates are fixed rather than fetched
func (k Kind) Static() bool {
	return k.args == nil
}

// Args are the tlmgr arguments that list this kind's data
func (k Kind) Args(qualifier string) []string {
	if k.args == nil {
		return nil
	}
	return k.args(qualifier)
}

// CheckQualifier validates a qualifier for this kind
func (k Kind) CheckQualifier(qualifier string) error {
	if len(qualifier) == 0 {
		if k.Required {
			return fmt.Errorf("%s requires one of: %v", k.Name, k.Qualifiers)
		}
		return nil
	}
	if !lo.Contains(k.Qualifiers, qualifier) {
		if len(k.Qualifiers) == 0 {
			return fmt.Errorf("%s takes no qualifier, got %q", k.Name, qualifier)
		}
		return fmt.Errorf("%s qualifier %q is not one of: %v", k.Name, qualifier, k.Qualifiers)
	}
	return nil
}

func fixed(fn extract.Func) func(config.Config) extract.Func {
	return func(config.Config) extract.Func { return fn }
}

func constant(args ...string) func(string) []string {
	return func(string) []string { return args }
}

func static(values ...string) shell.Candidates {
	return lo.Map(values, func(v string, _ int) shell.Candidate {
		return shell.Candidate{Value: v}
	})
}

var kinds = []Kind{
	{
		Name:        "paper",
		Noun:        "paper sizes",
		Description: "paper sizes, for all programs or just one",
		Qualifiers:  []string{"context", "dvipdfmx", "dvips", "pdftex", "psutils", "xdvi"},
		args: func(program string) []string {
			if len(program) > 0 {
				return []string{program, "paper", "--list"}
			}
			return []string{"paper", "--list"}
		},
		extractor: fixed(extract.PaperSizes),
	},
	{
		Name:        "platform",
		Noun:        "platforms",
		Description: "platforms available for installation",
		args:        constant("platform", "list"),
		extractor:   fixed(extract.Platforms),
	},
	{
		Name:        "key",
		Noun:        "keys",
		Description: "ids of keys in the tlmgr keyring",
		args:        constant("key", "list"),
		extractor:   fixed(extract.KeyIDs),
	},
	{
		Name:        "option",
		Noun:        "options",
		Description: "names of tlmgr options",
		args:        constant("option", "showall"),
		extractor:   fixed(extract.OptionKeys),
	},
	{
		Name:        "conf",
		Noun:        "configuration keys",
		Description: "keys set in a configuration file",
		Qualifiers:  []string{"texmf", "tlmgr"},
		Required:    true,
		args:        func(file string) []string { return []string{"conf", file} },
		extractor:   fixed(extract.ConfigKeys),
	},
	{
		Name:        "repository",
		Noun:        "repositories",
		Description: "the default package repository",
		args:        constant("option", "repository"),
		extractor: func(cfg config.Config) extract.Func {
			return extract.DefaultRepository(cfg.RepositoryLabel)
		},
	},
	{
		Name:        "action",
		Noun:        "actions",
		Description: "tlmgr actions, from its help text",
		args:        constant("help"),
		extractor:   fixed(extract.Actions),
	},
	{
		Name:        "generate",
		Noun:        "generate targets",
		Description: "files tlmgr generate can write",
		static:      static("language", "language.dat", "language.def", "language.dat.lua"),
	},
	{
		Name:        "verify",
		Noun:        "verification modes",
		Description: "values for --verify-repo",
		static:      static("none", "main", "all"),
	},
	{
		Name:        "gui-lang",
		Noun:        "languages",
		Description: "languages for --gui-lang",
		static: static("bg", "cs", "de", "en", "es", "fr", "it", "ja", "nl", "pl",
			"pt_BR", "ru", "sk", "sl", "sr", "uk", "vi", "zh_CN", "zh_TW"),
	},
}

// Kinds returns every known kind, sorted by name
func Kinds() []Kind {
	sorted := append([]Kind{}, kinds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// KindNames returns the name of every known kind, sorted
func KindNames() []string {
	return lo.Map(Kinds(), func(k Kind, _ int) string { return k.Name })
}

// Lookup finds a kind by name
func Lookup(name string) (Kind, bool) {
	return lo.Find(kinds, func(k Kind) bool { return k.Name == name })
}
