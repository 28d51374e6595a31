package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prints two platforms, whatever arguments it's given
const platformScript = `sh -c 'printf "Available platforms:\n    win64\n    x86_64-linux\n"'`

type testEnv struct {
	config   string // config file path
	cacheDir string
}

func newTestEnv(t *testing.T, extraConfig string) testEnv {
	dir := t.TempDir()
	env := testEnv{
		config:   filepath.Join(dir, "config.yml"),
		cacheDir: filepath.Join(dir, "cache"),
	}
	yml := "cache_dir: " + env.cacheDir + "\n" + extraConfig
	require.NoError(t, os.WriteFile(env.config, []byte(yml), 0644))
	return env
}

func (e testEnv) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	status := Execute(append([]string{"--config", e.config}, args...), &stdout, &stderr)
	return status, stdout.String(), stderr.String()
}

func requireSh(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh available")
	}
}

func TestKindsCommand(t *testing.T) {
	env := newTestEnv(t, "")
	status, stdout, _ := env.run("kinds")
	assert.Equal(t, 0, status)
	assert.Contains(t, stdout, "conf ")
	assert.Contains(t, stdout, "<texmf|tlmgr>")
	assert.Contains(t, stdout, "[context|dvipdfmx|dvips|pdftex|psutils|xdvi]")
	assert.Equal(t, 10, strings.Count(stdout, "\n"))
}

func TestCompleteStatic(t *testing.T) {
	env := newTestEnv(t, "tlmgr: tlmgr-complete-not-installed\n")

	status, stdout, stderr := env.run("complete", "verify")
	assert.Equal(t, 0, status)
	assert.Equal(t, "none\nmain\nall\n", stdout)
	assert.Empty(t, stderr)

	status, stdout, _ = env.run("complete", "--match", "zh", "gui-lang")
	assert.Equal(t, 0, status)
	assert.Equal(t, "zh_CN\nzh_TW\n", stdout)
}

func TestCompleteFetchesAndCaches(t *testing.T) {
	requireSh(t)
	env := newTestEnv(t, "")

	status, stdout, stderr := env.run("--tlmgr", platformScript, "complete", "platform")
	assert.Equal(t, 0, status, stderr)
	assert.Equal(t, "win64\nx86_64-linux\n", stdout)

	_, err := os.Stat(filepath.Join(env.cacheDir, "tlmgr-platform-cache"))
	assert.NoError(t, err, "list is cached on disk")

	status, stdout, _ = env.run("--tlmgr", "false", "complete", "--format", "bash", "platform")
	assert.Equal(t, 0, status)
	assert.Equal(t, "win64\nx86_64-linux\n", stdout, "served from the cache")

	status, stdout, _ = env.run("cache", "list")
	assert.Equal(t, 0, status)
	assert.Contains(t, stdout, "tlmgr-platform-cache")
	assert.Contains(t, stdout, "fresh")
}

func TestCompleteSQLiteBackend(t *testing.T) {
	requireSh(t)
	env := newTestEnv(t, "cache_backend: sqlite\n")

	status, stdout, _ := env.run("--tlmgr", platformScript, "complete", "platform")
	assert.Equal(t, 0, status)
	assert.Equal(t, "win64\nx86_64-linux\n", stdout)

	_, err := os.Stat(filepath.Join(env.cacheDir, "cache.db"))
	assert.NoError(t, err)

	status, stdout, _ = env.run("--tlmgr", "false", "complete", "platform")
	assert.Equal(t, 0, status)
	assert.Equal(t, "win64\nx86_64-linux\n", stdout, "served from the cache")
}

func TestCompleteNothingToOffer(t *testing.T) {
	requireSh(t)
	env := newTestEnv(t, "")

	for desc, tlmgr := range map[string]string{
		"empty output":  "true",
		"failed run":    "false",
		"missing tlmgr": "tlmgr-complete-not-installed",
	} {
		status, stdout, stderr := env.run("--tlmgr", tlmgr, "complete", "platform")
		assert.Equal(t, 1, status, desc)
		assert.Empty(t, stdout, desc)
		assert.Equal(t, "no platforms found\n", stderr, desc)
	}

	_, err := os.Stat(filepath.Join(env.cacheDir, "tlmgr-platform-cache"))
	assert.True(t, os.IsNotExist(err), "nothing is cached")
}

func TestCompleteJSON(t *testing.T) {
	env := newTestEnv(t, "tlmgr: tlmgr-complete-not-installed\n")

	status, stdout, _ := env.run("complete", "--format", "json", "verify")
	assert.Equal(t, 0, status)

	var doc struct {
		Kind       string `json:"kind"`
		Status     string `json:"status"`
		Candidates []struct {
			Value string `json:"value"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "verify", doc.Kind)
	assert.Equal(t, "success", doc.Status)
	assert.Len(t, doc.Candidates, 3)

	status, stdout, stderr := env.run("complete", "--format", "json", "key")
	assert.Equal(t, 1, status)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, `"status":"failure"`)
	assert.Contains(t, stdout, `"message":"no keys found"`)
}

func TestCompleteInvalidRequests(t *testing.T) {
	env := newTestEnv(t, "")

	status, stdout, stderr := env.run("complete", "nope")
	assert.Equal(t, 1, status)
	assert.Empty(t, stdout)
	assert.Equal(t, "unknown kind \"nope\"\n", stderr)

	status, _, stderr = env.run("complete", "--format", "fish", "verify")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "unknown format")

	status, _, stderr = env.run("complete")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "accepts between 1 and 2 arg(s)")
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, "cache_backend: redis\n")

	status, stdout, stderr := env.run("complete", "verify")
	assert.Equal(t, 1, status)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "could not load config")

	env = newTestEnv(t, "")
	status, _, stderr = env.run("--ttl=-1h", "complete", "verify")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "cache_ttl")
}

func TestHelpdocCommand(t *testing.T) {
	help, err := os.Open("../pkg/helpdoc/testdata/help.txt")
	require.NoError(t, err)
	defer help.Close()

	dir := t.TempDir()
	numbers := filepath.Join(dir, "section_numbers.txt")

	var stdout bytes.Buffer
	root := NewRootCmd()
	root.SetArgs([]string{"helpdoc", "--dir", filepath.Join(dir, "sections"), "--numbers", numbers})
	root.SetIn(help)
	root.SetOut(&stdout)
	require.NoError(t, root.Execute())

	assert.Contains(t, stdout.String(), "for 7 actions")
	assert.FileExists(t, filepath.Join(dir, "sections", "options.txt"))
	assert.FileExists(t, filepath.Join(dir, "sections", "actions", "paper.txt"))
	assert.FileExists(t, numbers)

	root = NewRootCmd()
	root.SetArgs([]string{"helpdoc", "--dir", dir})
	root.SetIn(strings.NewReader("not help text\n"))
	assert.Error(t, root.Execute())
}

func TestCompleteKindArgs(t *testing.T) {
	completions, directive := completeKindArgs(nil, nil, "p")
	assert.Equal(t, []string{"paper\tpaper sizes, for all programs or just one", "platform\tplatforms available for installation"}, completions)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	completions, _ = completeKindArgs(nil, []string{"conf"}, "")
	assert.Equal(t, []string{"texmf", "tlmgr"}, completions)

	completions, _ = completeKindArgs(nil, []string{"paper"}, "dvi")
	assert.Equal(t, []string{"dvipdfmx", "dvips"}, completions)

	completions, _ = completeKindArgs(nil, []string{"nope"}, "")
	assert.Empty(t, completions)

	completions, _ = completeKindArgs(nil, []string{"conf", "texmf"}, "")
	assert.Empty(t, completions)
}
