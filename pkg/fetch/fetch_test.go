package fetch

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	name   string   // to record the command run
	args   []string // and its arguments
	stdout string
	err    error
}

func (fr *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	fr.name = name
	fr.args = args
	return []byte(fr.stdout), fr.err
}

func TestNew(t *testing.T) {
	f, err := New("tlmgr", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tlmgr", "platform", "list"}, f.Command("platform", "list"))

	f, err = New(`tlmgr --usermode --repository "/path with spaces/tlnet"`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tlmgr", "--usermode", "--repository", "/path with spaces/tlnet", "key", "list"}, f.Command("key", "list"))

	_, err = New("", nil)
	assert.Error(t, err)

	_, err = New(`tlmgr "unterminated`, nil)
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	f, err := New("tlmgr --usermode", nil)
	require.NoError(t, err)
	runner := &fakeRunner{stdout: "a4\nletter\n"}
	f.WithRunner(runner)

	out := f.Fetch(context.Background(), "paper", "--list")
	assert.Equal(t, Output{Stdout: "a4\nletter\n"}, out)
	assert.Equal(t, "tlmgr", runner.name)
	assert.Equal(t, []string{"--usermode", "paper", "--list"}, runner.args)
}

func TestFetchFailure(t *testing.T) {
	f, err := New("tlmgr", nil)
	require.NoError(t, err)
	f.WithRunner(&fakeRunner{stdout: "partial\n", err: errors.New("boom")})

	out := f.Fetch(context.Background(), "key", "list")
	assert.True(t, out.Failed)
	assert.Equal(t, "boom", out.Reason)
	assert.Equal(t, "partial\n", out.Stdout, "stdout is kept even on failure")
}

func TestFetchRealProcesses(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh available")
	}
	ctx := context.Background()

	f, err := New("sh -c", nil)
	require.NoError(t, err)

	out := f.Fetch(ctx, "echo out; echo err >&2")
	assert.False(t, out.Failed)
	assert.Equal(t, "out\n", out.Stdout, "stderr is discarded")

	out = f.Fetch(ctx, "echo some; exit 3")
	assert.True(t, out.Failed)
	assert.Equal(t, "exited with status 3", out.Reason)
	assert.Equal(t, "some\n", out.Stdout)

	missing, err := New("tlmgr-complete-definitely-not-installed", nil)
	require.NoError(t, err)
	out = missing.Fetch(ctx, "platform", "list")
	assert.True(t, out.Failed)
	assert.Equal(t, "command not found", out.Reason)
	assert.Empty(t, out.Stdout)
}
