package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zerowidth/tlmgr-complete/pkg/shell"
)

func TestFilter(t *testing.T) {
	platforms := shell.Candidates{
		{Value: "x86_64-linux"},
		{Value: "aarch64-linux"},
		{Value: "x86_64-darwinlegacy"},
		{Value: "universal-darwin"},
		{Value: "windows", Description: "Windows, 64-bit"},
	}

	for desc, tc := range map[string]struct {
		word     string
		expected []string
	}{
		"no word keeps everything": {
			word:     "",
			expected: []string{"x86_64-linux", "aarch64-linux", "x86_64-darwinlegacy", "universal-darwin", "windows:Windows, 64-bit"},
		},
		"prefix matches keep their order": {
			word:     "x86",
			expected: []string{"x86_64-linux", "x86_64-darwinlegacy"},
		},
		"fuzzy matching ignores case": {
			word:     "Windows",
			expected: []string{"windows:Windows, 64-bit"},
		},
		"fuzzy match when nothing has the prefix": {
			word:     "a64l",
			expected: []string{"aarch64-linux"},
		},
		"nothing matches": {
			word:     "sparc",
			expected: []string{},
		},
	} {
		t.Run(desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, encode(Filter(platforms, tc.word)))
		})
	}
}
