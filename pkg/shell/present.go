package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

// Format is an output format understood by a host shell's completion function
type Format string

const (
	// FormatZsh renders "value:description" lines for zsh's _describe
	FormatZsh Format = "zsh"
	// FormatBash renders bare values, one per line, for compgen/COMPREPLY
	FormatBash Format = "bash"
	// FormatJSON renders the whole result as a JSON document
	FormatJSON Format = "json"
)

// Formats lists the supported formats
var Formats = []Format{FormatZsh, FormatBash, FormatJSON}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !lo.Contains(Formats, f) {
		return "", fmt.Errorf("unknown format %q, expected one of %v", s, Formats)
	}
	return f, nil
}

// Present renders a result's candidates to out, preserving their order.
//
// If there are no candidates, it emits the result's diagnostic instead of an
// empty menu and returns ErrNoCandidates. Line formats write the diagnostic
// to diag, the JSON format includes it in the document on out.
func Present(out, diag io.Writer, r *Result, format Format) error {
	if format == FormatJSON {
		if err := json.NewEncoder(out).Encode(r); err != nil {
			return fmt.Errorf("could not generate JSON: %w", err)
		}
		if !r.OK() {
			return ErrNoCandidates
		}
		return nil
	}

	if !r.OK() {
		msg := r.Message
		if len(msg) == 0 {
			msg = NotFound(r.Kind)
		}
		fmt.Fprintln(diag, msg)
		return ErrNoCandidates
	}

	lines := lo.Map(r.Candidates, func(c Candidate, _ int) string {
		if format == FormatBash {
			return c.Value
		}
		return c.String()
	})
	_, err := io.WriteString(out, strings.Join(lines, "\n")+"\n")
	return err
}
