package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoCandidates is returned by Present when there was nothing to offer, so
// the host shell can fall back to its own completion.
var ErrNoCandidates = errors.New("no candidates")

// Candidate is a single completion suggestion
type Candidate struct {
	Value       string `json:"value"`                 // the text inserted on the command line
	Description string `json:"description,omitempty"` // optional, shown next to the value
}

// String renders a candidate the way zsh's _describe expects it: "value" or
// "value:description", with colons and backslashes in the value escaped.
func (c Candidate) String() string {
	value := valueEscaper.Replace(c.Value)
	if len(c.Description) == 0 {
		return value
	}
	return value + ":" + c.Description
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`)

// ParseCandidate is the inverse of Candidate.String.
func ParseCandidate(s string) Candidate {
	var value strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && (s[i+1] == ':' || s[i+1] == '\\'):
			value.WriteByte(s[i+1])
			i++
		case s[i] == ':':
			return Candidate{Value: value.String(), Description: s[i+1:]}
		default:
			value.WriteByte(s[i])
		}
	}
	return Candidate{Value: value.String()}
}

// Candidates is an ordered list of candidates. Order is significant, it's the
// order of the completion menu.
type Candidates []Candidate

// Status is the outcome of a completion request
type Status int

const (
	// StatusSuccess means there is at least one candidate
	StatusSuccess Status = iota
	// StatusEmpty means the data was retrieved but held no candidates
	StatusEmpty
	// StatusFailure means the data could not be retrieved at all
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFailure:
		return "failure"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON renders the status by name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Result is the final result of a completion request
type Result struct {
	Kind       string     `json:"kind"`
	Status     Status     `json:"status"`
	Message    string     `json:"message,omitempty"` // diagnostic for an empty or failed result
	Candidates Candidates `json:"candidates"`
}

// NewResult provides an initialized Result for the named kind, with the
// required (but empty) Candidates list
func NewResult(kind string) *Result {
	return &Result{Kind: kind, Candidates: Candidates{}}
}

// AppendCandidates is shorthand for adding more candidates to a Result
func (r *Result) AppendCandidates(cs ...Candidate) {
	r.Candidates = append(r.Candidates, cs...)
}

// Fail marks the result as failed with the given diagnostic
func (r *Result) Fail(msg string) {
	r.Status = StatusFailure
	r.Message = msg
}

// Finalize settles the status once all candidates are in: a result that
// isn't a failure is a success if it has candidates, and empty otherwise.
// Empty and failed results always carry a diagnostic.
func (r *Result) Finalize(noun string) {
	if r.Status != StatusFailure {
		if len(r.Candidates) > 0 {
			r.Status = StatusSuccess
			r.Message = ""
			return
		}
		r.Status = StatusEmpty
	}
	if len(r.Message) == 0 {
		r.Message = NotFound(noun)
	}
}

// OK reports whether the result has anything to offer
func (r *Result) OK() bool {
	return r.Status == StatusSuccess && len(r.Candidates) > 0
}

// NotFound is the diagnostic shown in place of an empty menu
func NotFound(noun string) string {
	return fmt.Sprintf("no %s found", noun)
}
