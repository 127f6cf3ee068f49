package policy

import (
	"fmt"
	"path"
	"sort"

	"github.com/ppiankov/toolfence/internal/model"
)

// entry pairs a validated glob pattern with its mode and precomputed rank.
type entry struct {
	pattern   string
	mode      model.Mode
	literals  int  // non-wildcard characters
	wildcards int  // wildcard metacharacters (*, ?, [, ])
	exact     bool // no metacharacters at all
}

// Table is an immutable, specificity-ordered policy table mapping glob
// patterns over tool names to modes. Built once at registration; safe for
// concurrent lookups afterwards.
type Table struct {
	entries []entry
}

// NewTable compiles a pattern → mode mapping into a Table. Patterns use
// shell-glob syntax (*, ?, [...]) matched case-sensitively against the full
// bare tool name. Malformed patterns and unknown modes are rejected here so
// misconfiguration surfaces at registration, not on first call.
//
// Resolution order is specificity, not declaration order: an exact literal
// beats any wildcard pattern, more literal characters beat fewer, and ties
// go to the pattern with fewer wildcard metacharacters, then the
// lexicographically smallest pattern.
func NewTable(rules map[string]string) (*Table, error) {
	entries := make([]entry, 0, len(rules))
	for pattern, modeStr := range rules {
		if pattern == "" {
			return nil, fmt.Errorf("empty pattern")
		}
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("malformed pattern %q: %w", pattern, err)
		}
		mode, err := model.ParseMode(modeStr)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		e := entry{pattern: pattern, mode: mode}
		for _, r := range pattern {
			switch r {
			case '*', '?', '[', ']':
				e.wildcards++
			default:
				e.literals++
			}
		}
		e.exact = e.wildcards == 0
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.exact != b.exact {
			return a.exact
		}
		if a.literals != b.literals {
			return a.literals > b.literals
		}
		if a.wildcards != b.wildcards {
			return a.wildcards < b.wildcards
		}
		return a.pattern < b.pattern
	})

	return &Table{entries: entries}, nil
}

// Verdict is the outcome of resolving a tool name against policy.
type Verdict struct {
	Mode    model.Mode
	Pattern string // matching pattern; empty when nothing matched
	Reason  string
}

// Resolve returns the mode of the most specific pattern matching name.
// A name that matches nothing resolves to deny: omission must never
// silently permit a call.
func (t *Table) Resolve(name string) Verdict {
	for _, e := range t.entries {
		if ok, _ := path.Match(e.pattern, name); ok {
			return Verdict{
				Mode:    e.mode,
				Pattern: e.pattern,
				Reason:  fmt.Sprintf("pattern %q", e.pattern),
			}
		}
	}
	return Verdict{Mode: model.Deny, Reason: "no matching pattern"}
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}
