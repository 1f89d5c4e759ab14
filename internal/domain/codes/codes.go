// Package codes allocates human-readable sequential codes such as D-001 or
// EMP-0001.
//
// Allocation reads the most recently created row of an entity class and
// increments its numeric suffix. Two concurrent creates can read the same
// row and compute the same code; nothing here locks. Uniqueness is enforced
// by a unique constraint on every code column, and callers retry the whole
// create transaction when that constraint fires (see guard.RetryOnConflict).
// StrategyCounter removes the race entirely.
package codes

import (
	"math"
	"strconv"
	"strings"
)

type Scheme struct {
	Entity string
	Prefix string
	Width  int
}

var (
	Department  = Scheme{Entity: "department", Prefix: "D-", Width: 3}
	Designation = Scheme{Entity: "designation", Prefix: "DES-", Width: 3}
	Policy      = Scheme{Entity: "policy", Prefix: "P-", Width: 3}
	Employee    = Scheme{Entity: "employee", Prefix: "EMP-", Width: 4}
)

// Format renders n with the scheme prefix, zero padded to at least Width digits.
func (s Scheme) Format(n int) string {
	digits := strconv.Itoa(n)
	if pad := s.Width - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return s.Prefix + digits
}

func (s Scheme) Base() string {
	return s.Format(1)
}

// Parse extracts the numeric suffix. Only <prefix><digits> is accepted, and
// a suffix that cannot be incremented counts as malformed.
func (s Scheme) Parse(code string) (int, bool) {
	if !strings.HasPrefix(code, s.Prefix) {
		return 0, false
	}
	suffix := code[len(s.Prefix):]
	if suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n == math.MaxInt {
		return 0, false
	}
	return n, true
}

// Next returns the code following last. An empty or malformed last code
// yields the base code rather than an error.
func (s Scheme) Next(last string) string {
	n, ok := s.Parse(strings.TrimSpace(last))
	if !ok {
		return s.Base()
	}
	return s.Format(n + 1)
}
