// Package report renders parsed transcripts into bounded-size reports.
package report

// DefaultMaxBytes is the default report budget: 1,000 KiB, leaving headroom
// below the 1,024 KiB platform ceiling for step summaries.
const DefaultMaxBytes = 1024000

// OverflowWarning is appended, bypassing the budget, when a renderer runs
// out of bytes. It must always be visible, so it is never gated.
const OverflowWarning = "\n\n⚠️ Report truncated: size limit reached\n"

// Budget is a stateful byte-budget accumulator. Every renderer consults it
// before emitting content; once exhausted it vetoes all further writes for
// the remainder of the pass. Not safe for concurrent use: each render pass
// owns its own Budget.
type Budget struct {
	current   int
	max       int
	exhausted bool
}

// NewBudget creates a budget with the given ceiling in bytes. A zero or
// negative max falls back to DefaultMaxBytes.
func NewBudget(max int) *Budget {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	return &Budget{max: max}
}

// Add reserves the UTF-8 byte length of candidate. It returns false, without
// mutating the running total, if the candidate would push the total past the
// ceiling; exhaustion is sticky for the rest of the pass.
func (b *Budget) Add(candidate string) bool {
	if b.exhausted {
		return false
	}
	n := len(candidate)
	if b.current+n > b.max {
		b.exhausted = true
		return false
	}
	b.current += n
	return true
}

// Exhausted reports whether the budget has been exceeded.
func (b *Budget) Exhausted() bool { return b.exhausted }

// Bytes returns the number of bytes consumed so far.
func (b *Budget) Bytes() int { return b.current }

// Max returns the ceiling in bytes.
func (b *Budget) Max() int { return b.max }
