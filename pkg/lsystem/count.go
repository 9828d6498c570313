package lsystem

import (
	"math"

	"github.com/matzehuels/fractaldraw/pkg/errors"
)

// counts holds the number of occurrences of every byte value.
type counts [256]int

// CountSymbols returns how often each symbol occurs in generation level,
// computed from per-symbol count vectors without building the string.
//
// It fails with RESOURCE_EXHAUSTED if the total would exceed the configured
// maximum length; pass WithMaxLength(math.MaxInt) to count anything that
// fits in an int.
func CountSymbols(axiom string, rules Rules, level int, opts ...Option) (map[byte]int, error) {
	c, err := countVector(axiom, rules, level, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[byte]int)
	for sym, n := range c {
		if n > 0 {
			out[byte(sym)] = n
		}
	}
	return out, nil
}

// Length returns len(Expand(axiom, rules, level)) without materializing
// the expansion. It shares the error behavior of [CountSymbols].
func Length(axiom string, rules Rules, level int, opts ...Option) (int, error) {
	c, err := countVector(axiom, rules, level, opts)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range c {
		total += n
	}
	return total, nil
}

func countVector(axiom string, rules Rules, level int, opts []Option) (counts, error) {
	cfg := newConfig(opts)
	if err := errors.ValidateLevel(level, cfg.maxLevel); err != nil {
		return counts{}, err
	}

	var cur counts
	for i := 0; i < len(axiom); i++ {
		cur[axiom[i]]++
	}
	if len(axiom) > cfg.maxLength {
		return counts{}, errors.New(errors.ErrCodeResourceExhausted,
			"axiom has %d symbols, limit is %d", len(axiom), cfg.maxLength)
	}

	// Occurrence counts of each replacement, computed once.
	repl := make(map[byte]counts, len(rules))
	for k, v := range rules {
		var rc counts
		for i := 0; i < len(v); i++ {
			rc[v[i]]++
		}
		repl[k] = rc
	}

	for gen := 2; gen <= level; gen++ {
		var next counts
		total := 0
		for sym, n := range cur {
			if n == 0 {
				continue
			}
			rc, ok := repl[byte(sym)]
			if !ok {
				next[sym], total = addMul(next[sym], n, 1), addMul(total, n, 1)
				continue
			}
			for d, k := range rc {
				if k == 0 {
					continue
				}
				next[d] = addMul(next[d], n, k)
				total = addMul(total, n, k)
			}
		}
		if total > cfg.maxLength || total == math.MaxInt {
			return counts{}, errors.New(errors.ErrCodeResourceExhausted,
				"generation %d would exceed %d symbols", gen, cfg.maxLength)
		}
		cur = next
	}
	return cur, nil
}

// addMul returns acc + a*b, saturating at math.MaxInt.
func addMul(acc, a, b int) int {
	if a != 0 && b > (math.MaxInt-acc)/a {
		return math.MaxInt
	}
	return acc + a*b
}
