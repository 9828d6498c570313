package lsystem

import (
	"iter"

	"github.com/matzehuels/fractaldraw/pkg/errors"
)

// Stream returns the symbols of generation level one at a time.
//
// The sequence is identical to the string returned by [Expand] but is
// produced depth-first without materializing any generation, so memory use
// is proportional to level. Stream does not apply the length bound: it is
// the mode for depths whose output would not fit in memory.
func Stream(axiom string, rules Rules, level int, opts ...Option) (iter.Seq[byte], error) {
	cfg := newConfig(opts)
	if err := errors.ValidateLevel(level, cfg.maxLevel); err != nil {
		return nil, err
	}
	t := newTable(rules)

	return func(yield func(byte) bool) {
		t.emit(axiom, level-1, yield)
	}, nil
}

// emit yields the expansion of s after depth further passes.
// It returns false once yield has asked to stop.
func (t *table) emit(s string, depth int, yield func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if depth > 0 && t.has[c] {
			if !t.emit(t.repl[c], depth-1, yield) {
				return false
			}
			continue
		}
		if !yield(c) {
			return false
		}
	}
	return true
}
