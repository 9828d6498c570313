package lsystem

import (
	"strings"

	"github.com/matzehuels/fractaldraw/pkg/errors"
)

// Expand returns generation level of the L-system (axiom, rules).
//
// Level 1 returns axiom unchanged. Each further level applies one
// simultaneous rewrite pass to the previous generation; only that previous
// generation is carried forward.
//
// Expand fails with INVALID_LEVEL if level is outside [1, max level] and with
// RESOURCE_EXHAUSTED, before allocating, if a generation would hold more
// symbols than the configured maximum.
func Expand(axiom string, rules Rules, level int, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	if err := errors.ValidateLevel(level, cfg.maxLevel); err != nil {
		return "", err
	}
	if len(axiom) > cfg.maxLength {
		return "", errors.New(errors.ErrCodeResourceExhausted,
			"axiom has %d symbols, limit is %d", len(axiom), cfg.maxLength)
	}

	t := newTable(rules)
	s := axiom
	for gen := 2; gen <= level; gen++ {
		n, ok := t.nextLength(s, cfg.maxLength)
		if !ok {
			return "", errors.New(errors.ErrCodeResourceExhausted,
				"generation %d would exceed %d symbols", gen, cfg.maxLength)
		}
		s = t.rewrite(s, n)
	}
	return s, nil
}

// Rewrite applies exactly one simultaneous rewrite pass to s.
// Replacement text is emitted verbatim and never re-scanned.
func Rewrite(s string, rules Rules) string {
	t := newTable(rules)
	n, _ := t.nextLength(s, int(^uint(0)>>1))
	return t.rewrite(s, n)
}

// nextLength returns the length of the generation following s.
// It reports false as soon as the running total exceeds limit.
func (t *table) nextLength(s string, limit int) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if t.has[c] {
			n += len(t.repl[c])
		} else {
			n++
		}
		if n > limit {
			return n, false
		}
	}
	return n, true
}

func (t *table) rewrite(s string, size int) string {
	var b strings.Builder
	b.Grow(size)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if t.has[c] {
			b.WriteString(t.repl[c])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
