package lsystem

import (
	"github.com/matzehuels/fractaldraw/pkg/errors"
)

// Bracket symbols that save and restore the pen pose.
const (
	Push byte = '['
	Pop  byte = ']'
)

// CheckBalance verifies that every generation of (axiom, rules) has balanced
// brackets. It checks the axiom and every rule reachable from it; when each
// of those strings is balanced on its own, so is every expansion.
//
// A violation is reported as MALFORMED_GRAMMAR naming the offending string.
func CheckBalance(axiom string, rules Rules) error {
	if _, ok := rules[Push]; ok {
		return errors.New(errors.ErrCodeMalformedGrammar, "bracket %q cannot be rewritten", Push)
	}
	if _, ok := rules[Pop]; ok {
		return errors.New(errors.ErrCodeMalformedGrammar, "bracket %q cannot be rewritten", Pop)
	}
	if err := balanced(axiom); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedGrammar, err, "axiom %q", axiom)
	}
	for _, k := range Reachable(axiom, rules) {
		if err := balanced(rules[k]); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedGrammar, err, "rule %c -> %q", k, rules[k])
		}
	}
	return nil
}

func balanced(s string) error {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Push:
			depth++
		case Pop:
			depth--
			if depth < 0 {
				return errors.New(errors.ErrCodeStackUnderflow, "unmatched %q at offset %d", Pop, i)
			}
		}
	}
	if depth != 0 {
		return errors.New(errors.ErrCodeMalformedGrammar, "%d unclosed %q", depth, Push)
	}
	return nil
}

// Reachable returns, in ascending order, the rule keys that can occur in
// some generation of (axiom, rules).
func Reachable(axiom string, rules Rules) []byte {
	var seen [256]bool
	queue := []string{axiom}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for i := 0; i < len(s); i++ {
			c := s[i]
			r, ok := rules[c]
			if !ok || seen[c] {
				continue
			}
			seen[c] = true
			queue = append(queue, r)
		}
	}

	var out []byte
	for c, ok := range seen {
		if ok {
			out = append(out, byte(c))
		}
	}
	return out
}
