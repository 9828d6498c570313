package lsystem

import (
	"slices"
	"unicode/utf8"

	"github.com/matzehuels/fractaldraw/pkg/errors"
)

const (
	// DefaultMaxLength bounds the number of symbols a single generation may
	// hold (16 Mi symbols, i.e. 16 MiB of string data).
	DefaultMaxLength = 1 << 24

	// DefaultMaxLevel bounds the level accepted by Expand, Stream and the
	// counting functions.
	DefaultMaxLevel = 32
)

// Rules maps a single symbol to its replacement string.
// Symbols without an entry are rewritten to themselves.
type Rules map[byte]string

// Keys returns the rule keys in ascending order.
func (r Rules) Keys() []byte {
	keys := make([]byte, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a copy of r.
func (r Rules) Clone() Rules {
	out := make(Rules, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ParseRules converts string-keyed rules (as found in config files) into
// Rules. Every key must be exactly one ASCII symbol.
func ParseRules(m map[string]string) (Rules, error) {
	out := make(Rules, len(m))
	for k, v := range m {
		if len(k) != 1 || k[0] >= utf8.RuneSelf {
			return nil, errors.New(errors.ErrCodeInvalidInput, "rule key %q must be a single ASCII symbol", k)
		}
		if !isASCII(v) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "rule %q has non-ASCII replacement %q", k, v)
		}
		out[k[0]] = v
	}
	return out, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// table is a dense lookup form of Rules.
type table struct {
	has  [256]bool
	repl [256]string
}

func newTable(r Rules) *table {
	t := &table{}
	for k, v := range r {
		t.has[k] = true
		t.repl[k] = v
	}
	return t
}

// Option configures expansion limits.
type Option func(*config)

type config struct {
	maxLength int
	maxLevel  int
}

// WithMaxLength sets the maximum number of symbols a generation may hold.
// Values <= 0 are ignored.
func WithMaxLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// WithMaxLevel sets the maximum accepted level. Values <= 0 are ignored.
func WithMaxLevel(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLevel = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{maxLength: DefaultMaxLength, maxLevel: DefaultMaxLevel}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
