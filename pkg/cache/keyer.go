package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys from render inputs.
type Keyer interface {
	// ArtifactKey is the key for one rendered level of a curve.
	ArtifactKey(curve string, level int, opts ArtifactKeyOpts) string

	// GrammarKey is the key for a rendered rule graph.
	GrammarKey(curve string, opts GrammarKeyOpts) string
}

// ArtifactKeyOpts holds every input besides curve and level that changes
// the rendered bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Grammar    string  `json:"grammar"` // fingerprint of axiom, rules and angle
	CanvasSize float64 `json:"canvas_size"`
	Margin     float64 `json:"margin"`
	Size       int     `json:"size"`
	Fit        bool    `json:"fit"`
	Palette    string  `json:"palette"`
	Stroke     float64 `json:"stroke,omitempty"`
	Background string  `json:"background,omitempty"`
}

// GrammarKeyOpts holds the rule graph render options.
type GrammarKeyOpts struct {
	Format   string `json:"format"`
	Grammar  string `json:"grammar"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer hashes the inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) ArtifactKey(curve string, level int, opts ArtifactKeyOpts) string {
	return hashKey("artifact", curve, level, opts)
}

func (DefaultKeyer) GrammarKey(curve string, opts GrammarKeyOpts) string {
	return hashKey("grammar", curve, opts)
}

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ScopedKeyer prefixes every key of an inner Keyer, giving each deployment
// its own namespace in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer if inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(curve string, level int, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(curve, level, opts)
}

func (k *ScopedKeyer) GrammarKey(curve string, opts GrammarKeyOpts) string {
	return k.prefix + k.inner.GrammarKey(curve, opts)
}
