package curve

import (
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/lsystem"
)

// Descriptor is the immutable definition of one curve: its grammar, turn
// angle and the level-indexed geometry that keeps the drawing centred.
//
// Position is expressed as a fraction of the canvas size, relative to the
// canvas centre: (-0.5, 0) starts half a canvas left of centre. Scale is the
// idealised number of segments spanning the footprint at a level; the step
// length is canvasSize / Scale(level). Position and Scale are derived
// together so the curve stays centred at every level.
//
// Descriptors are shared; callers must not modify them.
type Descriptor struct {
	Name     string
	Axiom    string
	Rules    lsystem.Rules
	Angle    float64 // turn angle in degrees
	Heading  Value[float64]
	Position Value[Point]
	Scale    Value[float64]

	// Draw, Move and Stamp list the symbols of each class.
	// Empty means DefaultDraw, DefaultMove and DefaultStamp.
	Draw  string
	Move  string
	Stamp string
}

// Geometry is a descriptor resolved for one level and canvas size.
type Geometry struct {
	Start Pose
	Step  float64 // forward distance per draw or move symbol
	Angle float64 // turn magnitude per '+' or '-'
}

// Resolve evaluates the descriptor's geometry for level on a canvas of the
// given size.
func (d *Descriptor) Resolve(level int, canvasSize float64) (Geometry, error) {
	if err := errors.ValidateLevel(level, 0); err != nil {
		return Geometry{}, err
	}
	if err := errors.ValidatePositive("canvas size", canvasSize); err != nil {
		return Geometry{}, err
	}
	scale := d.Scale.At(level)
	if err := errors.ValidatePositive(d.Name+" scale", scale); err != nil {
		return Geometry{}, err
	}
	pos := d.Position.At(level)
	heading := d.Heading.At(level)
	for _, v := range []struct {
		field string
		value float64
	}{{"x", pos.X}, {"y", pos.Y}, {"heading", heading}} {
		if err := errors.ValidateFinite(d.Name+" "+v.field, v.value); err != nil {
			return Geometry{}, err
		}
	}
	return Geometry{
		Start: Pose{X: pos.X * canvasSize, Y: pos.Y * canvasSize, Heading: heading},
		Step:  canvasSize / scale,
		Angle: d.Angle,
	}, nil
}

// Table returns the symbol classification used by the interpreter.
func (d *Descriptor) Table() OpTable {
	var t OpTable
	t[SymTurnRight] = OpTurnRight
	t[SymTurnLeft] = OpTurnLeft
	t[SymPush] = OpPush
	t[SymPop] = OpPop
	for _, c := range []byte(d.stampSymbols()) {
		t[c] = OpStamp
	}
	for _, c := range []byte(d.moveSymbols()) {
		t[c] = OpMove
	}
	for _, c := range []byte(d.drawSymbols()) {
		t[c] = OpDraw
	}
	return t
}

// Classify returns the Op bound to sym. It agrees with [Descriptor.Table]
// without building it; loops over many symbols should use Table.
func (d *Descriptor) Classify(sym byte) Op {
	switch {
	case strings.IndexByte(d.drawSymbols(), sym) >= 0:
		return OpDraw
	case strings.IndexByte(d.moveSymbols(), sym) >= 0:
		return OpMove
	case strings.IndexByte(d.stampSymbols(), sym) >= 0:
		return OpStamp
	}
	switch sym {
	case SymTurnRight:
		return OpTurnRight
	case SymTurnLeft:
		return OpTurnLeft
	case SymPush:
		return OpPush
	case SymPop:
		return OpPop
	}
	return OpNoop
}

func (d *Descriptor) drawSymbols() string  { return orDefault(d.Draw, DefaultDraw) }
func (d *Descriptor) moveSymbols() string  { return orDefault(d.Move, DefaultMove) }
func (d *Descriptor) stampSymbols() string { return orDefault(d.Stamp, DefaultStamp) }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Expand returns the symbol string for level.
func (d *Descriptor) Expand(level int, opts ...lsystem.Option) (string, error) {
	return lsystem.Expand(d.Axiom, d.Rules, level, opts...)
}

// Stream returns the symbols for level lazily.
func (d *Descriptor) Stream(level int, opts ...lsystem.Option) (iter.Seq[byte], error) {
	return lsystem.Stream(d.Axiom, d.Rules, level, opts...)
}

// DrawCount returns the number of drawing symbols at level.
func (d *Descriptor) DrawCount(level int, opts ...lsystem.Option) (int, error) {
	counts, err := lsystem.CountSymbols(d.Axiom, d.Rules, level, opts...)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range []byte(d.drawSymbols()) {
		n += counts[c]
	}
	return n, nil
}

// Validate reports configuration defects: missing fields, overlapping or
// reserved symbol classes, unbalanced brackets and a non-positive scale.
func (d *Descriptor) Validate() error {
	if err := errors.ValidateCurveName(d.Name); err != nil {
		return err
	}
	if d.Axiom == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s: axiom cannot be empty", d.Name)
	}
	if err := errors.ValidateFinite(d.Name+" angle", d.Angle); err != nil {
		return err
	}
	if err := d.validateSymbols(); err != nil {
		return err
	}
	if err := lsystem.CheckBalance(d.Axiom, d.Rules); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedGrammar, err, "%s", d.Name)
	}
	if _, err := d.Resolve(1, 1); err != nil {
		return err
	}
	return nil
}

func (d *Descriptor) validateSymbols() error {
	var owner [256]string
	for _, c := range []byte{SymTurnRight, SymTurnLeft, SymPush, SymPop} {
		owner[c] = "reserved"
	}
	classes := []struct{ name, symbols string }{
		{"draw", d.drawSymbols()},
		{"move", d.moveSymbols()},
		{"stamp", d.stampSymbols()},
	}
	for _, cl := range classes {
		for _, c := range []byte(cl.symbols) {
			if owner[c] != "" {
				return errors.New(errors.ErrCodeInvalidInput,
					"%s: %s symbol %q already used as %s", d.Name, cl.name, c, owner[c])
			}
			owner[c] = cl.name
		}
	}
	return nil
}

// Slug returns a lowercase, ASCII, dash-separated identifier for the curve,
// without a leading article: "The Sierpiński curve" becomes "sierpinski-curve".
func (d *Descriptor) Slug() string {
	return Slugify(d.Name)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a curve name to its slug.
func Slugify(name string) string {
	ascii, _, err := transform.String(stripMarks, name)
	if err != nil {
		ascii = name
	}
	ascii = strings.ToLower(strings.TrimSpace(ascii))
	ascii = strings.TrimPrefix(ascii, "the ")

	var b strings.Builder
	dash := false
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
