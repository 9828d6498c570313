package curve

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/lsystem"
)

// Catalog is an ordered, validated collection of descriptors.
type Catalog struct {
	curves []*Descriptor
	bySlug map[string]*Descriptor
}

// NewCatalog validates ds and indexes them by slug.
// Duplicate slugs are rejected.
func NewCatalog(ds ...*Descriptor) (*Catalog, error) {
	c := &Catalog{bySlug: make(map[string]*Descriptor, len(ds))}
	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		slug := d.Slug()
		if _, dup := c.bySlug[slug]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate curve %q", slug)
		}
		c.bySlug[slug] = d
		c.curves = append(c.curves, d)
	}
	return c, nil
}

// With returns a new catalog holding c's curves followed by ds.
func (c *Catalog) With(ds ...*Descriptor) (*Catalog, error) {
	all := append(append([]*Descriptor(nil), c.curves...), ds...)
	return NewCatalog(all...)
}

// All returns the curves in catalog order.
func (c *Catalog) All() []*Descriptor {
	return append([]*Descriptor(nil), c.curves...)
}

// Names returns the curve names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.curves))
	for i, d := range c.curves {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of curves.
func (c *Catalog) Len() int { return len(c.curves) }

// ByIndex returns the curve at 1-based position n.
func (c *Catalog) ByIndex(n int) (*Descriptor, error) {
	if n < 1 || n > len(c.curves) {
		return nil, errors.New(errors.ErrCodeNotFound, "no curve %d (have 1-%d)", n, len(c.curves))
	}
	return c.curves[n-1], nil
}

// Lookup finds a curve by 1-based index, slug or case-insensitive name.
func (c *Catalog) Lookup(key string) (*Descriptor, error) {
	key = strings.TrimSpace(key)
	if n, err := strconv.Atoi(key); err == nil {
		return c.ByIndex(n)
	}
	if d, ok := c.bySlug[Slugify(key)]; ok {
		return d, nil
	}
	for _, d := range c.curves {
		if strings.EqualFold(d.Name, key) {
			return d, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "unknown curve %q", key)
}

// Builtin returns the catalog of built-in curves.
var Builtin = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(builtins()...)
	if err != nil {
		panic("curve: invalid builtin catalog: " + err.Error())
	}
	return c
})

func pow(base float64, exp int) float64 { return math.Pow(base, float64(exp)) }

func builtins() []*Descriptor {
	kochRule := lsystem.Rules{'F': "F-F++F-F"}
	minkowskiRule := lsystem.Rules{'F': "F+F-F-FF+F+F-F"}

	return []*Descriptor{
		{
			Name:     "The Koch snowflake",
			Axiom:    "F++F++F++",
			Rules:    kochRule,
			Angle:    60,
			Position: Constant(Point{-1.0 / 2, 1.0 / 3}),
			Scale:    Formula(func(l int) float64 { return pow(3, l-1) }),
		},
		{
			Name:     "The quadratic Koch curve",
			Axiom:    "F",
			Rules:    lsystem.Rules{'F': "F-F+F+F-F"},
			Angle:    90,
			Position: Constant(Point{-1.0 / 2, 0}),
			Scale:    Formula(func(l int) float64 { return pow(3, l-1) }),
		},
		{
			Name:     "The Cesàro fractal",
			Axiom:    "F++",
			Rules:    kochRule,
			Angle:    75.52,
			Position: Constant(Point{-1.0 / 2, 0}),
			Scale:    Formula(func(l int) float64 { return pow(2.5, l-1) }),
		},
		{
			Name:     "The Minkowski sausage",
			Axiom:    "F",
			Rules:    minkowskiRule,
			Angle:    90,
			Position: Constant(Point{-1.0 / 2, 0}),
			Scale:    Formula(func(l int) float64 { return pow(4, l-1) }),
		},
		{
			Name:     "The Minkowski island",
			Axiom:    "F+F+F+F+",
			Rules:    minkowskiRule,
			Angle:    90,
			Position: Constant(Point{-1.0 / 2, 1.0 / 2}),
			Scale:    Formula(func(l int) float64 { return pow(4, l-1) }),
		},
		{
			Name:     "The Hilbert curve",
			Axiom:    "-BF+AFA+FB-",
			Rules:    lsystem.Rules{'A': "-BF+AFA+FB-", 'B': "+AF-BFB-FA+"},
			Angle:    90,
			Position: Constant(Point{-1.0 / 2, -1.0 / 2}),
			Scale:    Formula(func(l int) float64 { return pow(2, l) - 1 }),
		},
		{
			Name:     "The dragon curve",
			Axiom:    "F",
			Rules:    lsystem.Rules{'F': "F-G", 'G': "F+G"},
			Angle:    90,
			Draw:     "FG",
			Position: Constant(Point{0, 0}),
			Scale:    Formula(func(l int) float64 { return math.Sqrt2 * math.Pow(float64(l), math.Sqrt2) }),
		},
		{
			Name:     "The Sierpiński triangle",
			Axiom:    "F-G-G",
			Rules:    lsystem.Rules{'F': "F-G+F+G-F", 'G': "GG"},
			Angle:    120,
			Draw:     "FG",
			Position: Constant(Point{-1.0 / 2, -1.0 / 3}),
			Scale:    Formula(func(l int) float64 { return pow(2, l-1) }),
		},
		{
			Name:     "The Sierpiński curve",
			Axiom:    "F++XF++F++XF",
			Rules:    lsystem.Rules{'X': "XF-G-XF++F++XF-G-X"},
			Angle:    45,
			Draw:     "FG",
			Position: Formula(func(l int) Point { return Point{-1 / (2 * sierpinskiSpan(l)), 1.0 / 2} }),
			Scale:    Formula(sierpinskiSpan),
		},
		{
			Name:     "The Sierpiński square curve",
			Axiom:    "F+XF+F+XF",
			Rules:    lsystem.Rules{'X': "XF-F+F-XF+F+XF-F+F-X"},
			Angle:    90,
			Position: Formula(func(l int) Point { return Point{-2 / squareSpan(l), 1.0 / 2} }),
			Scale:    Formula(squareSpan),
		},
		{
			Name:     "The Sierpiński arrowhead curve",
			Axiom:    "XF",
			Rules:    lsystem.Rules{'X': "YF+XF+Y", 'Y': "XF-YF-X"},
			Angle:    60,
			Position: Constant(Point{-1.0 / 2, -1.0 / 3}),
			Heading: Formula(func(l int) float64 {
				if l%2 == 0 {
					return 60
				}
				return 0
			}),
			Scale: Formula(func(l int) float64 { return pow(2, l-1) }),
		},
		{
			Name:     "The Gosper curve",
			Axiom:    "F",
			Rules:    lsystem.Rules{'F': "F+G++G-F--FF-G+", 'G': "-F+GG++G+F--F-G"},
			Angle:    60,
			Draw:     "FG",
			Position: Constant(Point{0, 1.0 / 4}),
			Scale:    Formula(func(l int) float64 { return math.Pow(math.Sqrt(7), float64(l)) }),
		},
		{
			Name:     "The Moore curve",
			Axiom:    "LFL+F+LFL",
			Rules:    lsystem.Rules{'L': "-RF+LFL+FR-", 'R': "+LF-RFR-FL+"},
			Angle:    90,
			Heading:  Constant(90.0),
			Position: Formula(func(l int) Point { return Point{-2 / (pow(2, l) - 1), -1.0 / 2} }),
			Scale:    Formula(func(l int) float64 { return pow(2, l) - 1 }),
		},
		{
			Name:  "The Peano curve",
			Axiom: "XFYFX+F+YFXFY-F-XFYFX",
			Rules: lsystem.Rules{
				'X': "XFYFX+F+YFXFY-F-XFYFX",
				'Y': "YFXFY-F-XFYFX+F+YFXFY",
			},
			Angle:    90,
			Heading:  Constant(90.0),
			Position: Constant(Point{-1.0 / 2, -1.0 / 2}),
			Scale:    Formula(func(l int) float64 { return pow(3, l) - 1 }),
		},
		{
			Name:     "Fractal (binary) tree",
			Axiom:    "FS",
			Rules:    lsystem.Rules{'F': "G[-FS]+F", 'G': "GG"},
			Angle:    45,
			Draw:     "FG",
			Heading:  Constant(90.0),
			Position: Constant(Point{0, -1.0 / 2}),
			Scale:    Formula(func(l int) float64 { return pow(2, l-1) * (2 + math.Sqrt2) / 3 }),
		},
		{
			Name:     "Fractal plant",
			Axiom:    "-X",
			Rules:    lsystem.Rules{'F': "FF", 'X': "F+[[X]-X]-F[-FX]+X"},
			Angle:    45,
			Position: Constant(Point{-1.0 / 2, -1.0 / 2}),
			Scale:    Formula(func(l int) float64 { return float64((l-1)*(l-1) + 1) }),
		},
	}
}

// sierpinskiSpan is the width of the closed Sierpiński curve in steps.
func sierpinskiSpan(l int) float64 {
	return (pow(2, l)-2)*(1+math.Sqrt2) + 1
}

// squareSpan is the width of the Sierpiński square curve in steps.
func squareSpan(l int) float64 {
	return pow(2, l+1) - 3
}
