package curve

// Value is a per-level quantity that is either a constant or a formula of
// the level. The zero Value is the constant zero of T.
type Value[T any] struct {
	constant T
	formula  func(level int) T
}

// Constant returns a Value that evaluates to v at every level.
func Constant[T any](v T) Value[T] {
	return Value[T]{constant: v}
}

// Formula returns a Value computed by f. f must be total for level >= 1.
func Formula[T any](f func(level int) T) Value[T] {
	return Value[T]{formula: f}
}

// At evaluates the value at level.
func (v Value[T]) At(level int) T {
	if v.formula != nil {
		return v.formula(level)
	}
	return v.constant
}

// IsFormula reports whether the value depends on the level.
func (v Value[T]) IsFormula() bool {
	return v.formula != nil
}

// Point is a position in the plane.
type Point struct {
	X, Y float64
}

// Pose is a pen position plus heading in degrees
// (0 = east, counter-clockwise positive).
type Pose struct {
	X, Y    float64
	Heading float64
}
