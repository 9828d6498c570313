// Package lsystem expands L-system grammars.
//
// An L-system is an axiom string plus a set of production rules, each mapping
// a single symbol to a replacement string. One generation rewrites every
// symbol of the previous generation simultaneously: the scan emits each
// symbol's replacement (or the symbol itself when it has no rule) and never
// re-scans freshly emitted text. Rule keys that appear inside a replacement
// are expanded in the next generation, not the current one.
//
// # Levels
//
// Levels are 1-based. Level 1 is the axiom itself; level n is the result of
// n-1 rewrite passes:
//
//	rules := lsystem.Rules{'F': "F+G", 'G': "F-G"}
//	lsystem.Expand("F", rules, 1) // "F"
//	lsystem.Expand("F", rules, 2) // "F+G"
//	lsystem.Expand("F", rules, 3) // "F+G+F-G"
//
// # Resource Bounds
//
// Output length grows geometrically with the level. [Expand] computes the
// exact length of each generation before allocating it and fails with
// RESOURCE_EXHAUSTED once the length would pass the bound set by
// [WithMaxLength]. [Length] and [CountSymbols] answer size questions from
// per-symbol count vectors without materializing anything, and [Stream]
// produces the symbols of a level lazily with memory proportional to the
// level rather than to the output.
package lsystem
