// Package value provides the dynamically-typed value model fingerprinted by
// the drift engine.
//
// This package sits at the bottom of the dependency graph. All other internal
// packages import value; value imports nothing internal.
//
// Key design constraints:
//   - Value is a sealed union; Kind() and Classify are total and never fail
//   - Object key order is never significant; use SortedKeys for iteration
//   - Sequence element order is always significant (including Set members)
//   - Every recursive walk is bounded by a Tracker (depth limit + cycle check)
package value
