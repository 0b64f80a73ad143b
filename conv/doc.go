// Package conv converts raw configuration text into typed Go values.
// It provides a scalar converter with a per destination type registry of
// custom conversions and enum names, and a sequence builder producing
// slices, untyped lists, named collections and iter.Seq enumerables.
package conv
