// Package visitor offers callback based iteration over maps, slices and structs.
// Map keys are visited in sorted order, struct fields in declaration order, so that
// entry sets built from Go values are deterministic.
package visitor
