// Package assignment resolves the merge plan: which language's recording and
// which subtitle language serve each cataloged line. The plan is computed once,
// before any stage mutates anything, so every downstream stage works from the
// same immutable assignment.
package assignment
