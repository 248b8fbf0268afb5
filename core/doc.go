// Package core holds the identifiers and the error taxonomy shared by the
// split, weights and labels packages.
package core
