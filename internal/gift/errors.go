// Package gift holds the error taxonomy shared by the GIFT parser and
// exporter. The grammar itself lives in the parser and export subpackages.
package gift

import "errors"

// Parse and export failures are fatal to the call that triggered them: one
// malformed question block aborts the whole batch. Callers wanting per-block
// tolerance must segment and catch themselves.
var (
	// ErrBraceMismatch: an answer span opened without closing (or vice versa)
	// on text that is not a plain description.
	ErrBraceMismatch = errors.New("unbalanced answer braces")

	// ErrInsufficientAlternatives: a list variant below its minimum
	// cardinality (multichoice/match need two, shortanswer/numerical one).
	ErrInsufficientAlternatives = errors.New("not enough answer alternatives")

	// ErrMalformedNumeric: a numerical token did not parse as a finite number.
	ErrMalformedNumeric = errors.New("malformed numeric answer")

	// ErrMissingSeparator: a match pair without "->".
	ErrMissingSeparator = errors.New("match pair missing \"->\"")

	// ErrUnsupportedVariant: export requested for an unknown question type.
	ErrUnsupportedVariant = errors.New("unsupported question type")
)
