// Package verify classifies formatter output by rendering twice: a
// result is trustworthy only when the canonical form is a fixed point.
package verify

import (
	"github.com/rstfmt/rstfmt/pkg/errors"
)

// Verdict is the outcome of formatting one input.
type Verdict string

const (
	// Unchanged means the input was already canonical.
	Unchanged Verdict = "unchanged"

	// Reformatted means the output differs from the input and is stable
	// under a second pass.
	Reformatted Verdict = "reformatted"

	// IdempotenceViolation means a second pass over the output changed
	// it again. The output must not be written back.
	IdempotenceViolation Verdict = "idempotence-violation"
)

// Check formats rendered a second time and compares. reformat is the
// same parse/render chain that produced rendered from original.
func Check(original, rendered string, reformat func(string) (string, error)) (Verdict, error) {
	second, err := reformat(rendered)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeIdempotenceViolation,
			"rendered output no longer parses")
	}
	if second != rendered {
		return IdempotenceViolation, errors.New(errors.ErrCodeIdempotenceViolation,
			"formatting is not stable: a second pass changed the output")
	}
	if rendered == original {
		return Unchanged, nil
	}
	return Reformatted, nil
}
