// Package tirpio is the boundary layer: reading entity STI series from the
// input text format and writing discovered TIRPs to the output text
// format, plus the sorted/stats/checksum companion files.
package tirpio

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// ErrInputMissing wraps a missing input file path.
func ErrInputMissing(path string) error {
	return errors.E(errors.NotExist, fmt.Sprintf("input file does not exist: %s", path))
}

// ErrMalformedInput wraps a parse failure at a given line of path.
func ErrMalformedInput(path string, lineNo int, detail string) error {
	return errors.E(errors.Invalid, fmt.Sprintf("%s:%d: incorrect file format: %s", path, lineNo, detail))
}

// ErrOutputExists wraps an attempt to open an output path that already
// exists.
func ErrOutputExists(path string) error {
	return errors.E(errors.Exists, fmt.Sprintf("output tirps file already exists: %s", path))
}
