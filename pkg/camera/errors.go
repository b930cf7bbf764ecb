package camera

import "errors"

var (
	// ErrDegenerateInput marks input that carries no motion, such as a drag
	// that starts and ends on the same point.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNumericDegeneracy marks a NaN, an infinity or a singular matrix
	// produced while deriving an update.
	ErrNumericDegeneracy = errors.New("numeric degeneracy")

	// ErrInvalidParameter marks an argument outside the operation's domain.
	ErrInvalidParameter = errors.New("invalid parameter")
)
