package compare

import (
	"errors"
	"fmt"

	"nationaldynamics/internal/catalog"
)

// ErrIdenticalSelection is returned when the same variable is chosen twice.
var ErrIdenticalSelection = errors.New("identical variables selected")

// UnknownVariableError reports a key with no catalog entry.
type UnknownVariableError struct {
	Key catalog.Key
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Key)
}

// InsufficientDataError reports an alignment with fewer than two rows. It is
// an expected condition, not a fault: the caller should prompt for another
// pair.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough overlapping data points to compare (%d aligned)", e.Points)
}
