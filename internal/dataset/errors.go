package dataset

import "fmt"

// MissingColumnError indicates a required survey field is absent from a loaded table.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("missing column %q in %s", e.Column, e.Table)
	}
	return fmt.Sprintf("missing column %q", e.Column)
}
