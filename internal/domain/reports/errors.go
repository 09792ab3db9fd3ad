package reports

import (
	"errors"
	"strings"
)

var ErrRender = errors.New("report rendering failed")

// ValidationError lists the required profile fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
