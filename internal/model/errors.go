package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotDirectory is returned when the target path is not a directory.
// It is one of the two fatal user-input errors.
var ErrNotDirectory = errors.New("target path is not a directory")

// NotCodeProjectError is returned when detection decides the target does not
// look like a source project and --force was not given.
type NotCodeProjectError struct {
	Profile ProjectProfile
}

func (e *NotCodeProjectError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s does not look like a code project", e.Profile.Root)

	if len(e.Profile.Evidence) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Profile.Evidence, "; "))
		b.WriteString(")")
	}

	b.WriteString("; re-run with --force to override")

	return b.String()
}
