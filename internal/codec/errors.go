package codec

import "fmt"

// MismatchError is returned when a value does not fit its schema.
type MismatchError struct {
	// Path locates the value, e.g. $.items[2].name.
	Path string
	// Schema is the kind of the schema at Path.
	Schema string
	// Value is the kind of the value at Path.
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("%s: cannot encode %s as %s", e.Path, e.Value, e.Schema)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
