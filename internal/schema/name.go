package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Name is the full name of a named type.
type Name struct {
	Name      string
	Namespace string
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewName builds a Name from a possibly dotted name. A dotted name carries
// its own namespace; otherwise enclosing is used.
func NewName(name, enclosing string) (Name, error) {
	ns := enclosing
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ns, name = name[:i], name[i+1:]
	}
	if !namePattern.MatchString(name) {
		return Name{}, fmt.Errorf("invalid name %q", name)
	}
	if ns != "" {
		for _, part := range strings.Split(ns, ".") {
			if !namePattern.MatchString(part) {
				return Name{}, fmt.Errorf("invalid namespace %q", ns)
			}
		}
	}
	return Name{Name: name, Namespace: ns}, nil
}

// Fullname returns namespace.name, or name when there is no namespace.
func (n Name) Fullname() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

// String returns the full name.
func (n Name) String() string {
	return n.Fullname()
}
