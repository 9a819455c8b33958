package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// LoadCUE reads a schema authored in CUE. The value at path (the whole
// file when path is empty) must be concrete; it is exported to JSON and
// read with Parse.
//
// Example:
//
//	s, err := schema.LoadCUE([]byte(`user: {type: "record", name: "User", fields: [{name: "id", type: "long"}]}`), "user")
func LoadCUE(src []byte, path string) (Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, cueError(err)
	}

	if path != "" {
		v = v.LookupPath(cue.ParsePath(path))
		if !v.Exists() {
			return nil, &ParseError{Message: fmt.Sprintf("no schema at %q", path)}
		}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(err)
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return nil, cueError(err)
	}
	return Parse(data)
}

// cueError converts the first CUE error to a ParseError.
func cueError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ParseError{Message: err.Error()}
	}
	first := errs[0]
	pe := &ParseError{Message: first.Error()}
	if pos := first.Position(); pos.IsValid() {
		pe.Line = pos.Line()
		pe.Column = pos.Column()
	}
	return pe
}
