package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/avrovalue/internal/schema"
	"github.com/roach88/avrovalue/internal/ser"
	"github.com/roach88/avrovalue/internal/value"
)

// Error code constants, shared by all commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeReadFailed  = "E003" // File read error
	ErrCodeWriteFailed = "E004" // File write error
	ErrCodeBadFlag     = "E005" // Invalid flag value

	ErrCodeSchemaParse = "E101" // Schema document did not parse
	ErrCodeSchemaForm  = "E102" // Canonical form could not be computed
	ErrCodeDataParse   = "E103" // Data document did not parse
	ErrCodeSerialize   = "E104" // Data could not be turned into a value tree

	ErrCodeMismatch = "E201" // Value does not match the schema
	ErrCodeEncode   = "E202" // Avro encoder failure

	ErrCodeRegistry = "E301" // Registry database failure
)

// LoadError is a failure to read a schema or data document.
type LoadError struct {
	Code    string
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *LoadError) details() interface{} {
	if e.Line == 0 {
		return nil
	}
	return map[string]interface{}{"file": e.Path, "line": e.Line, "column": e.Column}
}

// LoadSchema reads a schema file. Files ending in .cue are evaluated with
// CUE; a "#path" suffix selects the value at path inside the file. Any
// other file, or "-" for stdin, is read as JSON or YAML.
func LoadSchema(path string, stdin io.Reader) (schema.Schema, error) {
	file, cuePath, _ := strings.Cut(path, "#")
	data, err := readInput(file, stdin)
	if err != nil {
		return nil, err
	}

	var s schema.Schema
	if filepath.Ext(file) == ".cue" {
		s, err = schema.LoadCUE(data, cuePath)
	} else {
		s, err = schema.Parse(data)
	}
	if err != nil {
		return nil, parseLoadError(file, ErrCodeSchemaParse, err)
	}
	slog.Debug("schema loaded", "path", path, "kind", s.Kind())
	return s, nil
}

// LoadValue reads a JSON or YAML data document and serializes it to a
// value tree. Integers become Long, other numbers Double, mappings Map,
// sequences Array and null the empty option.
func LoadValue(path string, stdin io.Reader) (value.Value, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseLoadError(path, ErrCodeDataParse, err)
	}
	v, err := ser.ToValue(doc)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSerialize, Path: path, Message: err.Error()}
	}
	slog.Debug("value loaded", "path", path, "kind", v.Kind())
	return v, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeReadFailed, Path: "<stdin>", Message: err.Error()}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "no such file"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error()}
	}
	return data, nil
}

func parseLoadError(path, code string, err error) *LoadError {
	if path == "-" {
		path = "<stdin>"
	}
	var pe *schema.ParseError
	if errors.As(err, &pe) {
		return &LoadError{Code: code, Path: path, Line: pe.Line, Column: pe.Column, Message: pe.Message}
	}
	return &LoadError{Code: code, Path: path, Message: err.Error()}
}
