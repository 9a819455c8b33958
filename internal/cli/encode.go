package cli

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/avrovalue/internal/codec"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Schema   string
	Encoding string // "binary" | "json"
	Output   string
}

// EncodeResult is the payload of the encode command.
type EncodeResult struct {
	Encoding string          `json:"encoding"`
	Size     int             `json:"size"`
	Hex      string          `json:"hex,omitempty"`  // binary encoding
	JSON     json.RawMessage `json:"json,omitempty"` // Avro JSON encoding
	Output   string          `json:"output,omitempty"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode --schema <schema> <data>",
		Short: "Encode a data document with an Avro schema",
		Long: `Serialize a JSON or YAML data document into a value tree, reconcile it
with the schema and write its Avro encoding.

Binary output is printed as hex unless --output is given, in which case the
raw bytes are written to that file. Exits 1 when the document does not
match the schema.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "schema file (required)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "binary", "output encoding (binary|json)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the encoded bytes to a file")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runEncode(opts *EncodeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Encoding != "binary" && opts.Encoding != "json" {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag,
			fmt.Errorf("invalid encoding %q: must be binary or json", opts.Encoding))
	}

	s, err := LoadSchema(opts.Schema, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaParse, err)
	}
	v, err := LoadValue(path, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDataParse, err)
	}

	enc, err := codec.NewEncoder(s)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaForm, err)
	}

	var data []byte
	if opts.Encoding == "json" {
		data, err = enc.EncodeJSON(v)
	} else {
		data, err = enc.Encode(v)
	}
	var mismatch *codec.MismatchError
	if errors.As(err, &mismatch) {
		return formatter.Fail(ExitFailure, ErrCodeMismatch, err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeEncode, err)
	}

	result := EncodeResult{Encoding: opts.Encoding, Size: len(data)}
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		result.Output = opts.Output
		return formatter.Success(result, fmt.Sprintf("✓ Wrote %d bytes to %s", len(data), opts.Output))
	}

	var text string
	if opts.Encoding == "json" {
		result.JSON = data
		text = string(data)
	} else {
		result.Hex = hex.EncodeToString(data)
		text = result.Hex
	}
	return formatter.Success(result, text)
}
