package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/avrovalue/internal/value"
)

// ValueOptions holds flags for the value command.
type ValueOptions struct {
	*RootOptions
	Canonical bool
}

// ValueResult is the payload of the value command.
type ValueResult struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"` // canonical JSON of the tree
}

// NewValueCommand creates the value command.
func NewValueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "value <data>",
		Short: "Print the value tree of a JSON or YAML document",
		Long: `Serialize a JSON or YAML data document ("-" for stdin) into an Avro
value tree and print it.

Integers become long, other numbers double, mappings map, sequences array
and null the empty option.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValue(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "print canonical JSON in text mode")

	return cmd
}

func runValue(opts *ValueOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	v, err := LoadValue(path, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDataParse, err)
	}

	canonical, err := value.MarshalCanonical(v)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSerialize, err)
	}

	text := value.Format(v)
	if opts.Canonical {
		text = string(canonical)
	}
	return formatter.Success(ValueResult{Kind: v.Kind().String(), Value: canonical}, text)
}
