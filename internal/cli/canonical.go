package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/avrovalue/internal/schema"
)

// CanonicalResult is the payload of the canonical command.
type CanonicalResult struct {
	Canonical   string `json:"canonical"`
	Fingerprint string `json:"fingerprint"` // CRC-64-AVRO, 16 hex digits
	SHA256      string `json:"sha256"`
}

// NewCanonicalCommand creates the canonical command.
func NewCanonicalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "canonical <schema>",
		Short: "Print a schema's Parsing Canonical Form and fingerprints",
		Long: `Print the Parsing Canonical Form of a schema together with its
CRC-64-AVRO and SHA-256 fingerprints.

The schema may be JSON, YAML or CUE (file.cue or file.cue#path).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanonical(rootOpts, args[0], cmd)
		},
	}
}

func runCanonical(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := LoadSchema(path, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaParse, err)
	}

	result, err := canonicalResult(s)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaForm, err)
	}

	text := fmt.Sprintf("canonical:   %s\nfingerprint: %s\nsha256:      %s",
		result.Canonical, result.Fingerprint, result.SHA256)
	return formatter.Success(result, text)
}

func canonicalResult(s schema.Schema) (CanonicalResult, error) {
	form, err := schema.CanonicalForm(s)
	if err != nil {
		return CanonicalResult{}, err
	}
	fp, err := schema.Fingerprint64(s)
	if err != nil {
		return CanonicalResult{}, err
	}
	sum, err := schema.FingerprintSHA256(s)
	if err != nil {
		return CanonicalResult{}, err
	}
	return CanonicalResult{
		Canonical:   form,
		Fingerprint: fmt.Sprintf("%016x", fp),
		SHA256:      sum,
	}, nil
}
