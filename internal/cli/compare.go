package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/avrovalue/internal/schema"
	"github.com/roach88/avrovalue/internal/schemaeq"
)

// Comparison strategies accepted by --strategy.
var Strategies = []string{"structural", "canonical", "exact"}

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Strategy string
}

// CompareResult is the payload of the compare command.
type CompareResult struct {
	Equal    bool   `json:"equal"`
	Strategy string `json:"strategy"`
	Diff     string `json:"diff,omitempty"` // exact difference, when unequal
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <schema-a> <schema-b>",
		Short: "Report whether two schemas are equal",
		Long: `Compare two schemas and exit 0 when they are equal, 1 when they differ.

Strategies:
  structural  kind-by-kind comparison ignoring field names and defaults
  canonical   identical Parsing Canonical Forms
  exact       identical schemas, including docs, defaults and aliases`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "structural", "comparison strategy (structural|canonical|exact)")

	return cmd
}

func runCompare(opts *CompareOptions, pathA, pathB string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cmp, err := comparatorFor(opts.Strategy)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, err)
	}

	a, err := LoadSchema(pathA, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaParse, err)
	}
	b, err := LoadSchema(pathB, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaParse, err)
	}

	result := CompareResult{Equal: cmp.Compare(a, b), Strategy: opts.Strategy}
	if !result.Equal {
		result.Diff = schema.Diff(a, b)
	}

	text := "equal"
	if !result.Equal {
		text = "not equal"
		if opts.Verbose && result.Diff != "" {
			text += "\n" + strings.TrimRight(result.Diff, "\n")
		}
	}
	if err := formatter.Success(result, text); err != nil {
		return err
	}
	if !result.Equal {
		return NewExitError(ExitFailure, "schemas differ")
	}
	return nil
}

// comparatorFor maps a --strategy value to its comparator.
func comparatorFor(strategy string) (schemaeq.Comparator, error) {
	switch strategy {
	case "structural":
		return schemaeq.StructFieldEq{}, nil
	case "canonical":
		return schemaeq.CanonicalFormEq{}, nil
	case "exact":
		return schemaeq.ComparatorFunc(schema.Equal), nil
	}
	return nil, fmt.Errorf("invalid strategy %q: must be one of %v", strategy, Strategies)
}
