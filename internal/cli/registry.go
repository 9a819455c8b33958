package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/avrovalue/internal/registry"
)

// RegistryOptions holds flags shared by the registry subcommands.
type RegistryOptions struct {
	*RootOptions
	DB       string
	Strategy string
}

// EntryView is the printed form of a registered schema version.
type EntryView struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Version     int    `json:"version"`
	Fingerprint string `json:"fingerprint"`
	SHA256      string `json:"sha256"`
	Canonical   string `json:"canonical"`
}

// RegisterResult is the payload of registry register.
type RegisterResult struct {
	Entry   EntryView `json:"entry"`
	Created bool      `json:"created"`
}

// NewRegistryCommand creates the registry command group.
func NewRegistryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegistryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage a SQLite schema registry",
		Long: `Register schemas under subjects and look them up by subject, version or
fingerprint.

Registering a schema equal to an existing version of the subject returns
that version instead of creating a new one.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "registry.db", "registry database path")

	register := &cobra.Command{
		Use:           "register <subject> <schema>",
		Short:         "Register a schema version",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, args[0], args[1], cmd)
		},
	}
	register.Flags().StringVar(&opts.Strategy, "strategy", "structural",
		"comparison used to find an existing version (structural|canonical|exact)")

	list := &cobra.Command{
		Use:           "list [subject]",
		Short:         "List subjects, or the versions of one subject",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, args, cmd)
		},
	}

	get := &cobra.Command{
		Use:           "get <subject> [version]",
		Short:         "Show a schema version, the latest by default",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args, cmd)
		},
	}

	find := &cobra.Command{
		Use:           "find <fingerprint>",
		Short:         "Find versions by CRC-64-AVRO fingerprint (hex)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, args[0], cmd)
		},
	}

	del := &cobra.Command{
		Use:           "delete <subject>",
		Short:         "Delete every version of a subject",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(register, list, get, find, del)
	return cmd
}

func openRegistry(opts *RegistryOptions, cmd *cobra.Command) (*registry.Registry, error) {
	var regOpts []registry.Option
	// Without --strategy the process-wide comparator decides.
	if f := cmd.Flags().Lookup("strategy"); f != nil && f.Changed {
		c, err := comparatorFor(opts.Strategy)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadFlag, Message: err.Error()}
		}
		regOpts = append(regOpts, registry.WithComparator(c))
	}
	return registry.Open(opts.DB, regOpts...)
}

func runRegister(opts *RegistryOptions, subject, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := LoadSchema(path, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaParse, err)
	}

	reg, err := openRegistry(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	defer reg.Close()

	entry, created, err := reg.Register(cmd.Context(), subject, s)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}

	view := viewOf(entry)
	verb := "Registered"
	if !created {
		verb = "Already registered"
	}
	text := fmt.Sprintf("✓ %s %s version %d (%s)", verb, view.Subject, view.Version, view.Fingerprint)
	return formatter.Success(RegisterResult{Entry: view, Created: created}, text)
}

func runList(opts *RegistryOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	reg, err := openRegistry(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	defer reg.Close()

	if len(args) == 0 {
		subjects, err := reg.List(cmd.Context())
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
		}
		if subjects == nil {
			subjects = []string{}
		}
		return formatter.Success(subjects, strings.Join(subjects, "\n"))
	}

	entries, err := reg.Versions(cmd.Context(), args[0])
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	views := make([]EntryView, 0, len(entries))
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		v := viewOf(e)
		views = append(views, v)
		lines = append(lines, fmt.Sprintf("%d  %s  %s", v.Version, v.Fingerprint, v.ID))
	}
	return formatter.Success(views, strings.Join(lines, "\n"))
}

func runGet(opts *RegistryOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	version := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return formatter.Fail(ExitCommandError, ErrCodeBadFlag,
				fmt.Errorf("invalid version %q: must be a positive integer", args[1]))
		}
		version = n
	}

	reg, err := openRegistry(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	defer reg.Close()

	var entry registry.Entry
	if version == 0 {
		entry, err = reg.Latest(cmd.Context(), args[0])
	} else {
		entry, err = reg.Get(cmd.Context(), args[0], version)
	}
	if errors.Is(err, registry.ErrNotFound) {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}

	view := viewOf(entry)
	return formatter.Success(view, view.Canonical)
}

func runFind(opts *RegistryOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	fp, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 64)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag,
			fmt.Errorf("invalid fingerprint %q: must be 16 hex digits", arg))
	}

	reg, err := openRegistry(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	defer reg.Close()

	entries, err := reg.ByFingerprint(cmd.Context(), fp)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	if len(entries) == 0 {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, registry.ErrNotFound)
	}

	views := make([]EntryView, 0, len(entries))
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		v := viewOf(e)
		views = append(views, v)
		lines = append(lines, fmt.Sprintf("%s  %d  %s", v.Subject, v.Version, v.ID))
	}
	return formatter.Success(views, strings.Join(lines, "\n"))
}

func runDelete(opts *RegistryOptions, subject string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	reg, err := openRegistry(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	defer reg.Close()

	n, err := reg.Delete(cmd.Context(), subject)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err)
	}
	return formatter.Success(map[string]int{"deleted": n},
		fmt.Sprintf("✓ Deleted %d version(s) of %s", n, subject))
}

func viewOf(e registry.Entry) EntryView {
	return EntryView{
		ID:          e.ID,
		Subject:     e.Subject,
		Version:     e.Version,
		Fingerprint: fmt.Sprintf("%016x", e.Fingerprint),
		SHA256:      e.SHA256,
		Canonical:   e.Canonical,
	}
}
