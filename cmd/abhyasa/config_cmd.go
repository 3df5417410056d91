package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/store"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the session parameters",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective session parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a session parameter",
		Long: "Persist a session parameter. Keys: error-margin (0.1-0.9), " +
			"difficulty (1.0-2.0), repetitions (3-20). Out-of-range values are clamped.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), opts, args[0], args[1])
		},
	})
	return cmd
}

// effectiveSession layers the config file and the stored settings over the
// defaults, the same way the run command does before flags.
func effectiveSession(opts *options, repo *store.SettingsRepository) (config.Session, error) {
	fileCfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return config.Session{}, fmt.Errorf("failed to load config: %w", err)
	}
	s := config.DefaultSession()
	if err := fileCfg.Session.Apply(&s); err != nil {
		return config.Session{}, fmt.Errorf("invalid config: %w", err)
	}
	stored, err := repo.All()
	if err != nil {
		return config.Session{}, err
	}
	for key, value := range stored {
		// stale keys are ignored here as in the run command
		_ = s.Set(key, value)
	}
	return s, nil
}

func runConfigShow(w io.Writer, opts *options) error {
	st, err := store.New(opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer st.Close()

	s, err := effectiveSession(opts, st.Settings())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# config: %s\n# db: %s\n", opts.configPath, st.Path())
	values := s.Values()
	for _, key := range config.Keys() {
		fmt.Fprintf(w, "%s = %s\n", key, values[key])
	}
	fmt.Fprintf(w, "dwell = %s\n", s.DwellDuration)
	return nil
}

func runConfigSet(w io.Writer, opts *options, key, value string) error {
	s := config.DefaultSession()
	if err := s.Set(key, value); err != nil {
		return err
	}
	effective, _ := s.Get(key)

	st, err := store.New(opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer st.Close()

	if err := st.Settings().Set(key, effective); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	if effective != value {
		fmt.Fprintf(w, "%s = %s (requested %s)\n", key, effective, value)
		return nil
	}
	fmt.Fprintf(w, "%s = %s\n", key, effective)
	return nil
}

func newMessagesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "messages",
		Short: "List the instruction messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, m := range cue.Messages() {
				fmt.Fprintf(w, "%-18s %s\n", m, cue.Text(m, opts.lang))
			}
			return nil
		},
	}
}
