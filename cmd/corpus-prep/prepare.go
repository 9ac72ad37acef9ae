package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	corpus "github.com/jamesainslie/go-corpus"
	"github.com/jamesainslie/go-corpus/stats"
)

func newPrepareCmd(a *app) *cobra.Command {
	var (
		configPath string
		endOfText  string
		asFiles    bool
		jobs       int
		only       []string
	)

	cmd := &cobra.Command{
		Use:   "prepare ROOT TARGET",
		Short: "Split corpus archives from ROOT into train/valid/test files under TARGET",
		Example: `  corpus-prep prepare archives data
  corpus-prep prepare archives data --as-files --only taiga-news,rnc-paper`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := corpus.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = corpus.LoadConfig(configPath); err != nil {
					return err
				}
			}
			cfg.Root, cfg.Target = args[0], args[1]

			flags := cmd.Flags()
			if flags.Changed("end-of-text") {
				eot, err := unescape(endOfText)
				if err != nil {
					return fmt.Errorf("invalid --end-of-text: %w", err)
				}
				cfg.EndOfText = eot
			}
			if flags.Changed("as-files") {
				cfg.AsFiles = asFiles
			}
			if flags.Changed("jobs") {
				cfg.Concurrency = jobs
			}
			cfg, err := cfg.Only(only...)
			if err != nil {
				return err
			}

			p, err := corpus.New(cfg, corpus.WithLogger(a.logger))
			if err != nil {
				return err
			}
			reports, runErr := p.Run(cmd.Context())
			if err := printReports(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML configuration file (see init-config)")
	flags.StringVar(&endOfText, "end-of-text", `\n\n`, "separator written after each text, Go escapes allowed (not used with --as-files)")
	flags.BoolVar(&asFiles, "as-files", false, "put each text into a separate file")
	flags.IntVarP(&jobs, "jobs", "j", 1, "number of archives processed concurrently")
	flags.StringSliceVar(&only, "only", nil, "process only these sources")
	return cmd
}

// unescape interprets Go escape sequences such as \n in s.
func unescape(s string) (string, error) {
	return strconv.Unquote(`"` + s + `"`)
}

func printReports(w io.Writer, reports []corpus.Report) error {
	for _, r := range reports {
		if !r.Read() {
			if _, err := fmt.Fprintf(w, "%s: skipped: %v\n", r.Source, r.Err); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "\nRead %s (%s)\n", r.Archive, r.Source); err != nil {
			return err
		}
		if r.Skipped > 0 || r.Duplicates > 0 {
			if _, err := fmt.Fprintf(w, "%d entries skipped, %d duplicate paths\n", r.Skipped, r.Duplicates); err != nil {
				return err
			}
		}
		if err := stats.WriteTable(w, r.Stats.Summaries()); err != nil {
			return err
		}
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: aborted: %v\n", r.Source, r.Err); err != nil {
				return err
			}
		}
	}
	return nil
}
