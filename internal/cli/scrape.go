package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reviewscout/internal/browser"
	"reviewscout/internal/config"
	"reviewscout/internal/run"
	"reviewscout/pkg/logging"
)

// rodSession adapts a live browser session to the runner's page factory.
type rodSession struct {
	session    *browser.Session
	stableWait time.Duration
}

func (s rodSession) NewPage() (run.Page, error) { return s.session.NewPage(s.stableWait) }

func (s rodSession) Close() { s.session.Close() }

func newScrapeCmd() *cobra.Command {
	var (
		company string
		start   string
		end     string
		source  string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape reviews for a company within a date range",
		Long:  "Scrape structured review records for a company from one review source (or all of them) and write the in-range records to a JSON artifact per source.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			logger := logging.NewLoggerWithComponent("scraper")

			runner := &run.Runner{
				Config: cfg,
				Logger: logger,
				NewSession: func() (run.Session, error) {
					session, err := browser.NewSession(cfg.Headless)
					if err != nil {
						return nil, err
					}
					return rodSession{session: session, stableWait: cfg.StableWait}, nil
				},
			}

			results, err := runner.Run(cmd.Context(), run.Params{
				Company: company,
				Start:   start,
				End:     end,
				Source:  source,
				OutDir:  outDir,
			})
			if err != nil {
				return err
			}

			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d reviews saved to %s\n",
					color.GreenString("✓"), res.Source, res.Count, res.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company slug as used in the source's product URL (e.g. zoho-crm)")
	cmd.Flags().StringVar(&start, "start", "", "start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&source, "source", "", "review source: g2|capterra|trustradius|all")
	cmd.Flags().StringVar(&outDir, "outdir", ".", "directory for output artifacts")
	cmd.MarkFlagRequired("company")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("source")

	return cmd
}
