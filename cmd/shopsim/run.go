package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopsim/internal/config"
	"shopsim/internal/report"
	"shopsim/internal/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate every day from the start date through the end date",
	Long: `Reset the simulation tables, seed the catalog and simulate each day
from --start through --end inclusive. Each day commits on its own; an error
stops the run and leaves earlier days in place.`,
	Example: `  shopsim run
  shopsim run --start 2024-01-01 --seed 42
  shopsim run --start 2024-01-01 --end 2024-06-30 --report run.xlsx
  shopsim run --members-only --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")
		membersOnly, _ := cmd.Flags().GetBool("members-only")
		noReset, _ := cmd.Flags().GetBool("no-reset")
		pace, _ := cmd.Flags().GetFloat64("pace")
		reportPath, _ := cmd.Flags().GetString("report")

		end, err := config.ParseEndDate(endFlag, time.Now())
		if err != nil {
			return err
		}
		start, err := config.ParseStartDate(startFlag, end)
		if err != nil {
			return err
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close(cmd.Context())

		driver, err := simulation.NewDriver(s.store, s.source(), s.logger)
		if err != nil {
			return err
		}

		summary, err := driver.Run(cmd.Context(), simulation.Options{
			Start:        start,
			End:          end,
			Seed:         s.seed,
			ProductCount: s.products,
			MembersOnly:  membersOnly,
			Reset:        !noReset,
			Pace:         pace,
		})
		if summary != nil && reportPath != "" && len(summary.Days) > 0 {
			if rerr := report.WriteFile(reportPath, summary); rerr != nil {
				s.logger.Error("Failed to write report", zap.Error(rerr))
			} else {
				s.logger.Info("Wrote report", zap.String("path", reportPath))
			}
		}
		if err != nil {
			return err
		}

		printSummary(summary)
		return nil
	},
}

func init() {
	runCmd.Flags().String("start", "", "first simulated date, YYYY-MM-DD (default 5 days before --end)")
	runCmd.Flags().String("end", "", "last simulated date, YYYY-MM-DD (default today)")
	runCmd.Flags().Bool("members-only", false, "only register members, skip status changes and activity")
	runCmd.Flags().Bool("no-reset", false, "keep existing data and continue from the current population")
	runCmd.Flags().Float64("pace", 0, "maximum simulated days per second (0 = unlimited)")
	runCmd.Flags().String("report", "", "write daily statistics to this .xlsx file")
}

func printSummary(s *simulation.Summary) {
	totals := s.Totals()
	fmt.Fprintf(os.Stdout, "Run %s (seed %d)\n", s.RunID, s.Seed)
	fmt.Fprintf(os.Stdout, "  Period:          %s .. %s (%d days)\n", s.Start.Format(time.DateOnly), s.End.Format(time.DateOnly), len(s.Days))
	fmt.Fprintf(os.Stdout, "  Annual growth:   %.1f%%\n", (s.AnnualMultiplier-1)*100)
	fmt.Fprintf(os.Stdout, "  Daily growth:    %.4f%%\n", s.DailyRate*100)
	fmt.Fprintf(os.Stdout, "  Products:        %d\n", s.Products)
	fmt.Fprintf(os.Stdout, "  Members created: %d (population %d)\n", totals.NewMembers, totals.Population)
	if s.MembersOnly {
		return
	}
	fmt.Fprintf(os.Stdout, "  Promoted:        %d\n", totals.Promoted)
	fmt.Fprintf(os.Stdout, "  Quit:            %d\n", totals.Quit)
	fmt.Fprintf(os.Stdout, "  Logins:          %d\n", totals.Logins())
	fmt.Fprintf(os.Stdout, "  Purchases:       %d\n", totals.Purchases())
	fmt.Fprintf(os.Stdout, "  Revenue:         %d\n", totals.Revenue)
}
