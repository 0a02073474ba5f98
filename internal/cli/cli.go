// Package cli is the terminal front end: it turns flags into a search
// request and prints the ranked flights as a table.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/report"
	"github.com/you/go-travel-flights/internal/service"
)

const rootLong = `Flight search tool. Find flights with airline, price, departure window
and date filters.

Examples:
  travel search --date 2025-12-10
  travel search --date-range 2025-12-10:2025-12-20 --airlines QR,EK --max-price 12000
  travel search --date 2025-12-10 --dep-window 06:00-12:00 --sort duration`

func NewRootCmd(cfg *config.Config, svc *service.SearchService) *cobra.Command {
	root := &cobra.Command{
		Use:           "travel",
		Short:         "Search flights",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSearchCmd(cfg, svc))
	return root
}

func newSearchCmd(cfg *config.Config, svc *service.SearchService) *cobra.Command {
	var (
		req      service.Request
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for flights between two airports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-price") {
				req.MaxPrice = &maxPrice
			}
			q, err := req.Query(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Searching flights using %s...\n", svc.ProviderName())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if cfg.SearchTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.SearchTimeout)
				defer cancel()
			}

			flights, err := svc.Run(ctx, q)
			if err != nil {
				return fmt.Errorf("searching flights: %w", err)
			}

			fmt.Fprintf(out, "Found %d flights\n", len(flights))
			report.Table(out, flights)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Origin, "from", cfg.Origin, "origin airport code")
	f.StringVar(&req.Destination, "to", cfg.Destination, "destination airport code")
	f.StringVar(&req.Date, "date", "", "departure date (YYYY-MM-DD)")
	f.StringVar(&req.DateRange, "date-range", "", "departure date range (YYYY-MM-DD:YYYY-MM-DD)")
	f.IntVar(&req.Adults, "adults", 1, "number of adult passengers")
	f.StringVar(&req.Cabin, "cabin", "economy", "cabin class")
	f.Float64Var(&maxPrice, "max-price", 0, "maximum total price")
	f.StringVar(&req.Airlines, "airlines", "", "comma separated airline codes or names (e.g. QR,QF,BA)")
	f.StringVar(&req.DepWindow, "dep-window", "", "departure time window (HH:MM-HH:MM)")
	f.StringVar(&req.Sort, "sort", "price", "sort by: price, duration, departure")

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, cfg *config.Config, svc *service.SearchService, args []string) int {
	root := NewRootCmd(cfg, svc)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "ERROR:", errorMessage(err))
		return 1
	}
	return 0
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingDate):
		return "Please specify either --date or --date-range"
	case errors.Is(err, service.ErrConflictingDates):
		return "Please specify either --date or --date-range, not both"
	}
	return err.Error()
}
