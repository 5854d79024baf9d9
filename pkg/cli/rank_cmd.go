package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"snowlens/internal/domain"
)

func newRankCmd(opts *globalOptions) *cobra.Command {
	var windowDays, topN int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the most expensive query groups per warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer sess.close()

			var records []domain.QueryCostRecord
			err = withRetry(ctx, func(ctx context.Context) error {
				var rankErr error
				records, rankErr = sess.ranker.Rank(ctx, windowDays, topN)
				return rankErr
			})
			if err != nil {
				return err
			}

			if opts.jsonOutput() {
				return printJSON(os.Stdout, records)
			}
			printRankingTable(os.Stdout, records)
			return nil
		},
	}

	cmd.Flags().IntVar(&windowDays, "window-days", domain.DefaultWindowDays, "trailing window in days")
	cmd.Flags().IntVar(&topN, "top", domain.DefaultTopNPerResource, "groups kept per warehouse")
	return cmd
}
