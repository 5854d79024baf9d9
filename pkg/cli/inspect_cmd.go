package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snowlens/internal/domain"
)

func newInspectCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <query-id>",
		Short: "Show the execution metrics of a single query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer sess.close()

			var detail *domain.ExecutionDetail
			err = withRetry(ctx, func(ctx context.Context) error {
				var detailErr error
				detail, detailErr = sess.history.QueryDetail(ctx, args[0])
				return detailErr
			})
			if err != nil {
				return err
			}
			if detail == nil {
				return fmt.Errorf("query %s not found in the execution history", args[0])
			}

			if opts.jsonOutput() {
				return printJSON(os.Stdout, detail)
			}
			printMetricLines(os.Stdout, detail.MetricLines())
			fmt.Fprintf(os.Stdout, "\nQuery text:\n%s\n", detail.QueryText)
			return nil
		},
	}
}
