package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snowlens/internal/domain"
)

func newOptimizeCmd(opts *globalOptions) *cobra.Command {
	var (
		queryID    string
		queryText  string
		model      string
		showPrompt bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Ask the in-warehouse model for optimization advice on a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if queryID == "" && queryText == "" {
				return fmt.Errorf("one of --query-id or --query-text is required")
			}

			ctx := cmd.Context()
			sess, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer sess.close()

			rec := domain.QueryCostRecord{SampleQueryID: queryID, SampleQueryText: queryText}
			if queryText == "" {
				detail, err := sess.history.QueryDetail(ctx, queryID)
				if err != nil {
					return err
				}
				if detail == nil {
					return fmt.Errorf("query %s not found in the execution history", queryID)
				}
				rec = domain.QueryCostRecord{
					ResourceName:    detail.ResourceName,
					ResourceSize:    detail.ResourceSize,
					Principal:       detail.Principal,
					SampleQueryID:   detail.QueryID,
					SampleQueryText: detail.QueryText,
					DurationSeconds: detail.DurationSeconds,
					DurationHours:   detail.DurationSeconds / domain.SecondsPerHour,
				}
			}

			if model == "" {
				model = sess.model
			}

			result, err := sess.optimizer.Optimize(ctx, rec, model)
			if err != nil {
				var completionErr *domain.CompletionUnavailableError
				if errors.As(err, &completionErr) {
					// The prompt survived the failure: hand it to the user so
					// they can retry elsewhere.
					fmt.Fprintf(os.Stderr, "completion service unavailable: %s\n\nBuilt prompt (reusable):\n\n%s\n", completionErr.Message, completionErr.Prompt)
				}
				return err
			}

			if opts.jsonOutput() {
				return printJSON(os.Stdout, result)
			}
			if showPrompt {
				fmt.Fprintf(os.Stdout, "--- Prompt (%s) ---\n%s\n--- Advice ---\n", result.Prompt.Hash()[:12], result.Prompt)
			}
			fmt.Fprintln(os.Stdout, result.Advice)
			return nil
		},
	}

	cmd.Flags().StringVar(&queryID, "query-id", "", "query id from `snowlens rank`")
	cmd.Flags().StringVar(&queryText, "query-text", "", "raw SQL text to analyze instead of a ranked query")
	cmd.Flags().StringVar(&model, "model", "", "completion model (default from profile, else "+domain.DefaultCompletionModel+")")
	cmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "print the built prompt before the advice")
	return cmd
}
