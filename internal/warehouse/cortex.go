package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"snowlens/internal/domain"
)

// completeSQL invokes the in-warehouse completion function. Model and prompt
// travel as bind parameters, never by string interpolation.
const completeSQL = `SELECT SNOWFLAKE.CORTEX.COMPLETE(?, ?) AS response`

// Cortex implements domain.CompletionClient on top of Snowflake Cortex.
type Cortex struct {
	client *Client
	logger *slog.Logger
}

// NewCortex creates the completion adapter.
func NewCortex(client *Client, logger *slog.Logger) *Cortex {
	return &Cortex{client: client, logger: logger}
}

// Complete sends the prompt to the given model and returns the advice text.
// Any failure, including an empty response, surfaces as a
// CompletionUnavailableError carrying the prompt.
func (c *Cortex) Complete(ctx context.Context, prompt domain.OptimizationPrompt, model string) (string, error) {
	if model == "" {
		model = domain.DefaultCompletionModel
	}

	row, err := c.client.queryRowContext(ctx, completeSQL, model, string(prompt))
	if err != nil {
		return "", domain.ErrCompletionUnavailable(prompt, "cortex complete: %v", err)
	}

	var response sql.NullString
	if err := row.Scan(&response); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrCompletionUnavailable(prompt, "cortex returned no rows")
		}
		return "", domain.ErrCompletionUnavailable(prompt, "cortex complete: %v", err)
	}
	if !response.Valid || response.String == "" {
		return "", domain.ErrCompletionUnavailable(prompt, "cortex returned an empty response")
	}

	c.logger.Debug("cortex completion", "model", model, "prompt_hash", prompt.Hash(), "response_bytes", len(response.String))
	return response.String, nil
}
