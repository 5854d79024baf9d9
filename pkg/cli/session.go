package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"snowlens/internal/config"
	"snowlens/internal/domain"
	"snowlens/internal/service"
	"snowlens/internal/sqlscan"
	"snowlens/internal/warehouse"
)

// session bundles the warehouse client and the pipeline services for one
// CLI invocation.
type session struct {
	client    *warehouse.Client
	history   *warehouse.History
	ranker    *service.CostRanker
	optimizer *service.Optimizer
	model     string
}

// openSession resolves the connection profile and wires the pipeline.
func openSession(ctx context.Context, opts *globalOptions) (*session, error) {
	profiles, err := config.LoadProfiles(config.DefaultProfilesPath())
	if err != nil {
		return nil, fmt.Errorf("no usable profiles (run `snowlens config init` first): %w", err)
	}
	p, ok := profiles.Profile(opts.profile)
	if !ok {
		name := opts.profile
		if name == "" {
			name = profiles.CurrentProfile
		}
		return nil, fmt.Errorf("profile %q not found in %s", name, config.DefaultProfilesPath())
	}

	logger := opts.logger()
	client, err := warehouse.Open(p.ConnectionParams(), logger)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		client.Close() //nolint:errcheck
		return nil, err
	}

	history := warehouse.NewHistory(client, logger)
	metadata := warehouse.NewMetadata(client)
	cortex := warehouse.NewCortex(client, logger)
	aggregator := service.NewMetadataAggregator(metadata, client.Session(), logger)

	model := p.Model
	if model == "" {
		model = domain.DefaultCompletionModel
	}

	return &session{
		client:    client,
		history:   history,
		ranker:    service.NewCostRanker(history, logger),
		optimizer: service.NewOptimizer(sqlscan.NewExtractor(), aggregator, service.NewPromptBuilder(), cortex, history, logger),
		model:     model,
	}, nil
}

func (s *session) close() {
	s.client.Close() //nolint:errcheck
}

// withRetry retries fn on retryable DataUnavailable conditions. Retry policy
// lives here in the caller; the pipeline itself never retries.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		var unavailable *domain.DataUnavailableError
		if errors.As(err, &unavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}
