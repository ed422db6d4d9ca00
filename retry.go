package wealth

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// RetryPolicy configures the exponential backoff around external calls.
type RetryPolicy struct {
	Attempts  int           // total attempts, at least 1
	BaseDelay time.Duration // delay before the first retry, doubled each time
}

// DefaultRetryPolicy is used by the command line tools.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: time.Second}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = max(p.BaseDelay, b.MaxInterval)
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(1, p.Attempts)-1)), ctx)
}

// retry runs op until it succeeds, fails with ErrUnavailable or the policy
// gives up.
func retry[T any](ctx context.Context, p RetryPolicy, name string, op func() (T, error)) (T, error) {
	var out T
	err := backoff.RetryNotify(func() error {
		v, err := op()
		if errors.Is(err, ErrUnavailable) {
			return backoff.Permanent(err)
		}
		if err != nil {
			return err
		}
		out = v
		return nil
	}, p.backOff(ctx), func(err error, d time.Duration) {
		log.Warn().Err(err).Str("call", name).Dur("retry_in", d).Msg("external call failed")
	})
	return out, err
}

type retryOracle struct {
	oracle PriceOracle
	policy RetryPolicy
}

// WithRetry decorates oracle with retries following policy.
func WithRetry(oracle PriceOracle, policy RetryPolicy) PriceOracle {
	return &retryOracle{oracle: oracle, policy: policy}
}

func (r *retryOracle) EstimatePrice(ctx context.Context, symbol string) (float64, error) {
	return retry(ctx, r.policy, "price "+symbol, func() (float64, error) {
		return r.oracle.EstimatePrice(ctx, symbol)
	})
}

type retryExtractor struct {
	extractor StatementExtractor
	policy    RetryPolicy
}

// WithExtractorRetry decorates extractor with retries following policy.
func WithExtractorRetry(extractor StatementExtractor, policy RetryPolicy) StatementExtractor {
	return &retryExtractor{extractor: extractor, policy: policy}
}

func (r *retryExtractor) ExtractAssets(ctx context.Context, image []byte, mimeType string) ([]ExtractedAsset, error) {
	return retry(ctx, r.policy, "extract", func() ([]ExtractedAsset, error) {
		return r.extractor.ExtractAssets(ctx, image, mimeType)
	})
}
