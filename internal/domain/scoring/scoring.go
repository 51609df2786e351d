// Package scoring maps a contest entry's statistics and the contest's
// chosen metric to a single comparable score.
package scoring

import (
	"context"
	"fmt"
	"math/big"

	"github.com/okian/arena/internal/domain/model"
)

// FollowerSource supplies follower counts for the most_followers metric.
// The core does not own a social graph; the metric stays uncomputed until
// a source is configured.
type FollowerSource interface {
	Followers(ctx context.Context, provider string) (uint64, error)
}

// Engine computes a score from an entry and a metric.
type Engine interface {
	// Score computes the entry's score. The entry is read, never mutated.
	Score(ctx context.Context, entry *model.ContestEntry, metric model.Metric) (*big.Int, error)
}

// Option applies a configuration option to the MetricEngine.
type Option func(*MetricEngine)

// WithFollowerSource enables the most_followers metric.
func WithFollowerSource(src FollowerSource) Option {
	return func(e *MetricEngine) {
		if src != nil {
			e.followers = src
		}
	}
}

// MetricEngine implements Engine as a pure dispatch over the closed metric
// set.
type MetricEngine struct {
	followers FollowerSource
}

// NewMetricEngine creates a new scoring engine with configuration options.
func NewMetricEngine(opts ...Option) *MetricEngine {
	e := &MetricEngine{}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score computes the score for entry under metric.
func (e *MetricEngine) Score(ctx context.Context, entry *model.ContestEntry, metric model.Metric) (*big.Int, error) {
	switch metric {
	case model.MetricHighestROI:
		return new(big.Int).Set(entry.TotalROI), nil
	case model.MetricBestSuccessRate:
		return new(big.Int).SetUint64(uint64(entry.SuccessRate)), nil
	case model.MetricMostVolume:
		return new(big.Int).Set(entry.TotalVolume), nil
	case model.MetricMostFollowers:
		// Without a follower source the metric is not computed and the
		// score stays at zero.
		if e.followers == nil {
			return new(big.Int), nil
		}
		count, err := e.followers.Followers(ctx, entry.Provider)
		if err != nil {
			return nil, fmt.Errorf("follower lookup for %s: %w", entry.Provider, err)
		}
		return new(big.Int).SetUint64(count), nil
	default:
		return nil, fmt.Errorf("unknown metric: %s", metric)
	}
}
