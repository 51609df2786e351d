// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math/big"
)

// Metric selects how contest entries are scored.
type Metric uint32

// Contest metrics.
const (
	MetricHighestROI Metric = iota
	MetricBestSuccessRate
	MetricMostVolume
	MetricMostFollowers
)

// metricNames maps metrics to their wire names.
var metricNames = map[Metric]string{
	MetricHighestROI:      "highest_roi",
	MetricBestSuccessRate: "best_success_rate",
	MetricMostVolume:      "most_volume",
	MetricMostFollowers:   "most_followers",
}

// String returns the wire name of the metric.
func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return fmt.Sprintf("metric(%d)", uint32(m))
}

// ParseMetric maps a wire name to a Metric.
func ParseMetric(s string) (Metric, error) {
	for m, name := range metricNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric: %q", s)
}

// MarshalText implements encoding.TextMarshaler so metrics serialize as
// their wire names in JSON.
func (m Metric) MarshalText() ([]byte, error) {
	name, ok := metricNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %d", uint32(m))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Status is the contest lifecycle state.
type Status uint32

// Contest statuses. Cancelled is declared in the model but no operation
// transitions into it.
const (
	StatusActive Status = iota
	StatusFinalized
	StatusCancelled
)

// statusNames maps statuses to their wire names.
var statusNames = map[Status]string{
	StatusActive:    "active",
	StatusFinalized: "finalized",
	StatusCancelled: "cancelled",
}

// String returns the wire name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint32(s))
}

// ParseStatus maps a wire name to a Status.
func ParseStatus(v string) (Status, error) {
	for s, name := range statusNames {
		if name == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status: %q", v)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown status: %d", uint32(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Contest is a time-boxed competition. The window [StartTime, EndTime] is
// expressed in unix seconds; ordering of the bounds is not validated at
// creation.
type Contest struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	StartTime  uint64   `json:"start_time"`
	EndTime    uint64   `json:"end_time"`
	Metric     Metric   `json:"metric"`
	MinSignals uint32   `json:"min_signals"`
	PrizePool  *big.Int `json:"prize_pool"`
	Status     Status   `json:"status"`
}
