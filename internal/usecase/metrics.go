package usecase

import "time"

const (
	FetchOutcomeSuccess = "success"
	FetchOutcomeTimeout = "timeout"
	FetchOutcomeError   = "error"
	FetchOutcomeDecode  = "decode_error"
)

// Metrics receives cycle and provider measurements.
type Metrics interface {
	ObserveFetch(provider string, kind ProviderKind, outcome string, elapsed time.Duration)
	ObserveCycle(feed string, failures int, elapsed time.Duration)
	IdentityMiss(provider string)
	TriggerDropped(feed string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(string, ProviderKind, string, time.Duration) {}
func (nopMetrics) ObserveCycle(string, int, time.Duration)                  {}
func (nopMetrics) IdentityMiss(string)                                      {}
func (nopMetrics) TriggerDropped(string)                                    {}
