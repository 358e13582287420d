package testutil

import (
	"time"

	"ft-go/internal/api"
	"ft-go/internal/config"
	"ft-go/internal/ft"
)

// TestAPIConfig returns an APIConfig for baseURL with a short timeout and a
// millisecond retry delay, so retry tests stay fast.
func TestAPIConfig(baseURL string) config.APIConfig {
	return config.APIConfig{
		BaseURL: baseURL,
		Timeout: config.Duration{Duration: 2 * time.Second},
		Retry: config.RetryConfig{
			MaxAttempts: 3,
			Delay:       config.Duration{Duration: time.Millisecond},
		},
	}
}

// NewTestClient creates an api.Client for the fake backend with a nop logger
// and sequential request IDs.
func NewTestClient(b *FakeBackend, opts ...api.Option) *api.Client {
	opts = append([]api.Option{api.WithIDGenerator(NewStubIDGenerator())}, opts...)
	return api.NewClient(TestAPIConfig(b.URL()), ft.NewNopLogger(), opts...)
}
