package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

// RemoteSource downloads the ministry CSV from an HTTP endpoint.
type RemoteSource struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewRemoteSource creates a RemoteSource with the default retry policy.
func NewRemoteSource(client *http.Client, url string) *RemoteSource {
	return NewRemoteSourceWithBackoff(client, url, BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	})
}

// NewRemoteSourceWithBackoff creates a RemoteSource with an explicit retry policy.
func NewRemoteSourceWithBackoff(client *http.Client, url string, backoff BackoffConfig) *RemoteSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote-csv",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &RemoteSource{
		url: url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: cb,
	}
}

func (s *RemoteSource) Name() string {
	return "remote"
}

func (s *RemoteSource) Load(ctx context.Context) (market.Table, error) {
	if s.url == "" {
		return nil, fmt.Errorf("remote source url is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return market.ParseCSV(resp.Body)
}
