// Package urlbench benchmarks repeated fetches of a single URL. It is
// the network-facing peer of the in-process harness: run N times,
// collect per-attempt samples, aggregate.
package urlbench

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"benchkit/internal/harness"
)

// DefaultCount is the attempt count used when the caller does not ask
// for one.
const DefaultCount = 5

// MaxCount caps a single report so one request cannot hold a handler
// open indefinitely.
const MaxCount = 100

// Attempt is one fetch sample.
type Attempt struct {
	Status  int     `json:"status,omitempty"`
	Seconds float64 `json:"time"`
	Bytes   int64   `json:"size"`
	Error   string  `json:"error,omitempty"`
}

// Stats aggregates attempt durations and sizes.
type Stats struct {
	Count      int     `json:"count"`
	Failed     int     `json:"failed"`
	MinSeconds float64 `json:"min_time"`
	MaxSeconds float64 `json:"max_time"`
	AvgSeconds float64 `json:"avg_time"`
	SumSeconds float64 `json:"sum_time"`
	TotalBytes int64   `json:"total_size"`
}

// Report is the result of one urlbench invocation.
type Report struct {
	URL      string    `json:"url"`
	Attempts []Attempt `json:"attempts"`
	Stats    Stats     `json:"stats"`
}

// Fetcher performs the repeated fetches.
type Fetcher struct {
	client *http.Client
	clock  harness.Clock
}

func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, clock: harness.SystemClock()}
}

// WithClock replaces the fetch timer, for tests.
func (f *Fetcher) WithClock(c harness.Clock) *Fetcher {
	f.clock = c
	return f
}

// Run fetches rawURL count times sequentially. A failed attempt is a
// sample, not an error; only an unusable URL aborts the whole report.
func (f *Fetcher) Run(ctx context.Context, rawURL string, count int) (*Report, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}

	if count < 1 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}

	attempts := make([]Attempt, 0, count)
	for i := 0; i < count; i++ {
		attempts = append(attempts, f.fetch(ctx, rawURL))
	}

	return &Report{
		URL:      rawURL,
		Attempts: attempts,
		Stats:    aggregate(attempts),
	}, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) Attempt {
	start := f.clock.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Attempt{Error: err.Error(), Seconds: f.clock.Now().Sub(start).Seconds()}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Attempt{Error: err.Error(), Seconds: f.clock.Now().Sub(start).Seconds()}
	}
	defer resp.Body.Close()

	size, err := io.Copy(io.Discard, resp.Body)
	elapsed := f.clock.Now().Sub(start).Seconds()
	if err != nil {
		return Attempt{Status: resp.StatusCode, Bytes: size, Error: err.Error(), Seconds: elapsed}
	}
	return Attempt{Status: resp.StatusCode, Bytes: size, Seconds: elapsed}
}

func aggregate(attempts []Attempt) Stats {
	s := Stats{Count: len(attempts)}
	for i, a := range attempts {
		if a.Error != "" {
			s.Failed++
		}
		s.SumSeconds += a.Seconds
		s.TotalBytes += a.Bytes
		if i == 0 || a.Seconds < s.MinSeconds {
			s.MinSeconds = a.Seconds
		}
		if a.Seconds > s.MaxSeconds {
			s.MaxSeconds = a.Seconds
		}
	}
	if s.Count > 0 {
		s.AvgSeconds = s.SumSeconds / float64(s.Count)
	}
	return s
}
