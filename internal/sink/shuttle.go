package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultBatchSize    = 100
	DefaultMaxRetries   = 3
	DefaultTimeout      = 30 * time.Second
	DefaultRetryWait    = 500 * time.Millisecond
	DefaultRetryWaitMax = 10 * time.Second
)

// ShuttleConfig configures the HTTP sink.
type ShuttleConfig struct {
	URL          string
	Token        string
	BatchSize    int
	MaxRetries   int
	Timeout      time.Duration
	RetryWait    time.Duration
	RetryWaitMax time.Duration
	// Transport replaces the default HTTP transport, e.g. in tests.
	Transport http.RoundTripper
	Logger    *slog.Logger
	Clock     clockwork.Clock
}

// StatusError is a response the server will not accept on retry.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("shuttle responded with status %d", e.Status)
	}

	return fmt.Sprintf("shuttle responded with status %d: %s", e.Status, e.Body)
}

// Shuttle uploads flights in JSON batches.
type Shuttle struct {
	client *resty.Client
	cfg    ShuttleConfig
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewShuttle returns a sink posting to cfg.URL.
func NewShuttle(cfg ShuttleConfig) (*Shuttle, error) {
	if cfg.URL == "" {
		return nil, errors.New("shuttle url is required")
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.RetryWait <= 0 {
		cfg.RetryWait = DefaultRetryWait
	}

	if cfg.RetryWaitMax < cfg.RetryWait {
		cfg.RetryWaitMax = max(DefaultRetryWaitMax, cfg.RetryWait)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	if cfg.Transport != nil {
		client.SetTransport(cfg.Transport)
	}

	return &Shuttle{client: client, cfg: cfg, logger: logger, clock: clock}, nil
}

func (s *Shuttle) Launch(ctx context.Context, flight *Flight) (Report, error) {
	report := newReport(flight, s.clock.Now())

	s.logger.Info("launching flight", "flight", flight.Name(), "id", flight.ID, "batch_size", s.cfg.BatchSize)

	batch := s.newBatch(flight, 0)

	for g, err := range flight.Graphs {
		if err != nil {
			return report, fmt.Errorf("flight %s: %w", flight.ID, err)
		}

		batch.Add(g)
		report.add(g)

		if batch.Records() < s.cfg.BatchSize {
			continue
		}

		if err := s.send(ctx, batch); err != nil {
			return report, err
		}

		report.Batches++
		batch = s.newBatch(flight, batch.Sequence+1)
	}

	if batch.Records() > 0 {
		if err := s.send(ctx, batch); err != nil {
			return report, err
		}

		report.Batches++
	}

	report.FinishedAt = s.clock.Now()

	if err := s.complete(ctx, report); err != nil {
		return report, err
	}

	s.logger.Info("flight complete",
		"id", flight.ID,
		"records", report.Records,
		"entities", report.Entities,
		"associations", report.Associations,
		"batches", report.Batches,
	)

	return report, nil
}

func (s *Shuttle) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}

func (s *Shuttle) newBatch(flight *Flight, seq int) *Batch {
	return &Batch{FlightID: flight.ID, Flight: flight.Name(), Sequence: seq}
}

func (s *Shuttle) send(ctx context.Context, batch *Batch) error {
	path := fmt.Sprintf("/flights/%s/batches", batch.FlightID)

	if err := s.post(ctx, path, batch); err != nil {
		return fmt.Errorf("failed to send batch %d: %w", batch.Sequence, err)
	}

	s.logger.Debug("batch sent",
		"sequence", batch.Sequence,
		"records", batch.Records(),
		"entities", len(batch.Entities),
		"associations", len(batch.Associations),
	)

	return nil
}

type completion struct {
	Flight       string    `json:"flight"`
	Records      int       `json:"records"`
	Entities     int       `json:"entities"`
	Associations int       `json:"associations"`
	Skipped      int       `json:"skipped"`
	Batches      int       `json:"batches"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

func (s *Shuttle) complete(ctx context.Context, r Report) error {
	body := completion{
		Flight:       r.Flight,
		Records:      r.Records,
		Entities:     r.Entities,
		Associations: r.Associations,
		Skipped:      r.Skipped,
		Batches:      r.Batches,
		StartedAt:    r.StartedAt.UTC(),
		FinishedAt:   r.FinishedAt.UTC(),
	}

	if err := s.post(ctx, fmt.Sprintf("/flights/%s/complete", r.FlightID), body); err != nil {
		return fmt.Errorf("failed to complete flight %s: %w", r.FlightID, err)
	}

	return nil
}

// post retries network errors, 429 and 5xx. Other 4xx responses fail at once.
func (s *Shuttle) post(ctx context.Context, path string, body any) error {
	attempt := 0

	op := func() error {
		attempt++

		resp, err := s.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(path)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}

			s.logger.Warn("request failed", "path", path, "attempt", attempt, "error", err)

			return err
		}

		if resp.IsSuccess() {
			return nil
		}

		statusErr := &StatusError{Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}

		if retryable(resp.StatusCode()) {
			s.logger.Warn("request rejected", "path", path, "attempt", attempt, "status", resp.StatusCode())
			return statusErr
		}

		return backoff.Permanent(statusErr)
	}

	return backoff.Retry(op, s.backoff(ctx))
}

func (s *Shuttle) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.RetryWait
	b.MaxInterval = s.cfg.RetryWaitMax
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.MaxRetries)), ctx)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
