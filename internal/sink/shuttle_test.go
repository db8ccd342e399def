package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/testutil"
)

const (
	shuttleURL   = "https://shuttle.test/api"
	batchesURL   = shuttleURL + "/flights/flight-1/batches"
	completeURL  = shuttleURL + "/flights/flight-1/complete"
	batchesCall  = "POST " + batchesURL
	completeCall = "POST " + completeURL
)

func newTestShuttle(t *testing.T, transport http.RoundTripper, batchSize int) *Shuttle {
	t.Helper()

	s, err := NewShuttle(ShuttleConfig{
		URL:          shuttleURL + "/",
		Token:        "secret",
		BatchSize:    batchSize,
		MaxRetries:   2,
		RetryWait:    time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
		Transport:    transport,
		Logger:       testutil.NewTestLogger(t),
		Clock:        clockwork.NewFakeClockAt(testStart),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestNewShuttle(t *testing.T) {
	_, err := NewShuttle(ShuttleConfig{})
	require.Error(t, err)

	s, err := NewShuttle(ShuttleConfig{URL: shuttleURL})
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, s.cfg.BatchSize)
	assert.Equal(t, DefaultTimeout, s.cfg.Timeout)
	assert.Equal(t, DefaultRetryWait, s.cfg.RetryWait)
	assert.Equal(t, DefaultRetryWaitMax, s.cfg.RetryWaitMax)
}

func TestShuttle_Launch(t *testing.T) {
	transport := httpmock.NewMockTransport()

	var (
		mu      sync.Mutex
		batches []Batch
	)

	transport.RegisterResponder(http.MethodPost, batchesURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

		var b Batch
		if err := json.NewDecoder(req.Body).Decode(&b); err != nil {
			return httpmock.NewStringResponse(http.StatusBadRequest, err.Error()), nil
		}

		mu.Lock()
		batches = append(batches, b)
		mu.Unlock()

		return httpmock.NewStringResponse(http.StatusAccepted, `{}`), nil
	})

	var done map[string]any

	transport.RegisterResponder(http.MethodPost, completeURL, func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&done); err != nil {
			return httpmock.NewStringResponse(http.StatusBadRequest, err.Error()), nil
		}

		return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
	})

	report, err := newTestShuttle(t, transport, 2).Launch(context.Background(), testFlight(t, testRows...))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Batches)
	assert.Equal(t, 3, report.Records)
	assert.Equal(t, 4, report.Entities)
	assert.Equal(t, 1, report.Associations)

	require.Len(t, batches, 2)
	assert.Equal(t, 0, batches[0].Sequence)
	assert.Equal(t, 1, batches[1].Sequence)
	assert.Equal(t, "test", batches[0].Flight)
	assert.Len(t, batches[0].Entities, 3)
	assert.Len(t, batches[0].Associations, 1)
	assert.Len(t, batches[1].Entities, 1)

	assert.Equal(t, "test", done["flight"])
	assert.InDelta(t, 3, done["records"], 0)
	assert.InDelta(t, 2, done["batches"], 0)

	calls := transport.GetCallCountInfo()
	assert.Equal(t, 2, calls[batchesCall])
	assert.Equal(t, 1, calls[completeCall])
}

func TestShuttle_LaunchEmpty(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodPost, completeURL, httpmock.NewStringResponder(http.StatusOK, `{}`))

	report, err := newTestShuttle(t, transport, 10).Launch(context.Background(), testFlight(t))
	require.NoError(t, err)

	assert.Zero(t, report.Batches)
	assert.Equal(t, 1, transport.GetCallCountInfo()[completeCall])
	assert.Zero(t, transport.GetCallCountInfo()[batchesCall])
}

func TestShuttle_Retries(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		wantErr   bool
		wantCalls int
		status    int
	}{
		{
			name: "server error then success",
			responder: httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy").
				Then(httpmock.NewStringResponder(http.StatusOK, `{}`)),
			wantCalls: 2,
		},
		{
			name: "rate limited then success",
			responder: httpmock.NewStringResponder(http.StatusTooManyRequests, "").
				Then(httpmock.NewStringResponder(http.StatusOK, `{}`)),
			wantCalls: 2,
		},
		{
			name:      "server error exhausts retries",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, "down"),
			wantErr:   true,
			wantCalls: 3,
			status:    http.StatusInternalServerError,
		},
		{
			name:      "client error is not retried",
			responder: httpmock.NewStringResponder(http.StatusUnauthorized, "bad token"),
			wantErr:   true,
			wantCalls: 1,
			status:    http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponder(http.MethodPost, batchesURL, tt.responder)
			transport.RegisterResponder(http.MethodPost, completeURL, httpmock.NewStringResponder(http.StatusOK, `{}`))

			_, err := newTestShuttle(t, transport, 10).Launch(context.Background(), testFlight(t, testRows...))

			assert.Equal(t, tt.wantCalls, transport.GetCallCountInfo()[batchesCall])

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Status)
			assert.Zero(t, transport.GetCallCountInfo()[completeCall])
		})
	}
}

func TestShuttle_LaunchCancelled(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodPost, batchesURL, httpmock.NewStringResponder(http.StatusOK, `{}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestShuttle(t, transport, 10).Launch(ctx, testFlight(t, testRows...))
	require.ErrorIs(t, err, context.Canceled)
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, "shuttle responded with status 400", (&StatusError{Status: 400}).Error())
	assert.Equal(t, "shuttle responded with status 500: down", (&StatusError{Status: 500, Body: "down"}).Error())
}
