package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/prompb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomis52/mergington/catalog"
	"github.com/nomis52/mergington/metrics"
)

type failingRegistry struct {
	*metrics.PushRegistry
	err error
}

func (f *failingRegistry) Push(ctx context.Context) error {
	return f.err
}

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.DefaultActivities())
	require.NoError(t, err)
	return c
}

func TestReporter_Run(t *testing.T) {
	received := make(chan []prompb.TimeSeries, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		decoded, err := snappy.Decode(nil, body)
		require.NoError(t, err)
		var writeReq prompb.WriteRequest
		require.NoError(t, proto.Unmarshal(decoded, &writeReq))
		received <- writeReq.Timeseries
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cat := newCatalog(t)
	_, err := cat.Signup("Chess Club", "newstudent@mergington.edu")
	require.NoError(t, err)

	reg := metrics.NewPushRegistry(metrics.PushConfig{URL: server.URL, Prefix: "mergington", Job: "signup"})
	reporter, err := New(cat, reg, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, reporter.LastRun())

	require.NoError(t, reporter.Run(context.Background()))
	require.NotNil(t, reporter.LastRun())

	series := <-received
	// Participants and capacity for each of the three activities.
	require.Len(t, series, 6)

	values := map[string]float64{}
	for _, ts := range series {
		var name, activity string
		for _, l := range ts.Labels {
			switch l.Name {
			case "__name__":
				name = l.Value
			case "activity":
				activity = l.Value
			}
		}
		values[name+"/"+activity] = ts.Samples[0].Value
	}

	assert.Equal(t, 3.0, values["mergington_activity_participants/Chess Club"])
	assert.Equal(t, 12.0, values["mergington_activity_capacity/Chess Club"])
	assert.Equal(t, 2.0, values["mergington_activity_participants/Gym Class"])
	assert.Equal(t, 30.0, values["mergington_activity_capacity/Gym Class"])
}

func TestReporter_Run_PushError(t *testing.T) {
	reg := &failingRegistry{
		PushRegistry: metrics.NewPushRegistry(metrics.PushConfig{URL: "http://localhost:8428"}),
		err:          errors.New("connection refused"),
	}
	reporter, err := New(newCatalog(t), reg, slog.Default())
	require.NoError(t, err)

	err = reporter.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, reporter.LastRun())
}
