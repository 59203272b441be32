package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMakes_CachesWithinTTL(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"Results":[{"Make_ID":440,"Make_Name":"ASTON MARTIN"}]}`))
	}))
	defer srv.Close()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewClientWith(srv.URL, time.Hour, srv.Client(), func() time.Time { return clock })

	first, err := c.Makes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Make{{ID: 440, Name: "ASTON MARTIN"}}, first)

	_, err = c.Makes(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())
}

func TestMakes_RefetchesAfterTTL(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"Results":[]}`))
	}))
	defer srv.Close()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewClientWith(srv.URL, time.Hour, srv.Client(), func() time.Time { return clock })

	_, err := c.Makes(context.Background())
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	_, err = c.Makes(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), calls.Load())
}

func TestMakes_ServesStaleOnUpstreamFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"Results":[{"Make_ID":1,"Make_Name":"HONDA"}]}`))
	}))
	defer srv.Close()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewClientWith(srv.URL, time.Minute, srv.Client(), func() time.Time { return clock })

	_, err := c.Makes(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	clock = clock.Add(time.Hour)
	stale, err := c.Makes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Make{{ID: 1, Name: "HONDA"}}, stale)
}

func TestMakes_ErrorWithEmptyCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWith(srv.URL, time.Minute, srv.Client(), time.Now)
	_, err := c.Makes(context.Background())
	require.Error(t, err)
}
