package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

const sampleCSV = "Date,Région,Produit,Prix_GNF,Stock_T,Besoin_Hebdo,lat,lon\n" +
	"2026-03-14,Conakry,Riz Local,8500,700,700,9.53,-13.67\n" +
	"2026-03-14,Kankan,Riz Local,11000,300,140,10.38,-9.3\n"

var fastBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	src := NewFileSource(path)
	assert.Equal(t, "file", src.Name())

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "Kankan", table[1].Region)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemoteSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/csv", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	src := NewRemoteSourceWithBackoff(srv.Client(), srv.URL, fastBackoff)
	assert.Equal(t, "remote", src.Name())

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 2)
}

func TestRemoteSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	table, err := NewRemoteSourceWithBackoff(srv.Client(), srv.URL, fastBackoff).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemoteSource_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewRemoteSourceWithBackoff(srv.Client(), srv.URL, fastBackoff).Load(context.Background())
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(4), calls.Load())
}

func TestRemoteSource_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewRemoteSourceWithBackoff(srv.Client(), srv.URL, fastBackoff).Load(context.Background())
	assert.ErrorIs(t, err, errUnexpected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteSource_SchemaErrorsPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Produit,Prix_GNF\nSucre,14000\n"))
	}))
	defer srv.Close()

	_, err := NewRemoteSourceWithBackoff(srv.Client(), srv.URL, fastBackoff).Load(context.Background())
	var schemaErr *market.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, market.ColRegion)
}

func TestRemoteSource_RequiresURL(t *testing.T) {
	_, err := NewRemoteSource(http.DefaultClient, "").Load(context.Background())
	assert.Error(t, err)
}

func TestRemoteSource_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRemoteSourceWithBackoff(srv.Client(), srv.URL, fastBackoff).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
