package service

import (
	"context"
	"fmt"
	"hireview_backend/internal/config"
	"hireview_backend/internal/repository"
	"hireview_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobTestService(t *testing.T, handler http.HandlerFunc) *JobService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewJobService(repository.NewJobRepository(&config.UpstreamConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5 * time.Second,
	}))
}

func TestGetJob(t *testing.T) {
	svc := newJobTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"id":"job-1","title":"算法工程师"}}`)
	})

	job, err := svc.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "算法工程师", job.Title)
}

func TestGetJobWithoutID(t *testing.T) {
	svc := newJobTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected upstream request")
	})

	_, err := svc.GetJob(context.Background(), "")
	assert.ErrorIs(t, err, util.ErrNoJobID)
}

func TestGetJobNotFound(t *testing.T) {
	svc := newJobTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := svc.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, util.ErrJobNotFound)
}

func TestGetJobUpstreamError(t *testing.T) {
	svc := newJobTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := svc.GetJob(context.Background(), "job-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrJobNotFound)
}
