package repository

import (
	"context"
	"errors"
	"fmt"
	"hireview_backend/internal/config"
	"hireview_backend/internal/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJobRepo(t *testing.T, handler http.HandlerFunc) *JobRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewJobRepository(&config.UpstreamConfig{
		BaseURL:        srv.URL,
		Token:          "test-token",
		TimeoutSeconds: 5 * time.Second,
	})
}

func TestFindByIDEnvelope(t *testing.T) {
	repo := newTestJobRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/job-7/", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"data":{"id":"job-7","title":"后端工程师","is_active":true}}`)
	})

	job, err := repo.FindByID(context.Background(), "job-7")
	require.NoError(t, err)
	assert.Equal(t, "job-7", job.ID)
	assert.Equal(t, "后端工程师", job.Title)
	assert.True(t, job.IsActive)
}

func TestFindByIDBareObject(t *testing.T) {
	repo := newTestJobRepo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"job-8","title":"数据分析师","type_of_job":"FULL_TIME"}`)
	})

	job, err := repo.FindByID(context.Background(), "job-8")
	require.NoError(t, err)
	assert.Equal(t, "job-8", job.ID)
	assert.Equal(t, model.JobTypeFullTime, job.TypeOfJob)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestJobRepo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "job not found", http.StatusNotFound)
	})

	_, err := repo.FindByID(context.Background(), "missing")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestMockFlag(t *testing.T) {
	repo := newTestJobRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mock-flag", r.URL.Path)
		fmt.Fprint(w, `{"mock":true}`)
	})

	mock, err := repo.MockFlag(context.Background())
	require.NoError(t, err)
	assert.True(t, mock)
}

func TestMockFlagFailure(t *testing.T) {
	repo := newTestJobRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	mock, err := repo.MockFlag(context.Background())
	require.Error(t, err)
	assert.False(t, mock)
}
