package repository

import (
	"context"
	"errors"
	"fmt"
	"hireview_backend/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, handler http.HandlerFunc) *ReportsRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewReportsRepository(&config.UpstreamConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5 * time.Second,
	})
}

func TestInterviewMetricsExtractsFirstRow(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/job-1/reports/interview-metrics", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		fmt.Fprint(w, `{"data":[
			{"average_rating":3.9,"total_interviews":10},
			{"average_rating":1.0,"total_interviews":999}
		]}`)
	})

	row, err := repo.InterviewMetrics(context.Background(), "job-1")
	require.NoError(t, err)
	require.NotNil(t, row.AverageRating)
	assert.Equal(t, 3.9, float64(*row.AverageRating))
	assert.Equal(t, 10, int(*row.TotalInterviews))
	assert.Nil(t, row.CompletedInterviews)
}

func TestInterviewMetricsEmptyData(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})

	row, err := repo.InterviewMetrics(context.Background(), "job-1")
	require.NoError(t, err)
	// 空数组等同于全字段缺失的行
	assert.Nil(t, row.AverageRating)
	assert.Nil(t, row.TotalInterviews)
}

func TestScoreDistributionUsesFullArray(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"bucket_label":"0-1","candidate_count":2,"percentage":20.0,"avg_rating_in_bucket":0.8},
			{"bucket_label":"0-1","candidate_count":8,"percentage":80.0,"avg_rating_in_bucket":0.9}
		]}`)
	})

	buckets, err := repo.ScoreDistribution(context.Background(), "job-1")
	require.NoError(t, err)
	// 保持顺序，标签不要求唯一
	require.Len(t, buckets, 2)
	assert.Equal(t, buckets[0].BucketLabel, buckets[1].BucketLabel)
	assert.Equal(t, 2, buckets[0].CandidateCount)
	assert.Equal(t, 8, buckets[1].CandidateCount)
}

func TestFetchReportHTTPError(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "report generation failed", http.StatusBadGateway)
	})

	_, err := repo.TimeToHire(context.Background(), "job-1")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "report generation failed", httpErr.Message)
	assert.Contains(t, err.Error(), ReportTimeToHire)
}

func TestFetchReportHTTPErrorEmptyBody(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := repo.InterviewCompletion(context.Background(), "job-1")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	// 空响应体回落到状态行
	assert.Equal(t, "503 Service Unavailable", httpErr.Message)
}

func TestFetchReportFormatError(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>definitely not json</html>`)
	})

	_, err := repo.ProctoringMetrics(context.Background(), "job-1")
	require.Error(t, err)

	var formatErr *FormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestFetchReportTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	repo := NewReportsRepository(&config.UpstreamConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: time.Second,
	})
	srv.Close()

	_, err := repo.ApplicationConversion(context.Background(), "job-1")
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestBasicReportBinary(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04, 0x01, 0x02}
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/job-1/reports/basic-report", r.URL.Path)
		assert.Equal(t, "excel", r.URL.Query().Get("format"))
		w.Write(payload)
	})

	data, err := repo.BasicReport(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestBasicReportFailure(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no report", http.StatusNotFound)
	})

	_, err := repo.BasicReport(context.Background(), "job-1")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}
