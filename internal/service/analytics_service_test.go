package service

import (
	"context"
	"fmt"
	"hireview_backend/internal/config"
	"hireview_backend/internal/model"
	"hireview_backend/internal/repository"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamStub 模拟上游报表服务：按端点名返回样例数据，
// 可指定单个端点失败或覆盖时间线负载
type upstreamStub struct {
	failReport  string
	timelineRaw string
	requests    int64
}

var stubPayloads = map[string]string{
	repository.ReportInterviewMetrics: `{"data":[{
		"average_rating": 4.2,
		"total_interviews": 50,
		"rated_interviews": "40",
		"completed_interviews": 38,
		"average_duration": "37.5"
	}]}`,
	repository.ReportApplicationConversion: `{"data":[{
		"total_applications": 200,
		"applied_count": 200,
		"resume_count": 120,
		"interviewing_count": 50,
		"applied_to_resume_rate": 60.0,
		"overall_conversion_rate": "19.0"
	}]}`,
	repository.ReportProctoringMetrics: `{"data":[{
		"proctored_interviews": 38,
		"concern_count": 4,
		"total_critical_events": 9,
		"avg_critical_events": 0.24,
		"critical_event_percent": 10.5
	}]}`,
	repository.ReportScoreDistribution: `{"data":[
		{"bucket_label":"0-1","candidate_count":3,"percentage":7.5,"avg_rating_in_bucket":1.0},
		{"bucket_label":"1-2","candidate_count":8,"percentage":20.0,"avg_rating_in_bucket":2.0},
		{"bucket_label":"2-3","candidate_count":1,"percentage":2.5,"avg_rating_in_bucket":3.0}
	]}`,
	repository.ReportTimeToHire: `{"data":[{
		"total_hires": 7,
		"mean_days_to_hire": 21.5,
		"median_days_to_hire": 18.0
	}]}`,
	repository.ReportInterviewCompletion: `{"data":[{
		"completion_rate": 82.5
	}]}`,
	repository.ReportInterviewTimeline: `{"data":[{
		"interview_date_distribution": [{"date":"2025-01-01","candidate_count":3}],
		"interview_time_distribution": "[{\"hour\":10,\"candidate_count\":5}]"
	}]}`,
	repository.ReportProctoringEvents: `{"data":[
		{"event_type":"tab_switch","event_count":12,"interviews_affected":6,"avg_time_in_interview_minutes":11.0}
	]}`,
	repository.ReportSectionPerformance: `{"data":[
		{"section_type":"coding","section_key":"coding-1","total_sections":38,"evaluated_sections":30,"avg_section_rating":3.2,"avg_duration_minutes":24.0}
	]}`,
}

func (s *upstreamStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.requests, 1)

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// api/jobs/{id}/reports/{report}
		if len(parts) != 5 || parts[1] != "jobs" || parts[3] != "reports" {
			http.NotFound(w, r)
			return
		}
		report := parts[4]

		if report == s.failReport {
			http.Error(w, "report generation failed", http.StatusInternalServerError)
			return
		}

		payload, ok := stubPayloads[report]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if report == repository.ReportInterviewTimeline && s.timelineRaw != "" {
			payload = s.timelineRaw
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	})
}

func newTestService(t *testing.T, stub *upstreamStub) *AnalyticsService {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	upstream := &config.UpstreamConfig{BaseURL: srv.URL, TimeoutSeconds: 5 * time.Second}
	reports := repository.NewReportsRepository(upstream)
	jobs := repository.NewJobRepository(upstream)
	mockMode := NewMockModeService(jobs, &config.MockConfig{Override: "false"})

	return NewAnalyticsService(reports, mockMode, nil, &config.CacheConfig{})
}

func TestLoadWithoutJobID(t *testing.T) {
	stub := &upstreamStub{}
	svc := newTestService(t, stub)

	snap := svc.Load(context.Background(), "")

	assert.Equal(t, StateReady, snap.State)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Record)
	assert.Empty(t, snap.Events)
	assert.Empty(t, snap.Sections)
	// 无职位标识时不发起任何网络调用
	assert.EqualValues(t, 0, atomic.LoadInt64(&stub.requests))
}

func TestLoadMergesAllEndpoints(t *testing.T) {
	stub := &upstreamStub{}
	svc := newTestService(t, stub)

	snap := svc.Load(context.Background(), "job-1")

	require.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.Record)
	assert.False(t, snap.IsDemo)
	rec := snap.Record

	// 面试指标：数字与带引号的数字都被接受
	require.NotNil(t, rec.AverageRating)
	assert.Equal(t, 4.2, *rec.AverageRating)
	assert.Equal(t, 50, rec.TotalInterviews)
	assert.Equal(t, 40, rec.RatedInterviews)
	assert.Equal(t, 38, rec.CompletedInterviews)
	require.NotNil(t, rec.AverageDuration)
	assert.Equal(t, 37.5, *rec.AverageDuration)

	// 漏斗：缺失的 done_count 保留默认0，缺失的比率保持null
	assert.Equal(t, 200, rec.TotalApplications)
	assert.Equal(t, 120, rec.ResumeCount)
	assert.Equal(t, 0, rec.DoneCount)
	require.NotNil(t, rec.AppliedToResumeRate)
	assert.Equal(t, 60.0, *rec.AppliedToResumeRate)
	assert.Nil(t, rec.ResumeToInterviewingRate)
	require.NotNil(t, rec.OverallConversionRate)
	assert.Equal(t, 19.0, *rec.OverallConversionRate)

	// 监考
	assert.Equal(t, 38, rec.ProctoredInterviews)
	assert.Equal(t, 9, rec.TotalCriticalEvents)

	// 评分分布保持插入顺序
	require.Len(t, rec.ScoreDistribution, 3)
	assert.Equal(t, "0-1", rec.ScoreDistribution[0].BucketLabel)

	// 时间线：数组原样通过，字符串被解码
	require.Len(t, rec.DateDistribution, 1)
	assert.Equal(t, "2025-01-01", rec.DateDistribution[0].Date)
	assert.Equal(t, 3, rec.DateDistribution[0].CandidateCount)
	require.Len(t, rec.HourDistribution, 1)
	assert.Equal(t, 10, rec.HourDistribution[0].Hour)

	// 招聘结果与完成度：缺失的 abandonment_rate 保持null
	assert.Equal(t, 7, rec.TotalHires)
	require.NotNil(t, rec.CompletionRate)
	assert.Equal(t, 82.5, *rec.CompletionRate)
	assert.Nil(t, rec.AbandonmentRate)

	// 列表副产物
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "tab_switch", snap.Events[0].EventType)
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "coding-1", snap.Sections[0].SectionKey)
}

// 9个端点任何一个失败，整轮聚合失败：记录置空，两个列表清空
func TestLoadAllOrNothing(t *testing.T) {
	allReports := []string{
		repository.ReportInterviewMetrics,
		repository.ReportApplicationConversion,
		repository.ReportProctoringMetrics,
		repository.ReportScoreDistribution,
		repository.ReportTimeToHire,
		repository.ReportInterviewCompletion,
		repository.ReportInterviewTimeline,
		repository.ReportProctoringEvents,
		repository.ReportSectionPerformance,
	}

	for _, failing := range allReports {
		t.Run(failing, func(t *testing.T) {
			stub := &upstreamStub{failReport: failing}
			svc := newTestService(t, stub)

			snap := svc.Load(context.Background(), "job-1")

			assert.Equal(t, StateErrored, snap.State)
			assert.Nil(t, snap.Record)
			assert.Empty(t, snap.Events)
			assert.Empty(t, snap.Sections)
			assert.Contains(t, snap.Error, failing)

			// 兜底演示数据必须可区分地与错误一起返回
			require.NotNil(t, snap.DemoRecord)
			assert.False(t, snap.IsDemo)
		})
	}
}

func TestLoadTimelineUnparsableString(t *testing.T) {
	stub := &upstreamStub{
		timelineRaw: `{"data":[{
			"interview_date_distribution": "not valid json [",
			"interview_time_distribution": []
		}]}`,
	}
	svc := newTestService(t, stub)

	snap := svc.Load(context.Background(), "job-1")

	require.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.Record)
	// 字符串解码失败回落为空序列，不导致整轮失败
	assert.Empty(t, snap.Record.DateDistribution)
	assert.NotNil(t, snap.Record.DateDistribution)
	assert.Empty(t, snap.Record.HourDistribution)
}

func TestLoadMockMode(t *testing.T) {
	stub := &upstreamStub{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	upstream := &config.UpstreamConfig{BaseURL: srv.URL, TimeoutSeconds: 5 * time.Second}
	reports := repository.NewReportsRepository(upstream)
	jobs := repository.NewJobRepository(upstream)
	mockMode := NewMockModeService(jobs, &config.MockConfig{Override: "true"})
	svc := NewAnalyticsService(reports, mockMode, nil, &config.CacheConfig{})

	snap := svc.Load(context.Background(), "job-1")

	require.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.Record)
	// mock模式：固定数据集，带可区分标记，不发起报表请求
	assert.True(t, snap.IsDemo)
	assert.NotEmpty(t, snap.Events)
	assert.EqualValues(t, 0, atomic.LoadInt64(&stub.requests))
}

func TestLoadRecoversAfterError(t *testing.T) {
	stub := &upstreamStub{failReport: repository.ReportTimeToHire}
	svc := newTestService(t, stub)

	snap := svc.Load(context.Background(), "job-1")
	require.Equal(t, StateErrored, snap.State)

	// 上游恢复后，重新加载清除错误并得到完整记录
	stub.failReport = ""
	snap = svc.Refresh(context.Background(), "job-1")
	require.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.Record)
	assert.Empty(t, snap.Error)
}

// 被取代的加载周期的迟到结果不能覆盖新状态
func TestStaleGenerationDiscarded(t *testing.T) {
	agg := &aggregator{state: StateIdle}

	oldGen := agg.beginLoad()
	newGen := agg.beginLoad()
	require.NotEqual(t, oldGen, newGen)

	stale := model.NewAnalyticsRecord()
	stale.TotalInterviews = 999
	agg.completeReady(oldGen, stale, nil, nil, false)

	snap := agg.snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Nil(t, snap.Record)

	fresh := model.NewAnalyticsRecord()
	fresh.TotalInterviews = 1
	agg.completeReady(newGen, fresh, nil, nil, false)

	snap = agg.snapshot()
	assert.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.Record)
	assert.Equal(t, 1, snap.Record.TotalInterviews)

	// 迟到的失败同样被丢弃
	agg.completeErrored(oldGen, assert.AnError)
	snap = agg.snapshot()
	assert.Equal(t, StateReady, snap.State)
}

func TestScoreSummary(t *testing.T) {
	stub := &upstreamStub{}
	svc := newTestService(t, stub)

	summary, err := svc.ScoreSummary(context.Background(), "job-1")
	require.NoError(t, err)

	// 分布 [{3,1},{8,2},{1,3}]：众数2，桶中位数2，真中位数2
	assert.Equal(t, 2.0, summary.Mode)
	assert.Equal(t, 2.0, summary.BucketMedian)
	assert.Equal(t, 2.0, summary.Median)
	assert.False(t, summary.NoData)
}

func TestScoreSummaryNoJob(t *testing.T) {
	stub := &upstreamStub{}
	svc := newTestService(t, stub)

	summary, err := svc.ScoreSummary(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, summary.NoData)
	assert.Equal(t, NoDataScore, summary.Mode)
	assert.Equal(t, NoDataScore, summary.BucketMedian)
	assert.Equal(t, NoDataScore, summary.Median)
}
