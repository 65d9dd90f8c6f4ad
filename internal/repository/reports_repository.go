package repository

import (
	"context"
	"fmt"
	"hireview_backend/internal/config"
	"hireview_backend/internal/model"
	"hireview_backend/pkg/monitoring"
	"hireview_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// 报表端点名，与上游路径一一对应
const (
	ReportInterviewMetrics      = "interview-metrics"
	ReportApplicationConversion = "application-conversion"
	ReportProctoringMetrics     = "proctoring-metrics"
	ReportScoreDistribution     = "score-distribution"
	ReportTimeToHire            = "time-to-hire"
	ReportInterviewCompletion   = "interview-completion"
	ReportInterviewTimeline     = "interview-timeline"
	ReportProctoringEvents      = "proctoring-events"
	ReportSectionPerformance    = "section-performance"
	ReportBasic                 = "basic-report"
)

// ReportsRepository 上游报表端点的数据访问层。
// 单行端点返回 data 数组的第一个元素，列表端点返回整个 data 数组。
type ReportsRepository struct {
	upstreamClient
}

func NewReportsRepository(cfg *config.UpstreamConfig) *ReportsRepository {
	return &ReportsRepository{
		upstreamClient: upstreamClient{
			client:  NewHTTPClient(cfg.TimeoutSeconds),
			baseURL: cfg.BaseURL,
			token:   cfg.Token,
		},
	}
}

func (r *ReportsRepository) reportURL(jobID, report, format string) string {
	return fmt.Sprintf("%s/api/jobs/%s/reports/%s?format=%s", r.baseURL, jobID, report, format)
}

// fetchReport 拉取单个报表并记录指标与追踪span
func (r *ReportsRepository) fetchReport(ctx context.Context, jobID, report string, out interface{}) error {
	ctx, span := tracing.Tracer.Start(ctx, "reports.fetch")
	span.SetAttributes(
		attribute.String("report", report),
		attribute.String("job_id", jobID),
	)
	defer span.End()

	start := time.Now()
	err := r.getJSON(ctx, r.reportURL(jobID, report, "json"), out)
	monitoring.UpstreamDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.UpstreamFailureCounter.WithLabelValues(report).Inc()
		span.RecordError(err)
		return fmt.Errorf("%s: %w", report, err)
	}
	return nil
}

func (r *ReportsRepository) InterviewMetrics(ctx context.Context, jobID string) (*InterviewMetricsRow, error) {
	var env struct {
		Data []InterviewMetricsRow `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportInterviewMetrics, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return &InterviewMetricsRow{}, nil
	}
	return &env.Data[0], nil
}

func (r *ReportsRepository) ApplicationConversion(ctx context.Context, jobID string) (*ConversionRow, error) {
	var env struct {
		Data []ConversionRow `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportApplicationConversion, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return &ConversionRow{}, nil
	}
	return &env.Data[0], nil
}

func (r *ReportsRepository) ProctoringMetrics(ctx context.Context, jobID string) (*ProctoringMetricsRow, error) {
	var env struct {
		Data []ProctoringMetricsRow `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportProctoringMetrics, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return &ProctoringMetricsRow{}, nil
	}
	return &env.Data[0], nil
}

func (r *ReportsRepository) ScoreDistribution(ctx context.Context, jobID string) ([]model.ScoreBucket, error) {
	var env struct {
		Data []model.ScoreBucket `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportScoreDistribution, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (r *ReportsRepository) TimeToHire(ctx context.Context, jobID string) (*TimeToHireRow, error) {
	var env struct {
		Data []TimeToHireRow `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportTimeToHire, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return &TimeToHireRow{}, nil
	}
	return &env.Data[0], nil
}

func (r *ReportsRepository) InterviewCompletion(ctx context.Context, jobID string) (*CompletionRow, error) {
	var env struct {
		Data []CompletionRow `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportInterviewCompletion, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return &CompletionRow{}, nil
	}
	return &env.Data[0], nil
}

func (r *ReportsRepository) InterviewTimeline(ctx context.Context, jobID string) (*TimelineRow, error) {
	var env struct {
		Data []TimelineRow `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportInterviewTimeline, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return &TimelineRow{}, nil
	}
	return &env.Data[0], nil
}

func (r *ReportsRepository) ProctoringEvents(ctx context.Context, jobID string) ([]model.ProctoringEvent, error) {
	var env struct {
		Data []model.ProctoringEvent `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportProctoringEvents, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (r *ReportsRepository) SectionPerformance(ctx context.Context, jobID string) ([]model.SectionPerformance, error) {
	var env struct {
		Data []model.SectionPerformance `json:"data"`
	}
	if err := r.fetchReport(ctx, jobID, ReportSectionPerformance, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// BasicReport 下载上游生成的表格报告（二进制）
func (r *ReportsRepository) BasicReport(ctx context.Context, jobID string) ([]byte, error) {
	ctx, span := tracing.Tracer.Start(ctx, "reports.download")
	span.SetAttributes(attribute.String("job_id", jobID))
	defer span.End()

	start := time.Now()
	body, err := r.getBinary(ctx, r.reportURL(jobID, ReportBasic, "excel"))
	monitoring.UpstreamDuration.WithLabelValues(ReportBasic).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.UpstreamFailureCounter.WithLabelValues(ReportBasic).Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", ReportBasic, err)
	}
	return body, nil
}
