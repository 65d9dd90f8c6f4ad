package service

import (
	"hireview_backend/internal/model"
	"hireview_backend/internal/repository"
)

// fetchResult 9个报表端点的抽取结果：单行端点取 data[0]，列表端点取整个 data
type fetchResult struct {
	metrics    *repository.InterviewMetricsRow
	conversion *repository.ConversionRow
	proctoring *repository.ProctoringMetricsRow
	buckets    []model.ScoreBucket
	hire       *repository.TimeToHireRow
	completion *repository.CompletionRow
	timeline   *repository.TimelineRow
	events     []model.ProctoringEvent
	sections   []model.SectionPerformance
}

func intOr(p *repository.FlexInt, def int) int {
	if p == nil {
		return def
	}
	return int(*p)
}

func floatPtr(p *repository.FlexFloat) *float64 {
	if p == nil {
		return nil
	}
	v := float64(*p)
	return &v
}

// mergeRecord 把抽取出的部分行逐字段合并到全默认基底记录上。
// 源端缺失或为null的字段保留默认值（计数0、比率null、分布空序列）。
// 逐字段复制，不做深合并；漏斗比率直接取上游预计算值，不在本地推导。
func mergeRecord(res *fetchResult) *model.AnalyticsRecord {
	rec := model.NewAnalyticsRecord()

	rec.AverageRating = floatPtr(res.metrics.AverageRating)
	rec.TotalInterviews = intOr(res.metrics.TotalInterviews, 0)
	rec.RatedInterviews = intOr(res.metrics.RatedInterviews, 0)
	rec.CompletedInterviews = intOr(res.metrics.CompletedInterviews, 0)
	rec.AverageDuration = floatPtr(res.metrics.AverageDuration)

	rec.TotalApplications = intOr(res.conversion.TotalApplications, 0)
	rec.AppliedCount = intOr(res.conversion.AppliedCount, 0)
	rec.ResumeCount = intOr(res.conversion.ResumeCount, 0)
	rec.InterviewingCount = intOr(res.conversion.InterviewingCount, 0)
	rec.DoneCount = intOr(res.conversion.DoneCount, 0)
	rec.AppliedToResumeRate = floatPtr(res.conversion.AppliedToResumeRate)
	rec.ResumeToInterviewingRate = floatPtr(res.conversion.ResumeToInterviewingRate)
	rec.InterviewingToDoneRate = floatPtr(res.conversion.InterviewingToDoneRate)
	rec.OverallConversionRate = floatPtr(res.conversion.OverallConversionRate)

	rec.ProctoredInterviews = intOr(res.proctoring.ProctoredInterviews, 0)
	rec.ConcernCount = intOr(res.proctoring.ConcernCount, 0)
	rec.TotalCriticalEvents = intOr(res.proctoring.TotalCriticalEvents, 0)
	rec.AvgCriticalEvents = floatPtr(res.proctoring.AvgCriticalEvents)
	rec.CriticalEventPercent = floatPtr(res.proctoring.CriticalEventPercent)

	if res.buckets != nil {
		rec.ScoreDistribution = res.buckets
	}
	if res.timeline.InterviewDateDistribution != nil {
		rec.DateDistribution = []model.DateCount(res.timeline.InterviewDateDistribution)
	}
	if res.timeline.InterviewTimeDistribution != nil {
		rec.HourDistribution = []model.HourCount(res.timeline.InterviewTimeDistribution)
	}

	rec.TotalHires = intOr(res.hire.TotalHires, 0)
	rec.MeanDaysToHire = floatPtr(res.hire.MeanDaysToHire)
	rec.MedianDaysToHire = floatPtr(res.hire.MedianDaysToHire)

	rec.CompletionRate = floatPtr(res.completion.CompletionRate)
	rec.AbandonmentRate = floatPtr(res.completion.AbandonmentRate)

	return rec
}
