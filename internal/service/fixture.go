package service

import "hireview_backend/internal/model"

func f(v float64) *float64 { return &v }

// demoAnalytics 返回固定的演示数据集。mock模式下直接作为记录使用；
// 聚合失败时作为兜底数据随错误一起返回，必须带 isDemo 标记，
// 不能与真实数据混淆。
func demoAnalytics() (*model.AnalyticsRecord, []model.ProctoringEvent, []model.SectionPerformance) {
	rec := model.NewAnalyticsRecord()

	rec.AverageRating = f(3.8)
	rec.TotalInterviews = 128
	rec.RatedInterviews = 104
	rec.CompletedInterviews = 97
	rec.AverageDuration = f(42.5)

	rec.TotalApplications = 560
	rec.AppliedCount = 560
	rec.ResumeCount = 312
	rec.InterviewingCount = 128
	rec.DoneCount = 97
	rec.AppliedToResumeRate = f(55.7)
	rec.ResumeToInterviewingRate = f(41.0)
	rec.InterviewingToDoneRate = f(75.8)
	rec.OverallConversionRate = f(17.3)

	rec.ProctoredInterviews = 97
	rec.ConcernCount = 11
	rec.TotalCriticalEvents = 23
	rec.AvgCriticalEvents = f(0.24)
	rec.CriticalEventPercent = f(8.2)

	rec.ScoreDistribution = []model.ScoreBucket{
		{BucketLabel: "0-1", CandidateCount: 4, Percentage: 3.8, AvgRatingInBucket: 0.7},
		{BucketLabel: "1-2", CandidateCount: 13, Percentage: 12.5, AvgRatingInBucket: 1.6},
		{BucketLabel: "2-3", CandidateCount: 27, Percentage: 26.0, AvgRatingInBucket: 2.5},
		{BucketLabel: "3-4", CandidateCount: 38, Percentage: 36.5, AvgRatingInBucket: 3.6},
		{BucketLabel: "4-5", CandidateCount: 22, Percentage: 21.2, AvgRatingInBucket: 4.4},
	}

	rec.DateDistribution = []model.DateCount{
		{Date: "2025-01-06", CandidateCount: 9},
		{Date: "2025-01-07", CandidateCount: 14},
		{Date: "2025-01-08", CandidateCount: 11},
		{Date: "2025-01-09", CandidateCount: 17},
		{Date: "2025-01-10", CandidateCount: 12},
	}

	rec.HourDistribution = []model.HourCount{
		{Hour: 9, CandidateCount: 12},
		{Hour: 10, CandidateCount: 21},
		{Hour: 11, CandidateCount: 18},
		{Hour: 14, CandidateCount: 24},
		{Hour: 15, CandidateCount: 16},
		{Hour: 16, CandidateCount: 6},
	}

	rec.TotalHires = 14
	rec.MeanDaysToHire = f(23.4)
	rec.MedianDaysToHire = f(19.0)

	rec.CompletionRate = f(87.3)
	rec.AbandonmentRate = f(9.6)

	events := []model.ProctoringEvent{
		{EventType: "tab_switch", EventCount: 41, InterviewsAffected: 19, AvgTimeInInterviewMinutes: f(12.3)},
		{EventType: "multiple_faces", EventCount: 7, InterviewsAffected: 5, AvgTimeInInterviewMinutes: f(20.1)},
		{EventType: "no_face", EventCount: 15, InterviewsAffected: 9, AvgTimeInInterviewMinutes: nil},
	}

	sections := []model.SectionPerformance{
		{SectionType: "coding", SectionKey: "coding-1", TotalSections: 97, EvaluatedSections: 88, AvgSectionRating: f(3.4), AvgDurationMinutes: f(25.0)},
		{SectionType: "behavioral", SectionKey: "behavioral-1", TotalSections: 97, EvaluatedSections: 91, AvgSectionRating: f(4.0), AvgDurationMinutes: f(12.8)},
		{SectionType: "system_design", SectionKey: "design-1", TotalSections: 43, EvaluatedSections: 36, AvgSectionRating: f(3.1), AvgDurationMinutes: nil},
	}

	return rec, events, sections
}
