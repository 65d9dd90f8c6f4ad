package model

// ScoreBucket 评分分布直方图的单个分桶，顺序即展示顺序
type ScoreBucket struct {
	BucketLabel       string  `json:"bucket_label"`
	CandidateCount    int     `json:"candidate_count"`
	Percentage        float64 `json:"percentage"`
	AvgRatingInBucket float64 `json:"avg_rating_in_bucket"`
}

// DateCount 按日期的面试量
type DateCount struct {
	Date           string `json:"date"`
	CandidateCount int    `json:"candidate_count"`
}

// HourCount 按小时(0-23)的面试量
type HourCount struct {
	Hour           int `json:"hour"`
	CandidateCount int `json:"candidate_count"`
}

// ProctoringEvent 监考事件统计行，独立列表，不嵌入 AnalyticsRecord
type ProctoringEvent struct {
	EventType                 string   `json:"event_type"`
	EventCount                int      `json:"event_count"`
	InterviewsAffected        int      `json:"interviews_affected"`
	AvgTimeInInterviewMinutes *float64 `json:"avg_time_in_interview_minutes"`
}

// SectionPerformance 面试环节表现统计行
type SectionPerformance struct {
	SectionType        string   `json:"section_type"`
	SectionKey         string   `json:"section_key"`
	TotalSections      int      `json:"total_sections"`
	EvaluatedSections  int      `json:"evaluated_sections"`
	AvgSectionRating   *float64 `json:"avg_section_rating"`
	AvgDurationMinutes *float64 `json:"avg_duration_minutes"`
}

// AnalyticsRecord 一个职位的全部聚合指标。记录是"完整"的：
// 每个字段始终有值（计数默认 0，无法度量的比率为 null，分布为空序列），
// 即使上游某个来源缺失或部分畸形。每次加载周期整体重建，不做增量修补。
type AnalyticsRecord struct {
	// 面试指标
	AverageRating       *float64 `json:"averageRating"`
	TotalInterviews     int      `json:"totalInterviews"`
	RatedInterviews     int      `json:"ratedInterviews"`
	CompletedInterviews int      `json:"completedInterviews"`
	AverageDuration     *float64 `json:"averageDuration"`

	// 转化漏斗：阶段计数大致递减，但不强制校验（上游数据可能不一致）
	TotalApplications int `json:"totalApplications"`
	AppliedCount      int `json:"appliedCount"`
	ResumeCount       int `json:"resumeCount"`
	InterviewingCount int `json:"interviewingCount"`
	DoneCount         int `json:"doneCount"`

	// 漏斗比率由上游报表预先计算，不在本服务端重新推导
	AppliedToResumeRate      *float64 `json:"appliedToResumeRate"`
	ResumeToInterviewingRate *float64 `json:"resumeToInterviewingRate"`
	InterviewingToDoneRate   *float64 `json:"interviewingToDoneRate"`
	OverallConversionRate    *float64 `json:"overallConversionRate"`

	// 监考指标
	ProctoredInterviews  int      `json:"proctoredInterviews"`
	ConcernCount         int      `json:"concernCount"`
	TotalCriticalEvents  int      `json:"totalCriticalEvents"`
	AvgCriticalEvents    *float64 `json:"avgCriticalEvents"`
	CriticalEventPercent *float64 `json:"criticalEventPercent"`

	// 评分分布与时间线分布
	ScoreDistribution []ScoreBucket `json:"scoreDistribution"`
	DateDistribution  []DateCount   `json:"dateDistribution"`
	HourDistribution  []HourCount   `json:"hourDistribution"`

	// 招聘结果指标
	TotalHires       int      `json:"totalHires"`
	MeanDaysToHire   *float64 `json:"meanDaysToHire"`
	MedianDaysToHire *float64 `json:"medianDaysToHire"`

	// 完成度指标（两者不要求相加为 100）
	CompletionRate  *float64 `json:"completionRate"`
	AbandonmentRate *float64 `json:"abandonmentRate"`
}

// NewAnalyticsRecord 返回全默认值的完整记录，作为字段级合并的基底
func NewAnalyticsRecord() *AnalyticsRecord {
	return &AnalyticsRecord{
		ScoreDistribution: []ScoreBucket{},
		DateDistribution:  []DateCount{},
		HourDistribution:  []HourCount{},
	}
}
