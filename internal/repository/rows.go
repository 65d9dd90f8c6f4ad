package repository

import (
	"encoding/json"
	"hireview_backend/internal/model"
)

// 上游报表的聚合值可能以JSON数字或带引号的数字字符串返回，
// FlexFloat/FlexInt 在解码层吸收这种差异，合并逻辑不感知。

type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return json.Unmarshal([]byte(s), (*float64)(f))
	}
	return json.Unmarshal(b, (*float64)(f))
}

type FlexInt int

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return json.Unmarshal([]byte(s), (*int)(i))
	}
	return json.Unmarshal(b, (*int)(i))
}

// DateCountList 既可能是数组，也可能是JSON编码的字符串。
// 字符串解码失败回落为空序列，不向上传播；数组原样通过。
type DateCountList []model.DateCount

func (l *DateCountList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*l = DateCountList{}
			return nil
		}
		if err := json.Unmarshal([]byte(s), (*[]model.DateCount)(l)); err != nil {
			*l = DateCountList{}
		}
		return nil
	}
	return json.Unmarshal(b, (*[]model.DateCount)(l))
}

// HourCountList 同 DateCountList
type HourCountList []model.HourCount

func (l *HourCountList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*l = HourCountList{}
			return nil
		}
		if err := json.Unmarshal([]byte(s), (*[]model.HourCount)(l)); err != nil {
			*l = HourCountList{}
		}
		return nil
	}
	return json.Unmarshal(b, (*[]model.HourCount)(l))
}

// 以下是9个报表端点的部分行。字段全部为指针：
// 缺失或为null的字段在合并时保留基底记录的默认值。

type InterviewMetricsRow struct {
	AverageRating       *FlexFloat `json:"average_rating"`
	TotalInterviews     *FlexInt   `json:"total_interviews"`
	RatedInterviews     *FlexInt   `json:"rated_interviews"`
	CompletedInterviews *FlexInt   `json:"completed_interviews"`
	AverageDuration     *FlexFloat `json:"average_duration"`
}

type ConversionRow struct {
	TotalApplications *FlexInt `json:"total_applications"`
	AppliedCount      *FlexInt `json:"applied_count"`
	ResumeCount       *FlexInt `json:"resume_count"`
	InterviewingCount *FlexInt `json:"interviewing_count"`
	DoneCount         *FlexInt `json:"done_count"`

	AppliedToResumeRate      *FlexFloat `json:"applied_to_resume_rate"`
	ResumeToInterviewingRate *FlexFloat `json:"resume_to_interviewing_rate"`
	InterviewingToDoneRate   *FlexFloat `json:"interviewing_to_done_rate"`
	OverallConversionRate    *FlexFloat `json:"overall_conversion_rate"`
}

type ProctoringMetricsRow struct {
	ProctoredInterviews  *FlexInt   `json:"proctored_interviews"`
	ConcernCount         *FlexInt   `json:"concern_count"`
	TotalCriticalEvents  *FlexInt   `json:"total_critical_events"`
	AvgCriticalEvents    *FlexFloat `json:"avg_critical_events"`
	CriticalEventPercent *FlexFloat `json:"critical_event_percent"`
}

type TimeToHireRow struct {
	TotalHires       *FlexInt   `json:"total_hires"`
	MeanDaysToHire   *FlexFloat `json:"mean_days_to_hire"`
	MedianDaysToHire *FlexFloat `json:"median_days_to_hire"`
}

type CompletionRow struct {
	CompletionRate  *FlexFloat `json:"completion_rate"`
	AbandonmentRate *FlexFloat `json:"abandonment_rate"`
}

type TimelineRow struct {
	InterviewDateDistribution DateCountList `json:"interview_date_distribution"`
	InterviewTimeDistribution HourCountList `json:"interview_time_distribution"`
}
