package model

import "time"

// 职位类型
const (
	JobTypeFullTime   = "FULL_TIME"
	JobTypePartTime   = "PART_TIME"
	JobTypeContract   = "CONTRACT"
	JobTypeInternship = "INTERNSHIP"
)

// 职位可见性
const (
	JobVisibilityPublic  = "PUBLIC"
	JobVisibilityPrivate = "PRIVATE"
)

// Job 职位元数据，来自上游招聘平台
type Job struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	KeySkills         []string  `json:"key_skills"`
	TypeOfJob         string    `json:"type_of_job"`
	Visibility        string    `json:"visibility"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	IsActive          bool      `json:"is_active"`
	TotalApplications int       `json:"total_applications"`
	NewApplications   int       `json:"new_applications"`
}
