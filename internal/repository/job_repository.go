package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"hireview_backend/internal/config"
	"hireview_backend/internal/model"
)

// JobRepository 职位元数据与mock标志的上游访问
type JobRepository struct {
	upstreamClient
}

func NewJobRepository(cfg *config.UpstreamConfig) *JobRepository {
	return &JobRepository{
		upstreamClient: upstreamClient{
			client:  NewHTTPClient(cfg.TimeoutSeconds),
			baseURL: cfg.BaseURL,
			token:   cfg.Token,
		},
	}
}

// FindByID 拉取单个职位。上游既可能返回 {"data": Job}，也可能直接返回 Job
func (r *JobRepository) FindByID(ctx context.Context, jobID string) (*model.Job, error) {
	url := fmt.Sprintf("%s/api/jobs/%s/", r.baseURL, jobID)

	var raw json.RawMessage
	if err := r.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	var env struct {
		Data *model.Job `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var job model.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, &FormatError{Err: err}
	}
	return &job, nil
}

// MockFlag 查询服务端的mock开关
func (r *JobRepository) MockFlag(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/api/mock-flag", r.baseURL)

	var resp struct {
		Mock bool `json:"mock"`
	}
	if err := r.getJSON(ctx, url, &resp); err != nil {
		return false, err
	}
	return resp.Mock, nil
}
