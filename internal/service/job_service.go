package service

import (
	"context"
	"errors"
	"hireview_backend/internal/model"
	"hireview_backend/internal/repository"
	"hireview_backend/internal/util"
)

// JobService 职位元数据加载
type JobService struct {
	JobRepo *repository.JobRepository
}

func NewJobService(jobRepo *repository.JobRepository) *JobService {
	return &JobService{JobRepo: jobRepo}
}

func (s *JobService) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	if jobID == "" {
		return nil, util.ErrNoJobID
	}

	job, err := s.JobRepo.FindByID(ctx, jobID)
	if err != nil {
		var httpErr *repository.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == 404 {
			return nil, util.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}
