package controller

import (
	"errors"
	"hireview_backend/internal/service"
	"hireview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type JobController struct {
	JobService *service.JobService
}

func NewJobController(jobService *service.JobService) *JobController {
	return &JobController{JobService: jobService}
}

// @Summary 获取职位信息
// @Description 获取单个职位的元数据
// @Tags 职位
// @Produce json
// @Param id path string true "职位ID"
// @Success 200 {object} util.Response
// @Router /api/jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	jobID := ctx.Param("id")

	job, err := c.JobService.GetJob(ctx.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, util.ErrJobNotFound) {
			util.NotFound(ctx)
			return
		}
		if errors.Is(err, util.ErrNoJobID) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, job)
}
