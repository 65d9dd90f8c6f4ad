package controller

import (
	"hireview_backend/internal/repository"
	"hireview_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	Redis   *redis.Client
	JobRepo *repository.JobRepository
}

func NewHealthController(rdb *redis.Client, jobRepo *repository.JobRepository) *HealthController {
	return &HealthController{Redis: rdb, JobRepo: jobRepo}
}

// @Summary 健康检查
// @Description 检查服务、上游报表服务与缓存的状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	cache := "disabled"
	if c.Redis != nil {
		cache = "up"
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Cache unavailable")
			return
		}
	}

	// 上游不可达不让健康检查整体失败，仅在负载中标记
	upstream := "up"
	if _, err := c.JobRepo.MockFlag(ctx.Request.Context()); err != nil {
		upstream = "down"
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"cache":    cache,
			"upstream": upstream,
		},
	})
}
