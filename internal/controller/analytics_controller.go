package controller

import (
	"hireview_backend/internal/service"
	"hireview_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 获取职位分析数据
// @Description 聚合9个上游报表端点，返回合并后的完整分析记录及监考事件、环节表现列表
// @Tags 分析
// @Produce json
// @Param id path string true "职位ID"
// @Success 200 {object} util.Response
// @Router /api/jobs/{id}/analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	jobID := ctx.Param("id")

	snap := c.AnalyticsService.Load(ctx.Request.Context(), jobID)
	if snap.State == service.StateErrored {
		// 聚合失败：按约定返回诊断错误与可区分的演示数据集
		ctx.JSON(http.StatusBadGateway, util.Response{
			Code:    http.StatusBadGateway,
			Message: snap.Error,
			Data:    snap,
		})
		return
	}

	util.Success(ctx, snap)
}

// @Summary 刷新职位分析数据
// @Description 绕过缓存，强制发起新一轮聚合
// @Tags 分析
// @Produce json
// @Param id path string true "职位ID"
// @Success 200 {object} util.Response
// @Router /api/jobs/{id}/analytics/refresh [post]
func (c *AnalyticsController) Refresh(ctx *gin.Context) {
	jobID := ctx.Param("id")

	snap := c.AnalyticsService.Refresh(ctx.Request.Context(), jobID)
	if snap.State == service.StateErrored {
		ctx.JSON(http.StatusBadGateway, util.Response{
			Code:    http.StatusBadGateway,
			Message: snap.Error,
			Data:    snap,
		})
		return
	}

	util.Success(ctx, snap)
}

// @Summary 获取评分分布统计摘要
// @Description 返回评分分布的众数与两种中位数（桶中位数与展开真中位数）
// @Tags 分析
// @Produce json
// @Param id path string true "职位ID"
// @Success 200 {object} util.Response
// @Router /api/jobs/{id}/analytics/score-summary [get]
func (c *AnalyticsController) GetScoreSummary(ctx *gin.Context) {
	jobID := ctx.Param("id")

	summary, err := c.AnalyticsService.ScoreSummary(ctx.Request.Context(), jobID)
	if err != nil {
		util.BadGateway(ctx, err.Error())
		return
	}

	util.Success(ctx, summary)
}
