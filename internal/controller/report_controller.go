package controller

import (
	"hireview_backend/internal/service"
	"hireview_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// @Summary 下载面试报告
// @Description 代理上游生成的表格报告。mock模式下返回204，不发起网络调用
// @Tags 报告
// @Produce application/octet-stream
// @Param id path string true "职位ID"
// @Success 200 {file} binary
// @Success 204 "mock模式下无报告"
// @Router /api/jobs/{id}/analytics/report [get]
func (c *ReportController) Download(ctx *gin.Context) {
	jobID := ctx.Param("id")

	filename, data, err := c.ReportService.DownloadReport(ctx.Request.Context(), jobID)
	if err != nil {
		// 下载失败是隔离的：聚合器状态不受影响，这里仅向调用方报告
		util.BadGateway(ctx, "report download failed")
		return
	}
	if data == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}
