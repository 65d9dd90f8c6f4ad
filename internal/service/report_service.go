package service

import (
	"bytes"
	"context"
	"fmt"
	"hireview_backend/internal/repository"
	"hireview_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportService 表格报告下载。下载失败与聚合器状态机完全隔离：
// 只记录日志，不改变任何分析状态
type ReportService struct {
	ReportsRepo *repository.ReportsRepository
	Storage     *StorageService
	MockMode    *MockModeService
}

func NewReportService(reportsRepo *repository.ReportsRepository, storage *StorageService, mockMode *MockModeService) *ReportService {
	return &ReportService{
		ReportsRepo: reportsRepo,
		Storage:     storage,
		MockMode:    mockMode,
	}
}

// ReportFilename 按当天日期（ISO，截断到日）生成下载文件名
func ReportFilename(now time.Time) string {
	return fmt.Sprintf("interview-report-%s.xlsx", now.Format("2006-01-02"))
}

// DownloadReport 拉取上游表格报告并归档。无职位ID或mock模式下为no-op，
// 立即返回且不发起网络调用
func (s *ReportService) DownloadReport(ctx context.Context, jobID string) (string, []byte, error) {
	if jobID == "" || s.MockMode.Enabled(ctx) {
		return "", nil, nil
	}

	data, err := s.ReportsRepo.BasicReport(ctx, jobID)
	if err != nil {
		logger.Log.Error("report download failed",
			zap.String("jobId", jobID),
			zap.Error(err))
		return "", nil, err
	}

	filename := ReportFilename(time.Now())

	// 归档失败不阻断下载
	if s.Storage != nil {
		if _, err := s.Storage.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), xlsxContentType); err != nil {
			logger.Log.Warn("report archive failed",
				zap.String("filename", filename),
				zap.Error(err))
		}
	}

	return filename, data, nil
}
