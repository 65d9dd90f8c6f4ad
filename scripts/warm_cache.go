// 手动预热分析缓存脚本
//
// 服务本身按请求做读穿缓存，无需预热。此脚本仅用于手动触发，
// 例如上线前或缓存整体失效后，提前聚合一批职位的报表数据。
//
// 用法: go run scripts/warm_cache.go <jobID> [jobID...]

package main

import (
	"context"
	"hireview_backend/internal/config"
	"hireview_backend/internal/repository"
	"hireview_backend/internal/service"
	"hireview_backend/pkg/database"
	"hireview_backend/pkg/logger"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/warm_cache.go <jobID> [jobID...]")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis连接失败，无法预热缓存: %v", err)
	}

	reportsRepo := repository.NewReportsRepository(&cfg.Upstream)
	jobRepo := repository.NewJobRepository(&cfg.Upstream)
	mockMode := service.NewMockModeService(jobRepo, &cfg.Mock)
	analytics := service.NewAnalyticsService(reportsRepo, mockMode, rdb, &cfg.Cache)

	ctx := context.Background()
	for _, jobID := range os.Args[1:] {
		snap := analytics.Refresh(ctx, jobID)
		log.Printf("职位 %s: state=%s error=%q", jobID, snap.State, snap.Error)
	}
	log.Println("完成！")
}
