package service

import (
	"context"
	"hireview_backend/internal/config"
	"hireview_backend/pkg/logger"
	"os"
	"sync"

	"go.uber.org/zap"
)

// BuildMockFlag 编译期mock开关，通过
// -ldflags "-X hireview_backend/internal/service.BuildMockFlag=true" 注入
var BuildMockFlag string

// MockEnvVar 进程环境变量级mock开关
const MockEnvVar = "HIREVIEW_MOCK_DATA"

// mockFlagSource 运行时mock标志来源（上游 /api/mock-flag）
type mockFlagSource interface {
	MockFlag(ctx context.Context) (bool, error)
}

// MockModeService 进程级mock模式开关。整个进程生命周期内只解析一次，
// 并发的首批调用共享同一次解析（sync.Once 即共享future），
// 之后的结果视为不可变。
//
// 优先级：编译期变量 > 环境变量 > 配置覆盖 > 上游mock标志。
// 先解析者胜：一旦缓存，后续调用不再发起第二次查询。
type MockModeService struct {
	source   mockFlagSource
	override string

	once    sync.Once
	enabled bool
}

func NewMockModeService(source mockFlagSource, cfg *config.MockConfig) *MockModeService {
	return &MockModeService{
		source:   source,
		override: cfg.Override,
	}
}

func truthy(s string) bool {
	return s == "true" || s == "1"
}

// Enabled 返回mock模式是否开启
func (m *MockModeService) Enabled(ctx context.Context) bool {
	m.once.Do(func() {
		m.enabled = m.resolve(ctx)
	})
	return m.enabled
}

func (m *MockModeService) resolve(ctx context.Context) bool {
	if BuildMockFlag != "" {
		return truthy(BuildMockFlag)
	}
	if v := os.Getenv(MockEnvVar); v != "" {
		return truthy(v)
	}
	if m.override != "" {
		return truthy(m.override)
	}

	flag, err := m.source.MockFlag(ctx)
	if err != nil {
		// 查询失败按真实数据处理
		logger.Log.Warn("mock flag lookup failed, assuming live data", zap.Error(err))
		return false
	}
	return flag
}
