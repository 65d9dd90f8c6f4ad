package service

import (
	"context"
	"encoding/json"
	"hireview_backend/internal/config"
	"hireview_backend/internal/model"
	"hireview_backend/internal/repository"
	"hireview_backend/pkg/logger"
	"hireview_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AggregatorState 聚合器状态机：Idle → Loading → Ready | Errored，
// Loading 可从任意状态re-enter（刷新或切换职位）
type AggregatorState string

const (
	StateIdle    AggregatorState = "idle"
	StateLoading AggregatorState = "loading"
	StateReady   AggregatorState = "ready"
	StateErrored AggregatorState = "errored"
)

// aggregator 单个职位的聚合状态。单写者状态机：所有变更持锁进行；
// generation 保证被取代的加载周期的迟到结果不会覆盖更新的状态
// （不取消在途请求，只丢弃过期结果）。
type aggregator struct {
	mu         sync.Mutex
	state      AggregatorState
	generation uint64

	record   *model.AnalyticsRecord
	events   []model.ProctoringEvent
	sections []model.SectionPerformance
	isDemo   bool
	lastErr  error
}

// beginLoad 进入Loading：清除上一轮错误，但保留已展示的数据，
// 直到新结果落地（展示旧数据还是空白由调用方决定）
func (a *aggregator) beginLoad() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateLoading
	a.lastErr = nil
	a.generation++
	return a.generation
}

// completeReady 结束一轮加载。gen 不是当前代则整体丢弃
func (a *aggregator) completeReady(gen uint64, rec *model.AnalyticsRecord, events []model.ProctoringEvent, sections []model.SectionPerformance, demo bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return
	}
	a.state = StateReady
	a.record = rec
	a.events = events
	a.sections = sections
	a.isDemo = demo
	a.lastErr = nil
}

// completeErrored 任一端点失败即整轮失败：记录置空，列表清空
func (a *aggregator) completeErrored(gen uint64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return
	}
	a.state = StateErrored
	a.record = nil
	a.events = []model.ProctoringEvent{}
	a.sections = []model.SectionPerformance{}
	a.isDemo = false
	a.lastErr = err
}

// AnalyticsSnapshot 聚合器对外快照
type AnalyticsSnapshot struct {
	State    AggregatorState            `json:"state"`
	Loading  bool                       `json:"loading"`
	Record   *model.AnalyticsRecord     `json:"record"`
	Events   []model.ProctoringEvent    `json:"proctoringEvents"`
	Sections []model.SectionPerformance `json:"sectionPerformance"`

	// IsDemo 标记 Record 来自演示数据集而非真实聚合，前端必须可区分
	IsDemo bool `json:"isDemo"`

	// Errored 时保留的诊断信息与兜底演示数据
	Error      string                 `json:"error,omitempty"`
	DemoRecord *model.AnalyticsRecord `json:"demoRecord,omitempty"`
}

func (a *aggregator) snapshot() AnalyticsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := AnalyticsSnapshot{
		State:    a.state,
		Loading:  a.state == StateLoading,
		Record:   a.record,
		Events:   a.events,
		Sections: a.sections,
		IsDemo:   a.isDemo,
	}
	if snap.Events == nil {
		snap.Events = []model.ProctoringEvent{}
	}
	if snap.Sections == nil {
		snap.Sections = []model.SectionPerformance{}
	}
	if a.state == StateErrored && a.lastErr != nil {
		snap.Error = a.lastErr.Error()
		demo, _, _ := demoAnalytics()
		snap.DemoRecord = demo
	}
	return snap
}

// ScoreSummary 当前评分分布的描述统计。两种中位数来自不同算法，
// 服务不同视图，见 stats.go
type ScoreSummary struct {
	Mode         float64 `json:"mode"`
	BucketMedian float64 `json:"bucketMedian"`
	Median       float64 `json:"median"`
	NoData       bool    `json:"noData"`
}

// cachePayload 缓存的一轮成功聚合结果
type cachePayload struct {
	Record   *model.AnalyticsRecord     `json:"record"`
	Events   []model.ProctoringEvent    `json:"events"`
	Sections []model.SectionPerformance `json:"sections"`
}

type AnalyticsService struct {
	ReportsRepo *repository.ReportsRepository
	MockMode    *MockModeService
	Redis       *redis.Client

	cacheEnabled bool
	cacheTTL     time.Duration

	mu          sync.Mutex
	aggregators map[string]*aggregator
}

func NewAnalyticsService(reportsRepo *repository.ReportsRepository, mockMode *MockModeService, rdb *redis.Client, cacheCfg *config.CacheConfig) *AnalyticsService {
	ttl := cacheCfg.TTLMinutes
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &AnalyticsService{
		ReportsRepo:  reportsRepo,
		MockMode:     mockMode,
		Redis:        rdb,
		cacheEnabled: cacheCfg.Enabled && rdb != nil,
		cacheTTL:     ttl,
		aggregators:  make(map[string]*aggregator),
	}
}

func (s *AnalyticsService) aggregatorFor(jobID string) *aggregator {
	s.mu.Lock()
	defer s.mu.Unlock()
	agg, ok := s.aggregators[jobID]
	if !ok {
		agg = &aggregator{state: StateIdle}
		s.aggregators[jobID] = agg
	}
	return agg
}

// Load 执行一轮完整加载周期并返回结果快照
func (s *AnalyticsService) Load(ctx context.Context, jobID string) AnalyticsSnapshot {
	return s.load(ctx, jobID, false)
}

// Refresh 重新加载，绕过缓存。不去重、不排队：快速连续刷新会产生
// 重叠的加载周期，只靠代数计数防止过期覆盖
func (s *AnalyticsService) Refresh(ctx context.Context, jobID string) AnalyticsSnapshot {
	return s.load(ctx, jobID, true)
}

func (s *AnalyticsService) load(ctx context.Context, jobID string, skipCache bool) AnalyticsSnapshot {
	agg := s.aggregatorFor(jobID)
	gen := agg.beginLoad()

	// 无职位标识：就绪但记录为空，不发起任何网络调用
	if jobID == "" {
		agg.completeReady(gen, nil, []model.ProctoringEvent{}, []model.SectionPerformance{}, false)
		return agg.snapshot()
	}

	if s.MockMode.Enabled(ctx) {
		rec, events, sections := demoAnalytics()
		agg.completeReady(gen, rec, events, sections, true)
		monitoring.AggregationCounter.WithLabelValues("mock").Inc()
		return agg.snapshot()
	}

	if !skipCache {
		if payload, ok := s.cacheGet(ctx, jobID); ok {
			agg.completeReady(gen, payload.Record, payload.Events, payload.Sections, false)
			monitoring.AggregationCounter.WithLabelValues("cached").Inc()
			return agg.snapshot()
		}
	}

	res, err := s.fetchAll(ctx, jobID)
	if err != nil {
		logger.Log.Error("analytics aggregation failed",
			zap.String("jobId", jobID),
			zap.Error(err))
		agg.completeErrored(gen, err)
		monitoring.AggregationCounter.WithLabelValues("errored").Inc()
		return agg.snapshot()
	}

	rec := mergeRecord(res)
	events := res.events
	if events == nil {
		events = []model.ProctoringEvent{}
	}
	sections := res.sections
	if sections == nil {
		sections = []model.SectionPerformance{}
	}

	agg.completeReady(gen, rec, events, sections, false)
	monitoring.AggregationCounter.WithLabelValues("ready").Inc()
	s.cacheSet(ctx, jobID, &cachePayload{Record: rec, Events: events, Sections: sections})
	return agg.snapshot()
}

// Snapshot 返回当前状态，不触发加载
func (s *AnalyticsService) Snapshot(jobID string) AnalyticsSnapshot {
	return s.aggregatorFor(jobID).snapshot()
}

// ScoreSummary 对当前（必要时先加载的）评分分布计算众数与两种中位数。
// 桶的代表值取桶内平均分
func (s *AnalyticsService) ScoreSummary(ctx context.Context, jobID string) (*ScoreSummary, error) {
	snap := s.Load(ctx, jobID)
	if snap.Record == nil {
		if snap.Error != "" {
			return nil, s.aggregatorFor(jobID).lastError()
		}
		return &ScoreSummary{Mode: NoDataScore, BucketMedian: NoDataScore, Median: NoDataScore, NoData: true}, nil
	}

	buckets := make([]RatingBucket, 0, len(snap.Record.ScoreDistribution))
	for _, b := range snap.Record.ScoreDistribution {
		buckets = append(buckets, RatingBucket{Count: b.CandidateCount, Value: b.AvgRatingInBucket})
	}

	return &ScoreSummary{
		Mode:         BucketMode(buckets),
		BucketMedian: BucketMedian(buckets),
		Median:       ExpandedMedian(buckets),
		NoData:       len(buckets) == 0,
	}, nil
}

func (a *aggregator) lastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// fetchAll 并发拉取9个报表端点，全部成功才算成功：
// 首个失败取消其余等待，整轮以单一错误失败
func (s *AnalyticsService) fetchAll(ctx context.Context, jobID string) (*fetchResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	var res fetchResult

	g.Go(func() error {
		var err error
		res.metrics, err = s.ReportsRepo.InterviewMetrics(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.conversion, err = s.ReportsRepo.ApplicationConversion(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.proctoring, err = s.ReportsRepo.ProctoringMetrics(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.buckets, err = s.ReportsRepo.ScoreDistribution(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.hire, err = s.ReportsRepo.TimeToHire(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.completion, err = s.ReportsRepo.InterviewCompletion(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.timeline, err = s.ReportsRepo.InterviewTimeline(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.events, err = s.ReportsRepo.ProctoringEvents(ctx, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		res.sections, err = s.ReportsRepo.SectionPerformance(ctx, jobID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *AnalyticsService) cacheKey(jobID string) string {
	return "analytics:" + jobID
}

func (s *AnalyticsService) cacheGet(ctx context.Context, jobID string) (*cachePayload, bool) {
	if !s.cacheEnabled {
		return nil, false
	}
	val, err := s.Redis.Get(ctx, s.cacheKey(jobID)).Result()
	if err != nil {
		return nil, false
	}
	var payload cachePayload
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return nil, false
	}
	if payload.Record == nil {
		return nil, false
	}
	return &payload, true
}

func (s *AnalyticsService) cacheSet(ctx context.Context, jobID string, payload *cachePayload) {
	if !s.cacheEnabled {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, s.cacheKey(jobID), data, s.cacheTTL).Err(); err != nil {
		logger.Log.Warn("analytics cache write failed", zap.String("jobId", jobID), zap.Error(err))
	}
}
