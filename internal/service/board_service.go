package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wisefido-vitals-board/internal/chart"
	"wisefido-vitals-board/internal/config"
	"wisefido-vitals-board/internal/domain"
	"wisefido-vitals-board/internal/models"
	"wisefido-vitals-board/internal/store"
	"wisefido-vitals-board/internal/timeseries"
)

// 图表模式：趋势全窗 / 紧凑摘要
const (
	ChartModeTrend   = "trend"
	ChartModeSummary = "summary"
)

// 录入成功后台回读与导出的页数上限
const (
	afterSaveTimeout = 30 * time.Second
	maxExportPages   = 50
)

// BoardService 看板编排：类型列表、图表刷新、历史浏览、手动录入
type BoardService struct {
	cfg      *config.Config
	logger   *zap.Logger
	api      VitalsAPI
	kv       store.KV
	history  *HistoryBrowser
	manual   *ManualEntryService
	surfaces *chart.SurfaceManager
}

// NewBoardService 创建看板服务并装配子组件
func NewBoardService(cfg *config.Config, api VitalsAPI, kv store.KV, logger *zap.Logger) *BoardService {
	b := &BoardService{
		cfg:      cfg,
		logger:   logger,
		api:      api,
		kv:       kv,
		surfaces: chart.NewSurfaceManager(chart.NewEChartsRenderer()),
	}
	b.history = NewHistoryBrowser(api, kv, cfg.Board.HistoryPageSize, cfg.Board.CacheTTL, logger)
	b.manual = NewManualEntryService(api, cfg.Board.SuccessDisplay, b.afterSave, logger)
	return b
}

func (b *BoardService) History() *HistoryBrowser        { return b.history }
func (b *BoardService) Manual() *ManualEntryService     { return b.manual }
func (b *BoardService) Surfaces() *chart.SurfaceManager { return b.surfaces }

// Types 可选 vital_type 列表（短缓存；上游失败回退为空列表）
func (b *BoardService) Types(ctx context.Context) []string {
	if cached, err := b.kv.Get(ctx, store.KeyVitalTypes); err == nil {
		var types []string
		if err := json.Unmarshal([]byte(cached), &types); err == nil {
			return types
		}
	}

	types, err := b.api.ListTypes(ctx)
	if err != nil {
		b.logger.Warn("Type list fetch failed, falling back to empty list", zap.Error(err))
		return []string{}
	}
	if types == nil {
		types = []string{}
	}

	if data, err := json.Marshal(types); err == nil {
		if err := b.kv.Set(ctx, store.KeyVitalTypes, string(data), b.cfg.Board.CacheTTL); err != nil {
			b.logger.Warn("Type list cache write failed", zap.Error(err))
		}
	}
	return types
}

// ChartSeries 为指定类型和模式构建图表序列
// trend 旧->新全窗；summary 最近 N 条。拉取失败按无数据成图，不向上报错
func (b *BoardService) ChartSeries(ctx context.Context, vitalType, mode string) (chart.Series, error) {
	var order timeseries.Ordering
	var maxPoints int
	switch mode {
	case ChartModeTrend:
		order = timeseries.OrderChronological
		maxPoints = b.cfg.Board.TrendMaxPoints
	case ChartModeSummary:
		order = timeseries.OrderMostRecentFirst
		maxPoints = b.cfg.Board.SummaryMaxPoints
	default:
		return chart.Series{}, fmt.Errorf("unknown chart mode: %s", mode)
	}

	q := models.HistoryQuery{VitalType: vitalType, Page: 1, PageSize: models.MaxPageSize}
	page, err := b.history.FetchPage(ctx, q)
	if err != nil {
		b.logger.Warn("Chart data fetch failed, rendering empty series",
			zap.String("vital_type", vitalType),
			zap.Error(err),
		)
		page = models.EmptyHistoryPage(q)
	}

	return chart.BuildSeries(domain.MetaFor(vitalType), page.Records, order, maxPoints), nil
}

// RenderChart 渲染序列并绑定到展示面，返回 HTML
// 展示面键为 mode:vital_type，旧实例在换绑时销毁
func (b *BoardService) RenderChart(ctx context.Context, vitalType, mode string) (string, error) {
	series, err := b.ChartSeries(ctx, vitalType, mode)
	if err != nil {
		return "", err
	}
	inst, err := b.surfaces.Attach(mode+":"+vitalType, series)
	if err != nil {
		return "", err
	}
	return inst.HTML()
}

// ExportRecords 汇总导出某类型的全部历史（分页拉取，上限 maxExportPages 页）
func (b *BoardService) ExportRecords(ctx context.Context, vitalType string) ([]domain.VitalRecord, error) {
	records := make([]domain.VitalRecord, 0, models.MaxPageSize)
	for page := 1; page <= maxExportPages; page++ {
		q := models.HistoryQuery{VitalType: vitalType, Page: page, PageSize: models.MaxPageSize}
		result, err := b.history.FetchPage(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch export page %d: %w", page, err)
		}
		records = append(records, result.Records...)
		if page >= result.TotalPages || len(result.Records) == 0 {
			break
		}
	}
	return records, nil
}

// Start 启动图表刷新循环（阻塞直到 ctx 取消）
func (b *BoardService) Start(ctx context.Context) error {
	ticker := time.NewTicker(b.cfg.Board.RefreshInterval)
	defer ticker.Stop()

	b.logger.Info("Starting chart refresh loop",
		zap.Duration("interval", b.cfg.Board.RefreshInterval),
		zap.Strings("chart_types", b.cfg.Board.ChartTypes),
	)

	// 启动时先刷一轮
	b.refreshAllCharts(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.refreshAllCharts(ctx)
		}
	}
}

// Stop 释放看板资源
func (b *BoardService) Stop() {
	b.manual.Stop()
	b.surfaces.Shutdown()
}

// refreshAllCharts 为配置的每种类型重建 trend 和 summary 两个展示面
func (b *BoardService) refreshAllCharts(ctx context.Context) {
	successCount := 0
	errorCount := 0

	for _, vitalType := range b.cfg.Board.ChartTypes {
		select {
		case <-ctx.Done():
			return
		default:
		}
		for _, mode := range []string{ChartModeTrend, ChartModeSummary} {
			if _, err := b.RenderChart(ctx, vitalType, mode); err != nil {
				b.logger.Error("Failed to refresh chart",
					zap.String("vital_type", vitalType),
					zap.String("mode", mode),
					zap.Error(err),
				)
				errorCount++
			} else {
				successCount++
			}
		}
	}

	b.logger.Info("Completed chart refresh",
		zap.Int("success_count", successCount),
		zap.Int("error_count", errorCount),
	)
}

// afterSave 录入成功后的后台回读：清历史缓存、刷新表格视图、重建图表
func (b *BoardService) afterSave(json.RawMessage) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), afterSaveTimeout)
		defer cancel()
		b.history.Invalidate(ctx)
		b.history.Refresh(ctx)
		b.refreshAllCharts(ctx)
	}()
}
