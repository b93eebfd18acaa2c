package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wisefido-vitals-board/internal/domain"
	"wisefido-vitals-board/internal/models"
	"wisefido-vitals-board/internal/store"
)

// HistoryBrowser 历史表格的选择/翻页/加载状态
// 并发约束："最后请求胜出"。每次加载持有独立 token，
// 提交结果前校验 token 是否仍是最新，迟到的旧响应直接丢弃，
// 快速切换类型不会出现旧结果覆盖新选择。
type HistoryBrowser struct {
	api      VitalsAPI
	kv       store.KV
	logger   *zap.Logger
	pageSize int
	cacheTTL time.Duration

	mu         sync.Mutex
	vitalType  string
	page       int
	totalPages int
	records    []domain.VitalRecord
	loading    bool
	token      string
}

// NewHistoryBrowser 创建历史浏览状态机
func NewHistoryBrowser(api VitalsAPI, kv store.KV, pageSize int, cacheTTL time.Duration, logger *zap.Logger) *HistoryBrowser {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &HistoryBrowser{
		api:        api,
		kv:         kv,
		logger:     logger,
		pageSize:   pageSize,
		cacheTTL:   cacheTTL,
		page:       1,
		totalPages: 1,
		records:    []domain.VitalRecord{},
	}
}

// SelectType 切换 vital_type；页码先复位为 1 再发请求，
// 不让旧页码游标带进不同大小的结果集
func (h *HistoryBrowser) SelectType(ctx context.Context, vitalType string) models.HistoryView {
	h.mu.Lock()
	h.vitalType = vitalType
	h.page = 1
	h.totalPages = 1
	q := h.queryLocked()
	h.mu.Unlock()
	return h.load(ctx, q)
}

// NextPage 下一页；已在末页时不发请求
func (h *HistoryBrowser) NextPage(ctx context.Context) models.HistoryView {
	h.mu.Lock()
	if h.vitalType == "" || h.page >= h.totalPages {
		view := h.snapshotLocked()
		h.mu.Unlock()
		return view
	}
	h.page++
	q := h.queryLocked()
	h.mu.Unlock()
	return h.load(ctx, q)
}

// PrevPage 上一页；已在首页时不发请求
func (h *HistoryBrowser) PrevPage(ctx context.Context) models.HistoryView {
	h.mu.Lock()
	if h.vitalType == "" || h.page <= 1 {
		view := h.snapshotLocked()
		h.mu.Unlock()
		return view
	}
	h.page--
	q := h.queryLocked()
	h.mu.Unlock()
	return h.load(ctx, q)
}

// Refresh 重新拉取当前页（录入成功后的回读）
func (h *HistoryBrowser) Refresh(ctx context.Context) models.HistoryView {
	h.mu.Lock()
	if h.vitalType == "" {
		view := h.snapshotLocked()
		h.mu.Unlock()
		return view
	}
	q := h.queryLocked()
	h.mu.Unlock()
	return h.load(ctx, q)
}

// Snapshot 当前视图状态
func (h *HistoryBrowser) Snapshot() models.HistoryView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Invalidate 清空历史读缓存（手动录入成功后调用，保证回读拿到新数据）
func (h *HistoryBrowser) Invalidate(ctx context.Context) {
	keys, err := h.kv.ScanKeys(ctx, store.HistoryKeyPattern(""))
	if err != nil {
		h.logger.Warn("History cache scan failed", zap.Error(err))
		return
	}
	if err := h.kv.Del(ctx, keys...); err != nil {
		h.logger.Warn("History cache invalidation failed",
			zap.Int("keys", len(keys)),
			zap.Error(err),
		)
	}
}

// load 发起一次加载并提交结果
// 网络期间不持锁；上游失败按空结果兜底而不是报错给前端
func (h *HistoryBrowser) load(ctx context.Context, q models.HistoryQuery) models.HistoryView {
	token := uuid.New().String()

	h.mu.Lock()
	h.token = token
	h.loading = true
	h.mu.Unlock()

	page, err := h.FetchPage(ctx, q)
	if err != nil {
		h.logger.Warn("History fetch failed, falling back to empty result",
			zap.String("vital_type", q.VitalType),
			zap.Int("page", q.Page),
			zap.Error(err),
		)
		page = models.EmptyHistoryPage(q)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.token != token {
		// 已有更新的请求，本次结果作废
		return h.snapshotLocked()
	}
	h.loading = false
	h.page = page.Page
	h.totalPages = page.TotalPages
	h.records = page.Records
	return h.snapshotLocked()
}

// FetchPage 带读缓存的无状态上游查询，不触碰浏览状态
// 表格加载和看板成图共用，同一页只打一次上游
func (h *HistoryBrowser) FetchPage(ctx context.Context, q models.HistoryQuery) (models.HistoryPage, error) {
	key := store.HistoryKey(q.VitalType, q.Page, q.PageSize)
	cached, err := h.kv.Get(ctx, key)
	if err == nil {
		var page models.HistoryPage
		if err := json.Unmarshal([]byte(cached), &page); err == nil {
			return page, nil
		}
	} else if !errors.Is(err, store.ErrMiss) {
		h.logger.Warn("History cache read failed", zap.String("key", key), zap.Error(err))
	}

	page, err := h.api.FetchHistory(ctx, q)
	if err != nil {
		return models.HistoryPage{}, err
	}

	if data, err := json.Marshal(page); err == nil {
		if err := h.kv.Set(ctx, key, string(data), h.cacheTTL); err != nil {
			h.logger.Warn("History cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return page, nil
}

func (h *HistoryBrowser) queryLocked() models.HistoryQuery {
	return models.HistoryQuery{VitalType: h.vitalType, Page: h.page, PageSize: h.pageSize}
}

func (h *HistoryBrowser) snapshotLocked() models.HistoryView {
	view := models.HistoryView{
		VitalType:  h.vitalType,
		Loading:    h.loading,
		Records:    h.records,
		Pagination: models.NewBoardPagination(h.page, h.pageSize, h.totalPages),
	}
	if h.loading {
		view.Records = []domain.VitalRecord{}
	}
	return view
}
