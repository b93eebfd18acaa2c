package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"wisefido-vitals-board/internal/config"
	"wisefido-vitals-board/internal/domain"
	"wisefido-vitals-board/internal/models"
)

// APIError 上游非 2xx 响应的结构化错误
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vitals API error: %s (status: %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("vitals API error: status %d", e.Status)
}

// errorBody 上游错误响应体
type errorBody struct {
	Message string `json:"message"`
}

// historyResponse GET /api/vitals/history 响应
type historyResponse struct {
	Records    []json.RawMessage `json:"records"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// VitalsAPI 上游 vitals 服务契约
type VitalsAPI interface {
	ListTypes(ctx context.Context) ([]string, error)
	FetchHistory(ctx context.Context, q models.HistoryQuery) (models.HistoryPage, error)
	SubmitManual(ctx context.Context, payload models.DerivedPayload) (json.RawMessage, error)
}

// VitalsClient 上游 vitals 服务 HTTP 客户端
// 读请求带重试；写请求不重试，避免网络抖动造成重复录入
type VitalsClient struct {
	read   *resty.Client
	write  *resty.Client
	logger *zap.Logger
}

// NewVitalsClient 创建 vitals API 客户端
func NewVitalsClient(cfg config.VitalsAPIConfig, logger *zap.Logger) *VitalsClient {
	read := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	write := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &VitalsClient{
		read:   read,
		write:  write,
		logger: logger,
	}
}

// ListTypes 拉取可选 vital_type 列表
func (c *VitalsClient) ListTypes(ctx context.Context) ([]string, error) {
	var types []string
	var apiErr errorBody
	resp, err := c.read.R().
		SetContext(ctx).
		SetResult(&types).
		SetError(&apiErr).
		Get("/api/vitals/types")

	if err != nil {
		c.logger.Error("Vitals API call failed",
			zap.String("endpoint", "/api/vitals/types"),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list vital types: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Vitals API returned error",
			zap.String("endpoint", "/api/vitals/types"),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", apiErr.Message),
		)
		return nil, &APIError{Status: resp.StatusCode(), Message: apiErr.Message}
	}
	return types, nil
}

// FetchHistory 拉取一页历史记录并规范化分页字段
func (c *VitalsClient) FetchHistory(ctx context.Context, q models.HistoryQuery) (models.HistoryPage, error) {
	q = q.Normalize()

	var body historyResponse
	var apiErr errorBody
	resp, err := c.read.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vital_type": q.VitalType,
			"page":       strconv.Itoa(q.Page),
			"page_size":  strconv.Itoa(q.PageSize),
		}).
		SetResult(&body).
		SetError(&apiErr).
		Get("/api/vitals/history")

	if err != nil {
		c.logger.Error("Vitals API call failed",
			zap.String("endpoint", "/api/vitals/history"),
			zap.String("vital_type", q.VitalType),
			zap.Int("page", q.Page),
			zap.Error(err),
		)
		return models.HistoryPage{}, fmt.Errorf("failed to fetch vital history: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Vitals API returned error",
			zap.String("endpoint", "/api/vitals/history"),
			zap.String("vital_type", q.VitalType),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", apiErr.Message),
		)
		return models.HistoryPage{}, &APIError{Status: resp.StatusCode(), Message: apiErr.Message}
	}

	return normalizeHistory(q, body), nil
}

// SubmitManual 提交手动录入 payload，返回上游确认体
func (c *VitalsClient) SubmitManual(ctx context.Context, payload models.DerivedPayload) (json.RawMessage, error) {
	c.logger.Info("Submitting manual vital entry",
		zap.String("datetime", payload.Datetime),
	)

	var apiErr errorBody
	resp, err := c.write.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(&apiErr).
		Post("/api/vitals/manual")

	if err != nil {
		c.logger.Error("Vitals API call failed",
			zap.String("endpoint", "/api/vitals/manual"),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to submit manual entry: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Vitals API returned error",
			zap.String("endpoint", "/api/vitals/manual"),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", apiErr.Message),
		)
		return nil, &APIError{Status: resp.StatusCode(), Message: apiErr.Message}
	}

	c.logger.Info("Manual vital entry accepted",
		zap.Int("status_code", resp.StatusCode()),
	)
	return json.RawMessage(resp.Body()), nil
}

// normalizeHistory 上游响应兜底
// records 解析失败的单条丢弃；total_pages 至少为 1；page 缺省取请求页
func normalizeHistory(q models.HistoryQuery, body historyResponse) models.HistoryPage {
	page := models.HistoryPage{
		Records:    parseRecords(body.Records),
		Page:       body.Page,
		PageSize:   q.PageSize,
		TotalPages: body.TotalPages,
	}
	if page.Page < 1 {
		page.Page = q.Page
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	if page.Page > page.TotalPages {
		page.Page = page.TotalPages
	}
	return page
}

// parseRecords 逐条解析历史记录，单条坏数据不拖垮整页
func parseRecords(raw []json.RawMessage) []domain.VitalRecord {
	records := make([]domain.VitalRecord, 0, len(raw))
	for _, r := range raw {
		var rec domain.VitalRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}
