package models

import "wisefido-vitals-board/internal/domain"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// HistoryQuery 历史查询参数（1-indexed page）
type HistoryQuery struct {
	VitalType string
	Page      int
	PageSize  int
}

// Normalize 补默认值并夹取 pageSize
func (q HistoryQuery) Normalize() HistoryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// HistoryPage 一页历史记录（上游 /api/vitals/history 的规范化结果）
type HistoryPage struct {
	Records    []domain.VitalRecord `json:"records"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// EmptyHistoryPage 失败兜底：零记录、total_pages 复位为 1
func EmptyHistoryPage(q HistoryQuery) HistoryPage {
	return HistoryPage{
		Records:    []domain.VitalRecord{},
		Page:       1,
		PageSize:   q.PageSize,
		TotalPages: 1,
	}
}

// HistoryView 历史表格的对外视图状态
// 加载中不下发可能过期的旧记录，前端只看 loading 标志
type HistoryView struct {
	VitalType  string               `json:"vital_type"`
	Loading    bool                 `json:"loading"`
	Records    []domain.VitalRecord `json:"records"`
	Pagination BoardPagination      `json:"pagination"`
}
