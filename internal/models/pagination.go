package models

// BoardPagination 看板表格的分页状态（与前端分页组件对齐）
// page 从 1 开始；total_pages 恒 >= 1，空结果集也是 1
type BoardPagination struct {
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	TotalPages int  `json:"total_pages"`
	CanPrev    bool `json:"can_prev"`
	CanNext    bool `json:"can_next"`
}

// NewBoardPagination 构造分页状态，page 夹取到 [1, totalPages]
func NewBoardPagination(page, size, totalPages int) BoardPagination {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return BoardPagination{
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
		CanPrev:    page > 1,
		CanNext:    page < totalPages,
	}
}
