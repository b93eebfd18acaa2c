package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"wisefido-vitals-board/internal/models"
	"wisefido-vitals-board/internal/service"
)

// BoardHandler 看板读侧接口：类型列表、历史查询、图表、导出
type BoardHandler struct {
	board  *service.BoardService
	logger *zap.Logger
}

func NewBoardHandler(board *service.BoardService, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{board: board, logger: logger}
}

// GET /board/api/v1/vitals/types
func (h *BoardHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	types := h.board.Types(r.Context())
	writeJSON(w, http.StatusOK, Ok(types))
}

// GET /board/api/v1/vitals/history
// params:
// - vital_type string (required)
// - page? number (default 1)
// - page_size? number (default 20)
func (h *BoardHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vitalType := r.URL.Query().Get("vital_type")
	if vitalType == "" {
		writeJSON(w, http.StatusOK, Fail("vital_type is required"))
		return
	}
	q := models.HistoryQuery{
		VitalType: vitalType,
		Page:      parseInt(r.URL.Query().Get("page"), 1),
		PageSize:  parseInt(r.URL.Query().Get("page_size"), 0),
	}.Normalize()

	page, err := h.board.History().FetchPage(ctx, q)
	if err != nil {
		// 上游不可用时返回空页，不让前端报错
		h.logger.Warn("History fetch failed, returning empty page",
			zap.String("vital_type", vitalType),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, Ok(models.EmptyHistoryPage(q)))
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

// GET /board/api/v1/vitals/view
func (h *BoardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.board.History().Snapshot()))
}

// POST /board/api/v1/vitals/view/select
// body: { vital_type: string }
func (h *BoardHandler) SelectView(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VitalType string `json:"vital_type"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}
	if body.VitalType == "" {
		writeJSON(w, http.StatusOK, Fail("vital_type is required"))
		return
	}

	view := h.board.History().SelectType(r.Context(), body.VitalType)
	writeJSON(w, http.StatusOK, Ok(view))
}

// POST /board/api/v1/vitals/view/page
// body: { direction: "next" | "prev" }
func (h *BoardHandler) PageView(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction string `json:"direction"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	var view models.HistoryView
	switch body.Direction {
	case "next":
		view = h.board.History().NextPage(r.Context())
	case "prev":
		view = h.board.History().PrevPage(r.Context())
	default:
		writeJSON(w, http.StatusOK, Fail("direction must be next or prev"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(view))
}

// GET /board/api/v1/vitals/chart
// params:
// - vital_type string (required)
// - mode? trend | summary (default trend)
// - format? html | json (default html)
func (h *BoardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vitalType := r.URL.Query().Get("vital_type")
	if vitalType == "" {
		writeJSON(w, http.StatusOK, Fail("vital_type is required"))
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = service.ChartModeTrend
	}

	if r.URL.Query().Get("format") == "json" {
		series, err := h.board.ChartSeries(ctx, vitalType, mode)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(series))
		return
	}

	html, err := h.board.RenderChart(ctx, vitalType, mode)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// GET /board/api/v1/vitals/export
// params:
// - vital_type string (required)
func (h *BoardHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vitalType := r.URL.Query().Get("vital_type")
	if vitalType == "" {
		writeJSON(w, http.StatusOK, Fail("vital_type is required"))
		return
	}

	records, err := h.board.ExportRecords(ctx, vitalType)
	if err != nil {
		h.logger.Error("Failed to collect records for export",
			zap.String("vital_type", vitalType),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, Fail("failed to export history"))
		return
	}

	data, err := GenerateVitalHistoryExport(records)
	if err != nil {
		h.logger.Error("Failed to generate export file", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to export history"))
		return
	}

	filename := fmt.Sprintf("vital-history-%s-%s.xlsx", vitalType, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
