package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"wisefido-vitals-board/internal/models"
	"wisefido-vitals-board/internal/service"
)

// ManualEntryHandler 手动录入面板接口
type ManualEntryHandler struct {
	manual *service.ManualEntryService
	logger *zap.Logger
}

func NewManualEntryHandler(manual *service.ManualEntryService, logger *zap.Logger) *ManualEntryHandler {
	return &ManualEntryHandler{manual: manual, logger: logger}
}

// POST /board/api/v1/vitals/manual/draft
// body: ManualEntryForm（整体替换草稿）
func (h *ManualEntryHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var form models.ManualEntryForm
	if err := readBodyJSON(r, 1<<20, &form); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	view, err := h.manual.UpdateDraft(form)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(view))
}

// POST /board/api/v1/vitals/manual/submit
func (h *ManualEntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.manual.Submit(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSubmitInFlight) {
			writeJSON(w, http.StatusOK, Fail("a submission is already in flight"))
			return
		}
		// 失败不清空草稿；错误信息已折算进 lastError
		message := view.LastError
		if message == "" {
			message = err.Error()
		}
		writeJSON(w, http.StatusOK, Fail(message))
		return
	}
	writeJSON(w, http.StatusOK, Ok(view))
}

// GET /board/api/v1/vitals/manual/state
func (h *ManualEntryHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.manual.View()))
}
