package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"wisefido-vitals-board/internal/models"
)

// 录入提交状态机：idle -> submitting -> {success -> idle(延迟), 失败 -> idle}
const (
	SubmitStateIdle       = "idle"
	SubmitStateSubmitting = "submitting"
	SubmitStateSuccess    = "success"
)

var ErrSubmitInFlight = errors.New("submission already in flight")

// ManualEntryService 手动录入面板的草稿与提交状态
// 约束：同一时刻至多一个在途提交；失败保留草稿，只有成功会清空表单
type ManualEntryService struct {
	api            VitalsAPI
	logger         *zap.Logger
	successDisplay time.Duration
	onSave         func(json.RawMessage)

	mu         sync.Mutex
	state      string
	draft      models.ManualEntryForm
	lastError  string
	clearGen   int
	clearTimer *time.Timer
}

// NewManualEntryService 创建录入状态机
// onSave 在提交成功后携带上游确认体回调（可为 nil）
func NewManualEntryService(api VitalsAPI, successDisplay time.Duration, onSave func(json.RawMessage), logger *zap.Logger) *ManualEntryService {
	return &ManualEntryService{
		api:            api,
		logger:         logger,
		successDisplay: successDisplay,
		onSave:         onSave,
		state:          SubmitStateIdle,
	}
}

// UpdateDraft 整体替换表单草稿
// 越界值整体拒绝，草稿保持原样；提交在途期间不接受编辑
func (s *ManualEntryService) UpdateDraft(form models.ManualEntryForm) (models.ManualEntryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SubmitStateSubmitting {
		return s.viewLocked(), ErrSubmitInFlight
	}
	if err := form.Validate(); err != nil {
		return s.viewLocked(), err
	}

	// 成功提示期内继续编辑视为开始新录入，取消挂起的清空
	if s.state == SubmitStateSuccess {
		s.cancelClearLocked()
		s.state = SubmitStateIdle
	}
	s.draft = form
	return s.viewLocked(), nil
}

// Submit 组装载荷并提交
// 成功进入 success 态，停留 successDisplay 后清空草稿回到 idle；
// 失败立刻回到 idle，草稿原样保留，错误信息进 lastError
func (s *ManualEntryService) Submit(ctx context.Context) (models.ManualEntryView, error) {
	s.mu.Lock()
	if s.state == SubmitStateSubmitting {
		view := s.viewLocked()
		s.mu.Unlock()
		return view, ErrSubmitInFlight
	}
	if err := s.draft.Validate(); err != nil {
		s.lastError = err.Error()
		view := s.viewLocked()
		s.mu.Unlock()
		return view, err
	}
	s.cancelClearLocked()
	payload := models.BuildPayload(s.draft, time.Now())
	s.state = SubmitStateSubmitting
	s.lastError = ""
	s.mu.Unlock()

	// 网络期间不持锁，面板其余操作保持可用
	resp, err := s.api.SubmitManual(ctx, payload)

	s.mu.Lock()
	if err != nil {
		s.state = SubmitStateIdle
		s.lastError = submitErrorMessage(err)
		view := s.viewLocked()
		s.mu.Unlock()
		s.logger.Warn("Manual entry submission failed", zap.Error(err))
		return view, err
	}

	s.state = SubmitStateSuccess
	s.scheduleClearLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	if s.onSave != nil {
		s.onSave(resp)
	}
	return view, nil
}

// View 当前录入面板状态
func (s *ManualEntryService) View() models.ManualEntryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Stop 取消挂起的延迟清空定时器
func (s *ManualEntryService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelClearLocked()
}

// scheduleClearLocked 成功提示停留期满后清空表单回到 idle
// 期间有新动作（编辑/再次提交）会推进 clearGen，旧定时器触发时不再生效
func (s *ManualEntryService) scheduleClearLocked() {
	s.clearGen++
	gen := s.clearGen
	s.clearTimer = time.AfterFunc(s.successDisplay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.clearGen != gen || s.state != SubmitStateSuccess {
			return
		}
		s.state = SubmitStateIdle
		s.draft = models.ManualEntryForm{}
		s.lastError = ""
	})
}

// cancelClearLocked 取消挂起的延迟清空
func (s *ManualEntryService) cancelClearLocked() {
	s.clearGen++
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
}

func (s *ManualEntryService) viewLocked() models.ManualEntryView {
	return models.ManualEntryView{
		State:     s.state,
		Draft:     s.draft,
		LastError: s.lastError,
	}
}

// submitErrorMessage 优先透出上游的结构化错误信息
func submitErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to save vital record, please try again"
}
