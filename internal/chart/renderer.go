package chart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Renderer 渲染后端契约：输入准备好的序列，输出可嵌入的 HTML
type Renderer interface {
	Render(s Series) (string, error)
}

var ErrInstanceClosed = errors.New("chart instance closed")

// Instance 一次渲染的产物及其生命周期
// 渲染库持有的绘图资源不归 GC 管，换图前必须先 Close 旧实例
type Instance struct {
	id      string
	surface string

	mu     sync.Mutex
	closed bool
	html   string
}

func (i *Instance) ID() string      { return i.id }
func (i *Instance) Surface() string { return i.surface }

// HTML 返回渲染产物；实例已销毁时返回 ErrInstanceClosed
func (i *Instance) HTML() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return "", ErrInstanceClosed
	}
	return i.html, nil
}

// Close 释放实例持有的渲染产物；重复调用无害
func (i *Instance) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	i.html = ""
}

// Closed 实例是否已销毁
func (i *Instance) Closed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.closed
}

// SurfaceManager 管理展示面与渲染实例的绑定
// 约束：任一展示面同时至多一个存活实例，换绑必须先销毁旧实例再登记新实例
type SurfaceManager struct {
	renderer Renderer

	mu       sync.Mutex
	surfaces map[string]*Instance
}

func NewSurfaceManager(r Renderer) *SurfaceManager {
	return &SurfaceManager{
		renderer: r,
		surfaces: make(map[string]*Instance),
	}
}

// Attach 在指定展示面上渲染新序列
// 旧实例先销毁再渲染；渲染失败时该展示面保持空绑定
func (m *SurfaceManager) Attach(surface string, s Series) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.surfaces[surface]; ok {
		prev.Close()
		delete(m.surfaces, surface)
	}

	html, err := m.renderer.Render(s)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart for surface %s: %w", surface, err)
	}

	inst := &Instance{
		id:      uuid.New().String(),
		surface: surface,
		html:    html,
	}
	m.surfaces[surface] = inst
	return inst, nil
}

// Current 展示面当前绑定的实例
func (m *SurfaceManager) Current(surface string) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.surfaces[surface]
	return inst, ok
}

// Release 销毁并解绑指定展示面的实例
func (m *SurfaceManager) Release(surface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst, ok := m.surfaces[surface]; ok {
		inst.Close()
		delete(m.surfaces, surface)
	}
}

// Shutdown 销毁全部实例
func (m *SurfaceManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for surface, inst := range m.surfaces {
		inst.Close()
		delete(m.surfaces, surface)
	}
}
