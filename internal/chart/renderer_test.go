package chart_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wisefido-vitals-board/internal/chart"
)

type stubRenderer struct {
	renders int
	fail    bool
}

func (s *stubRenderer) Render(series chart.Series) (string, error) {
	s.renders++
	if s.fail {
		return "", errors.New("boom")
	}
	return fmt.Sprintf("<chart:%s:%d>", series.VitalType, s.renders), nil
}

func weightSeries() chart.Series {
	return chart.Series{
		VitalType: "weight",
		Label:     "Weight",
		Color:     "#9a60b4",
		Points: []chart.Point{
			{X: "2026-02-01T08:00:00Z", Y: 180},
			{X: "2026-02-02T08:00:00Z", Y: 181.5},
		},
		Domain: [2]float64{178, 184},
	}
}

func TestSurfaceManager_AttachAndCurrent(t *testing.T) {
	m := chart.NewSurfaceManager(&stubRenderer{})

	inst, err := m.Attach("trend:weight", weightSeries())
	require.NoError(t, err)
	require.NotEmpty(t, inst.ID())
	require.Equal(t, "trend:weight", inst.Surface())

	html, err := inst.HTML()
	require.NoError(t, err)
	require.Equal(t, "<chart:weight:1>", html)

	cur, ok := m.Current("trend:weight")
	require.True(t, ok)
	require.Equal(t, inst.ID(), cur.ID())
}

func TestSurfaceManager_DestroyBeforeReplace(t *testing.T) {
	m := chart.NewSurfaceManager(&stubRenderer{})

	first, err := m.Attach("trend:weight", weightSeries())
	require.NoError(t, err)

	second, err := m.Attach("trend:weight", weightSeries())
	require.NoError(t, err)
	require.NotEqual(t, first.ID(), second.ID())

	// 旧实例在新实例登记前已销毁
	require.True(t, first.Closed())
	_, err = first.HTML()
	require.ErrorIs(t, err, chart.ErrInstanceClosed)

	require.False(t, second.Closed())
	cur, ok := m.Current("trend:weight")
	require.True(t, ok)
	require.Equal(t, second.ID(), cur.ID())
}

func TestSurfaceManager_AttachFailureLeavesSurfaceEmpty(t *testing.T) {
	r := &stubRenderer{}
	m := chart.NewSurfaceManager(r)

	first, err := m.Attach("trend:weight", weightSeries())
	require.NoError(t, err)

	r.fail = true
	_, err = m.Attach("trend:weight", weightSeries())
	require.Error(t, err)

	// 旧实例已销毁，失败的渲染不留下半个绑定
	require.True(t, first.Closed())
	_, ok := m.Current("trend:weight")
	require.False(t, ok)
}

func TestSurfaceManager_ReleaseAndShutdown(t *testing.T) {
	m := chart.NewSurfaceManager(&stubRenderer{})

	a, err := m.Attach("trend:weight", weightSeries())
	require.NoError(t, err)
	b, err := m.Attach("summary:body_temperature", weightSeries())
	require.NoError(t, err)

	m.Release("trend:weight")
	require.True(t, a.Closed())
	_, ok := m.Current("trend:weight")
	require.False(t, ok)

	m.Shutdown()
	require.True(t, b.Closed())
	_, ok = m.Current("summary:body_temperature")
	require.False(t, ok)
}

func TestEChartsRenderer_RenderHTML(t *testing.T) {
	r := chart.NewEChartsRenderer()
	s := weightSeries()
	s.Thresholds = []chart.ThresholdLine{{Value: 182, Label: "182"}}

	html, err := r.Render(s)
	require.NoError(t, err)
	require.True(t, strings.Contains(html, "echarts"))
	require.True(t, strings.Contains(html, "Weight"))
	require.True(t, strings.Contains(html, "dashed"))
	require.True(t, strings.Contains(html, "2026-02-01T08:00:00Z"))
}

func TestEChartsRenderer_EmptyPlaceholder(t *testing.T) {
	r := chart.NewEChartsRenderer()

	html, err := r.Render(chart.Series{VitalType: "weight", Label: "Weight"})
	require.NoError(t, err)
	require.True(t, strings.Contains(html, "chart-empty"))
	require.True(t, strings.Contains(html, "No data recorded"))
	require.False(t, strings.Contains(html, "echarts"))
}
