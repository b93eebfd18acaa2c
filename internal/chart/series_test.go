package chart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wisefido-vitals-board/internal/chart"
	"wisefido-vitals-board/internal/domain"
	"wisefido-vitals-board/internal/timeseries"
)

func tempRecord(dt string, value any) domain.VitalRecord {
	return domain.VitalRecord{
		Datetime:  dt,
		VitalType: "body_temperature",
		Value:     value,
	}
}

func TestBuildSeries_FiltersAndOrders(t *testing.T) {
	meta := domain.MetaFor("body_temperature")
	records := []domain.VitalRecord{
		tempRecord("2026-02-03T08:00:00Z", 99.1),
		tempRecord("2026-02-01T08:00:00Z", 98.2),
		tempRecord("2026-02-02T08:00:00Z", float64(0)), // 哨兵零
		tempRecord("2026-02-02T09:00:00Z", nil),
		tempRecord("2026-02-02T10:00:00Z", 98.6),
	}

	s := chart.BuildSeries(meta, records, timeseries.OrderChronological, 0)

	require.Equal(t, "body_temperature", s.VitalType)
	require.Equal(t, "Body Temperature", s.Label)
	require.Equal(t, "°F", s.YAxisTitle)
	require.Len(t, s.Points, 3)
	require.Equal(t, []chart.Point{
		{X: "2026-02-01T08:00:00Z", Y: 98.2},
		{X: "2026-02-02T10:00:00Z", Y: 98.6},
		{X: "2026-02-03T08:00:00Z", Y: 99.1},
	}, s.Points)

	// 轴域覆盖全部观测值且不超出生理上限
	require.LessOrEqual(t, s.Domain[0], 98.2)
	require.GreaterOrEqual(t, s.Domain[1], 99.1)
	require.GreaterOrEqual(t, s.Domain[0], meta.Axis.MinFloor)
	require.LessOrEqual(t, s.Domain[1], meta.Axis.MaxCeiling)
}

func TestBuildSeries_Thresholds(t *testing.T) {
	meta := domain.MetaFor("body_temperature")
	s := chart.BuildSeries(meta, []domain.VitalRecord{
		tempRecord("2026-02-01T08:00:00Z", 98.6),
	}, timeseries.OrderChronological, 0)

	require.Equal(t, []chart.ThresholdLine{
		{Value: 97.0, Label: "97"},
		{Value: 99.5, Label: "99.5"},
	}, s.Thresholds)
}

func TestBuildSeries_MaxPointsKeepsMostRecent(t *testing.T) {
	meta := domain.MetaFor("weight")
	records := []domain.VitalRecord{
		{Datetime: "2026-02-01T08:00:00Z", VitalType: "weight", Value: 180.0},
		{Datetime: "2026-02-02T08:00:00Z", VitalType: "weight", Value: 181.0},
		{Datetime: "2026-02-03T08:00:00Z", VitalType: "weight", Value: 182.0},
	}

	s := chart.BuildSeries(meta, records, timeseries.OrderChronological, 2)
	require.Len(t, s.Points, 2)
	require.Equal(t, "2026-02-02T08:00:00Z", s.Points[0].X)
	require.Equal(t, "2026-02-03T08:00:00Z", s.Points[1].X)
}

func TestBuildSeries_SkipsRecordsWithoutTimestamp(t *testing.T) {
	meta := domain.MetaFor("weight")
	records := []domain.VitalRecord{
		{Datetime: "2026-02-01T08:00:00Z", VitalType: "weight", Value: 180.0},
		{VitalType: "weight", Value: 185.0}, // 时间戳缺失，时间轴上无位置
	}

	s := chart.BuildSeries(meta, records, timeseries.OrderChronological, 0)
	require.Len(t, s.Points, 1)
	require.Equal(t, 180.0, s.Points[0].Y)
	// 缺时间戳的值仍参与轴域
	require.GreaterOrEqual(t, s.Domain[1], 185.0)
}

func TestBuildSeries_EmptyInputFallbackDomain(t *testing.T) {
	meta := domain.MetaFor("body_temperature")
	s := chart.BuildSeries(meta, nil, timeseries.OrderChronological, 0)

	require.Empty(t, s.Points)
	require.Equal(t, [2]float64{90, 105}, s.Domain)
}

func TestBuildSeries_SingleValueMinSpan(t *testing.T) {
	meta := domain.MetaFor("body_temperature")
	s := chart.BuildSeries(meta, []domain.VitalRecord{
		tempRecord("2026-02-01T08:00:00Z", 98.6),
	}, timeseries.OrderChronological, 0)

	// 零宽度域被撑开到最小跨度，且仍包含观测值
	require.GreaterOrEqual(t, s.Domain[1]-s.Domain[0], meta.Axis.MinSpan)
	require.LessOrEqual(t, s.Domain[0], 98.6)
	require.GreaterOrEqual(t, s.Domain[1], 98.6)
}
