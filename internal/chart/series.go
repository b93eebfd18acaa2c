package chart

import (
	"strconv"

	"wisefido-vitals-board/internal/domain"
	"wisefido-vitals-board/internal/timeseries"
)

// Point 单个图表点；X 为时间戳，Y 为数值
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// ThresholdLine 独立于数据序列的横向参考线
type ThresholdLine struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Series 交给渲染后端的展示结构
// 每次数据刷新重新构建，构建后不做原地修改
type Series struct {
	VitalType  string          `json:"vital_type"`
	Label      string          `json:"label"`
	YAxisTitle string          `json:"y_axis_title,omitempty"`
	Color      string          `json:"color"`
	Points     []Point         `json:"points"`
	Thresholds []ThresholdLine `json:"thresholds,omitempty"`
	Domain     [2]float64      `json:"domain"`
}

// BuildSeries 把原始记录整形为图表序列
// 开窗过滤 -> 轴域计算 -> 参考线装配；无时间戳的记录参与轴域但不出点
func BuildSeries(meta domain.TypeMeta, records []domain.VitalRecord, order timeseries.Ordering, maxPoints int) Series {
	window := timeseries.SelectWindow(records, timeseries.WindowOptions{
		Order:               order,
		ExcludeSentinelZero: meta.SentinelZero,
		MaxPoints:           maxPoints,
	})

	points := make([]Point, 0, len(window))
	for _, rec := range window {
		if _, ok := rec.Time(); !ok {
			continue
		}
		v, ok := rec.PrimaryValue()
		if !ok {
			continue
		}
		points = append(points, Point{X: rec.Datetime, Y: v})
	}

	min, max := timeseries.ComputeAxisDomain(timeseries.Values(window), meta.Axis)
	min, max = timeseries.EnsureSpan(min, max, meta.Axis.MinSpan)

	s := Series{
		VitalType:  meta.Type,
		Label:      meta.Label,
		YAxisTitle: meta.Unit,
		Color:      meta.Color,
		Points:     points,
		Domain:     [2]float64{min, max},
	}
	if meta.MinThreshold != nil {
		s.Thresholds = append(s.Thresholds, ThresholdLine{Value: *meta.MinThreshold, Label: formatThreshold(*meta.MinThreshold)})
	}
	if meta.MaxThreshold != nil {
		s.Thresholds = append(s.Thresholds, ThresholdLine{Value: *meta.MaxThreshold, Label: formatThreshold(*meta.MaxThreshold)})
	}
	return s
}

// formatThreshold 参考线标签就是数值本身
func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
