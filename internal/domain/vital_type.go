package domain

import "strings"

// 展示分组
const (
	GroupTemperature   = "temperature"
	GroupBloodPressure = "blood_pressure"
	GroupNutrition     = "nutrition"
	GroupWeight        = "weight"
	GroupBathroom      = "bathroom"
)

// AxisBounds 数值轴的计算参数
// 空数据时回退到 [FallbackMin, FallbackMax]；
// 有数据时在观测范围外加 padding，但不超出 [MinFloor, MaxCeiling]
type AxisBounds struct {
	MinFloor        float64
	MaxCeiling      float64
	PaddingFraction float64
	FallbackMin     float64
	FallbackMax     float64
	MinSpan         float64 // 零宽度域的最小可视跨度
}

// TypeMeta 每种 vital_type 的展示与成图元数据
// vital_type 集合由上游定义、开放扩展；未登记的类型用 MetaFor 的默认值
type TypeMeta struct {
	Type         string
	Group        string
	Label        string
	Unit         string
	Color        string
	SentinelZero bool // 0 表示"未记录"（生理上不可能为 0 的指标）
	Axis         AxisBounds
	MinThreshold *float64 // 参考线下限
	MaxThreshold *float64 // 参考线上限
}

var typeMetas = []TypeMeta{
	{
		Type: "body_temperature", Group: GroupTemperature, Label: "Body Temperature",
		Unit: "°F", Color: "#ee6666", SentinelZero: true,
		Axis: AxisBounds{MinFloor: 90, MaxCeiling: 110, PaddingFraction: 0.05, FallbackMin: 90, FallbackMax: 105, MinSpan: 1},
		MinThreshold: floatPtr(97.0), MaxThreshold: floatPtr(99.5),
	},
	{
		Type: "blood_pressure", Group: GroupBloodPressure, Label: "Blood Pressure",
		Unit: "mmHg", Color: "#5470c6",
		Axis: AxisBounds{MinFloor: 40, MaxCeiling: 260, PaddingFraction: 0.1, FallbackMin: 60, FallbackMax: 160, MinSpan: 10},
	},
	{
		Type: "mean_arterial_pressure", Group: GroupBloodPressure, Label: "MAP",
		Unit: "mmHg", Color: "#73c0de",
		Axis: AxisBounds{MinFloor: 40, MaxCeiling: 200, PaddingFraction: 0.1, FallbackMin: 60, FallbackMax: 120, MinSpan: 10},
		MinThreshold: floatPtr(70), MaxThreshold: floatPtr(100),
	},
	{
		Type: "heart_rate", Group: "heart_rate", Label: "Heart Rate",
		Unit: "bpm", Color: "#fc8452", SentinelZero: true,
		Axis: AxisBounds{MinFloor: 30, MaxCeiling: 220, PaddingFraction: 0.1, FallbackMin: 40, FallbackMax: 120, MinSpan: 10},
		MinThreshold: floatPtr(60), MaxThreshold: floatPtr(100),
	},
	{
		Type: "calories", Group: GroupNutrition, Label: "Calories",
		Unit: "kcal", Color: "#91cc75",
		Axis: AxisBounds{MinFloor: 0, MaxCeiling: 10000, PaddingFraction: 0.1, FallbackMin: 0, FallbackMax: 2500, MinSpan: 100},
	},
	{
		Type: "water", Group: GroupNutrition, Label: "Water Intake",
		Unit: "mL", Color: "#3ba272",
		Axis: AxisBounds{MinFloor: 0, MaxCeiling: 10000, PaddingFraction: 0.1, FallbackMin: 0, FallbackMax: 3000, MinSpan: 100},
	},
	{
		Type: "weight", Group: GroupWeight, Label: "Weight",
		Unit: "lb", Color: "#9a60b4",
		Axis: AxisBounds{MinFloor: 0, MaxCeiling: 1000, PaddingFraction: 0.1, FallbackMin: 50, FallbackMax: 250, MinSpan: 2},
	},
	{
		Type: "bathroom", Group: GroupBathroom, Label: "Bathroom",
		Unit: "", Color: "#ea7ccc",
		Axis: AxisBounds{MinFloor: 0, MaxCeiling: 4, PaddingFraction: 0, FallbackMin: 0, FallbackMax: 4, MinSpan: 1},
	},
}

// MetaFor 按 vital_type 查元数据；未登记的类型返回通用默认值
func MetaFor(vitalType string) TypeMeta {
	for _, m := range typeMetas {
		if m.Type == vitalType {
			return m
		}
	}
	return TypeMeta{
		Type:  vitalType,
		Group: vitalType,
		Label: titleize(vitalType),
		Color: "#5470c6",
		Axis:  AxisBounds{MinFloor: -1e9, MaxCeiling: 1e9, PaddingFraction: 0.1, FallbackMin: 0, FallbackMax: 100, MinSpan: 1},
	}
}

// GroupFor 按 vital_type 推导展示分组
func GroupFor(vitalType string) string {
	return MetaFor(vitalType).Group
}

// titleize "body_temperature" -> "Body Temperature"
func titleize(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func floatPtr(f float64) *float64 { return &f }
