package domain

import (
	"strconv"
	"time"
)

// VitalRecord 一条带时间戳的健康观测记录（来自上游 /api/vitals/history）
// value 既可能是数值（体温、体重），也可能是枚举字符串（bathroom 的 type/size）
type VitalRecord struct {
	Datetime       string   `json:"datetime"`                  // RFC3339；上游异常数据可能为空
	VitalType      string   `json:"vital_type"`
	VitalGroup     string   `json:"vital_group,omitempty"`     // 为空时由 vital_type 推导
	Value          any      `json:"value"`
	SecondaryValue *float64 `json:"secondary_value,omitempty"` // 伴随读数（如体温记录附带的皮肤温度）
	Notes          string   `json:"notes,omitempty"`
}

// Time 解析记录时间戳
// 无法解析（缺失/格式异常）返回 false，排序时此类记录排在所有有时间戳的记录之后
func (r VitalRecord) Time() (time.Time, bool) {
	if r.Datetime == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, r.Datetime); err == nil {
		return t, true
	}
	// 兼容上游历史数据中不带时区的旧格式
	if t, err := time.Parse("2006-01-02 15:04:05", r.Datetime); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// PrimaryValue 主读数的数值形式
// value 为 null、枚举字符串或其它非数值时返回 false
func (r VitalRecord) PrimaryValue() (float64, bool) {
	switch v := r.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Group 展示分组；上游未提供时按 vital_type 推导
func (r VitalRecord) Group() string {
	if r.VitalGroup != "" {
		return r.VitalGroup
	}
	return GroupFor(r.VitalType)
}

// DisplayValue 表格/导出用的展示值
// bathroom 的大小序数会映射为 Smear/Small/... 标签，其余保持原样
func (r VitalRecord) DisplayValue() string {
	if r.Group() == GroupBathroom {
		if label, ok := BathroomSizeLabel(r.Value); ok {
			return label
		}
	}
	switch v := r.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
