package timeseries

import (
	"sort"

	"wisefido-vitals-board/internal/domain"
)

// Ordering 窗口排序方式，由调用方显式声明
// 趋势图与紧凑摘要是两种不同的用例，不能混用
type Ordering int

const (
	// OrderChronological 旧 -> 新（趋势图）
	OrderChronological Ordering = iota
	// OrderMostRecentFirst 新 -> 旧（紧凑摘要组件）
	OrderMostRecentFirst
)

// WindowOptions 窗口筛选参数
type WindowOptions struct {
	Order               Ordering
	ExcludeSentinelZero bool // 对哨兵零指标（体温类）过滤 value == 0
	MaxPoints           int  // > 0 时截断为最近 N 个点（排序后）
}

// SelectWindow 从原始记录中筛选可成图的窗口
// 过滤规则：主读数缺失（null/非数值）一律剔除；ExcludeSentinelZero 时 0 也剔除。
// 无法解析时间戳的记录没有固有位置，两种排序下都排在所有有时间戳的记录之后。
// 返回全新切片，不保留输入引用，也不改动输入顺序。
func SelectWindow(records []domain.VitalRecord, opts WindowOptions) []domain.VitalRecord {
	out := make([]domain.VitalRecord, 0, len(records))
	for _, r := range records {
		v, ok := r.PrimaryValue()
		if !ok {
			continue
		}
		if opts.ExcludeSentinelZero && v == 0 {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := out[i].Time()
		tj, jok := out[j].Time()
		if !iok && !jok {
			return false
		}
		// 无时间戳的记录排在最后
		if !iok {
			return false
		}
		if !jok {
			return true
		}
		if opts.Order == OrderMostRecentFirst {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})

	if opts.MaxPoints > 0 && len(out) > opts.MaxPoints {
		if opts.Order == OrderChronological {
			// 保留尾部（最近的 N 个点）
			out = out[len(out)-opts.MaxPoints:]
		} else {
			out = out[:opts.MaxPoints]
		}
	}

	return out
}

// Values 提取窗口内的主读数序列（轴域计算的输入）
func Values(records []domain.VitalRecord) []float64 {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := r.PrimaryValue(); ok {
			vals = append(vals, v)
		}
	}
	return vals
}
