package timeseries

import "wisefido-vitals-board/internal/domain"

// ComputeAxisDomain 计算数值轴显示域 [min, max]
// 空输入返回该指标的固定回退域；否则在观测范围外加 padding 并夹取到生理上限：
//
//	pad = (max - min) * PaddingFraction
//	域  = [max(min-pad, MinFloor), min(max+pad, MaxCeiling)]
//
// 所有观测值相同时 pad == 0，域退化为零宽度，由调用方用 EnsureSpan 兜底。
func ComputeAxisDomain(values []float64, b domain.AxisBounds) (float64, float64) {
	if len(values) == 0 {
		return b.FallbackMin, b.FallbackMax
	}

	lo := values[0]
	hi := values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	pad := (hi - lo) * b.PaddingFraction
	min := lo - pad
	if min < b.MinFloor {
		min = b.MinFloor
	}
	max := hi + pad
	if max > b.MaxCeiling {
		max = b.MaxCeiling
	}
	return min, max
}

// EnsureSpan 保证显示域至少有 minSpan 的宽度
// 零宽度（或过窄）的域围绕中点对称撑开，避免图表退化成一条线贴边
func EnsureSpan(min, max, minSpan float64) (float64, float64) {
	if minSpan <= 0 || max-min >= minSpan {
		return min, max
	}
	mid := (min + max) / 2
	return mid - minSpan/2, mid + minSpan/2
}
