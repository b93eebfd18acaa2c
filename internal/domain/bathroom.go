package domain

import "strconv"

// 浴厕记录的类型枚举（手动录入表单）
const (
	BathroomTypeDry   = "dry"
	BathroomTypeWet   = "wet"
	BathroomTypeSolid = "solid"
	BathroomTypeMix   = "mix"
)

// 大小枚举：录入代码 -> 序数 -> 展示标签
// 上游历史数据中 value 可能是序数（0-4）也可能是代码字符串
var bathroomSizes = []struct {
	Code    string
	Ordinal int
	Label   string
}{
	{"smear", 0, "Smear"},
	{"s", 1, "Small"},
	{"m", 2, "Medium"},
	{"l", 3, "Large"},
	{"xl", 4, "Extra Large"},
}

// ValidBathroomType 校验浴厕类型代码
func ValidBathroomType(code string) bool {
	switch code {
	case BathroomTypeDry, BathroomTypeWet, BathroomTypeSolid, BathroomTypeMix:
		return true
	}
	return false
}

// ValidBathroomSize 校验大小代码
func ValidBathroomSize(code string) bool {
	for _, s := range bathroomSizes {
		if s.Code == code {
			return true
		}
	}
	return false
}

// BathroomSizeLabel 大小值（序数或代码）映射为展示标签
func BathroomSizeLabel(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		for _, s := range bathroomSizes {
			if s.Code == val {
				return s.Label, true
			}
		}
		// 序数以字符串形式出现（"3"）
		if n, err := strconv.Atoi(val); err == nil {
			return bathroomOrdinalLabel(n)
		}
	case float64:
		return bathroomOrdinalLabel(int(val))
	case int:
		return bathroomOrdinalLabel(val)
	}
	return "", false
}

func bathroomOrdinalLabel(n int) (string, bool) {
	for _, s := range bathroomSizes {
		if s.Ordinal == n {
			return s.Label, true
		}
	}
	return "", false
}
