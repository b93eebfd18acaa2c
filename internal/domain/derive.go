package domain

import "math"

// DeriveMAP 由收缩压/舒张压计算平均动脉压
// 公式：diastolic + (systolic - diastolic) / 3，四舍五入（half away from zero）到整数
// 任一输入缺失返回 nil；不做生理范围校验（范围约束在录入表单边界处理）
func DeriveMAP(systolic, diastolic *int) *int {
	if systolic == nil || diastolic == nil {
		return nil
	}
	s := float64(*systolic)
	d := float64(*diastolic)
	m := int(math.Round(d + (s-d)/3))
	return &m
}
