package models

import (
	"fmt"
	"time"

	"wisefido-vitals-board/internal/domain"
)

// 录入边界约束（表单层校验，不属于派生引擎）
const (
	SystolicMin  = 60
	SystolicMax  = 250
	DiastolicMin = 30
	DiastolicMax = 150
	BodyTempMin  = 95.0
	BodyTempMax  = 105.0
)

// ManualEntryForm 手动录入表单草稿
// 各分区（血压/体温/营养/体重/备注/浴厕）独立可选，未填的分区不进入提交载荷
type ManualEntryForm struct {
	Systolic     *int     `json:"systolic,omitempty"`
	Diastolic    *int     `json:"diastolic,omitempty"`
	BodyTemp     *float64 `json:"body_temperature,omitempty"`
	SkinTemp     *float64 `json:"skin_temperature,omitempty"`
	Calories     *int     `json:"calories,omitempty"`
	WaterMl      *int     `json:"water_ml,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	BathroomType string   `json:"bathroom_type,omitempty"`
	BathroomSize string   `json:"bathroom_size,omitempty"`
}

// Validate 录入边界校验；错误信息点名具体字段
func (f ManualEntryForm) Validate() error {
	if f.Systolic != nil && (*f.Systolic < SystolicMin || *f.Systolic > SystolicMax) {
		return fmt.Errorf("systolic must be between %d and %d", SystolicMin, SystolicMax)
	}
	if f.Diastolic != nil && (*f.Diastolic < DiastolicMin || *f.Diastolic > DiastolicMax) {
		return fmt.Errorf("diastolic must be between %d and %d", DiastolicMin, DiastolicMax)
	}
	if f.BodyTemp != nil && (*f.BodyTemp < BodyTempMin || *f.BodyTemp > BodyTempMax) {
		return fmt.Errorf("body temperature must be between %.1f and %.1f", BodyTempMin, BodyTempMax)
	}
	if f.SkinTemp != nil && (*f.SkinTemp < BodyTempMin || *f.SkinTemp > BodyTempMax) {
		return fmt.Errorf("skin temperature must be between %.1f and %.1f", BodyTempMin, BodyTempMax)
	}
	if f.Calories != nil && *f.Calories < 0 {
		return fmt.Errorf("calories must not be negative")
	}
	if f.WaterMl != nil && *f.WaterMl < 0 {
		return fmt.Errorf("water must not be negative")
	}
	if f.Weight != nil && *f.Weight < 0 {
		return fmt.Errorf("weight must not be negative")
	}
	if f.BathroomType != "" && !domain.ValidBathroomType(f.BathroomType) {
		return fmt.Errorf("bathroom type must be one of dry/wet/solid/mix")
	}
	if f.BathroomSize != "" && !domain.ValidBathroomSize(f.BathroomSize) {
		return fmt.Errorf("bathroom size must be one of smear/s/m/l/xl")
	}
	return nil
}

// ManualEntryView 录入面板的对外视图状态
type ManualEntryView struct {
	State     string          `json:"state"`
	Draft     ManualEntryForm `json:"draft"`
	LastError string          `json:"last_error,omitempty"`
}

// DerivedPayload 上游 POST /api/vitals/manual 的写请求
// 未填分区整体省略（omitempty），不发送显式 null
type DerivedPayload struct {
	Datetime        string   `json:"datetime"`
	Systolic        *int     `json:"systolic,omitempty"`
	Diastolic       *int     `json:"diastolic,omitempty"`
	MAP             *int     `json:"map,omitempty"`
	BodyTemperature *float64 `json:"body_temperature,omitempty"`
	SkinTemperature *float64 `json:"skin_temperature,omitempty"`
	Calories        *int     `json:"calories,omitempty"`
	WaterMl         *int     `json:"water_ml,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	BathroomType    *string  `json:"bathroom_type,omitempty"`
	BathroomSize    *string  `json:"bathroom_size,omitempty"`
}

// BuildPayload 由表单组装提交载荷
// 分区只要有一个输入被填写就整体进入载荷；血压分区两值齐全时附带派生 MAP。
// datetime 统一在组装时刻盖章（UTC RFC3339，机器可排序）。
func BuildPayload(f ManualEntryForm, now time.Time) DerivedPayload {
	p := DerivedPayload{Datetime: now.UTC().Format(time.RFC3339)}

	if f.Systolic != nil || f.Diastolic != nil {
		p.Systolic = f.Systolic
		p.Diastolic = f.Diastolic
		p.MAP = domain.DeriveMAP(f.Systolic, f.Diastolic)
	}
	if f.BodyTemp != nil || f.SkinTemp != nil {
		p.BodyTemperature = f.BodyTemp
		p.SkinTemperature = f.SkinTemp
	}
	if f.Calories != nil || f.WaterMl != nil {
		p.Calories = f.Calories
		p.WaterMl = f.WaterMl
	}
	if f.Weight != nil {
		p.Weight = f.Weight
	}
	if f.Notes != "" {
		p.Notes = &f.Notes
	}
	if f.BathroomType != "" || f.BathroomSize != "" {
		if f.BathroomType != "" {
			p.BathroomType = &f.BathroomType
		}
		if f.BathroomSize != "" {
			p.BathroomSize = &f.BathroomSize
		}
	}
	return p
}
