package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"wisefido-vitals-board/internal/models"

	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

// payloadKeys 序列化后再解回 map，拿到实际发出的字段集合
func payloadKeys(t *testing.T, p models.DerivedPayload) map[string]any {
	b, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestBuildPayload_WeightOnly(t *testing.T) {
	form := models.ManualEntryForm{Weight: floatPtr(165.5)}
	p := models.BuildPayload(form, time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))

	m := payloadKeys(t, p)
	require.Len(t, m, 2)
	require.Contains(t, m, "datetime")
	require.Contains(t, m, "weight")
	require.Equal(t, "2026-08-20T09:00:00Z", m["datetime"])
}

func TestBuildPayload_BloodPressureDerivesMAP(t *testing.T) {
	form := models.ManualEntryForm{Systolic: intPtr(120), Diastolic: intPtr(80)}
	p := models.BuildPayload(form, time.Now())

	require.NotNil(t, p.MAP)
	require.Equal(t, 93, *p.MAP)

	m := payloadKeys(t, p)
	require.Contains(t, m, "systolic")
	require.Contains(t, m, "diastolic")
	require.Contains(t, m, "map")
	require.NotContains(t, m, "weight")
	require.NotContains(t, m, "body_temperature")
}

func TestBuildPayload_PartialBloodPressureNoMAP(t *testing.T) {
	// 只填收缩压：分区进入载荷，但 MAP 缺一不派生
	form := models.ManualEntryForm{Systolic: intPtr(120)}
	p := models.BuildPayload(form, time.Now())

	require.Nil(t, p.MAP)
	m := payloadKeys(t, p)
	require.Contains(t, m, "systolic")
	require.NotContains(t, m, "diastolic")
	require.NotContains(t, m, "map")
}

func TestBuildPayload_UntouchedFormIsDatetimeOnly(t *testing.T) {
	p := models.BuildPayload(models.ManualEntryForm{}, time.Now())
	m := payloadKeys(t, p)
	require.Len(t, m, 1)
	require.Contains(t, m, "datetime")
}

func TestBuildPayload_Bathroom(t *testing.T) {
	form := models.ManualEntryForm{BathroomType: "wet", BathroomSize: "l"}
	p := models.BuildPayload(form, time.Now())
	m := payloadKeys(t, p)
	require.Equal(t, "wet", m["bathroom_type"])
	require.Equal(t, "l", m["bathroom_size"])
}

func TestManualEntryForm_Validate(t *testing.T) {
	require.NoError(t, models.ManualEntryForm{}.Validate())
	require.NoError(t, models.ManualEntryForm{
		Systolic: intPtr(120), Diastolic: intPtr(80),
		BodyTemp: floatPtr(98.6), Weight: floatPtr(165),
		BathroomType: "dry", BathroomSize: "s",
	}.Validate())

	require.Error(t, models.ManualEntryForm{Systolic: intPtr(59)}.Validate())
	require.Error(t, models.ManualEntryForm{Systolic: intPtr(251)}.Validate())
	require.Error(t, models.ManualEntryForm{Diastolic: intPtr(29)}.Validate())
	require.Error(t, models.ManualEntryForm{BodyTemp: floatPtr(94.9)}.Validate())
	require.Error(t, models.ManualEntryForm{BodyTemp: floatPtr(105.1)}.Validate())
	require.Error(t, models.ManualEntryForm{Calories: intPtr(-1)}.Validate())
	require.Error(t, models.ManualEntryForm{WaterMl: intPtr(-10)}.Validate())
	require.Error(t, models.ManualEntryForm{Weight: floatPtr(-0.1)}.Validate())
	require.Error(t, models.ManualEntryForm{BathroomType: "damp"}.Validate())
	require.Error(t, models.ManualEntryForm{BathroomSize: "xxl"}.Validate())
}

func TestHistoryQuery_Normalize(t *testing.T) {
	q := models.HistoryQuery{VitalType: "weight"}.Normalize()
	require.Equal(t, 1, q.Page)
	require.Equal(t, models.DefaultPageSize, q.PageSize)

	q = models.HistoryQuery{Page: 3, PageSize: 500}.Normalize()
	require.Equal(t, 3, q.Page)
	require.Equal(t, models.MaxPageSize, q.PageSize)
}

func TestNewBoardPagination(t *testing.T) {
	p := models.NewBoardPagination(1, 20, 3)
	require.False(t, p.CanPrev)
	require.True(t, p.CanNext)

	p = models.NewBoardPagination(3, 20, 3)
	require.True(t, p.CanPrev)
	require.False(t, p.CanNext)

	// 越界夹取
	p = models.NewBoardPagination(9, 20, 3)
	require.Equal(t, 3, p.Page)

	// 空结果集 total_pages 也是 1
	p = models.NewBoardPagination(1, 20, 0)
	require.Equal(t, 1, p.TotalPages)
	require.False(t, p.CanPrev)
	require.False(t, p.CanNext)
}
