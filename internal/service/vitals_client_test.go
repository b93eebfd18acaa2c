package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wisefido-vitals-board/internal/config"
	"wisefido-vitals-board/internal/models"
	"wisefido-vitals-board/internal/service"
)

func newHTTPVitalsClient(t *testing.T, baseURL string) *service.VitalsClient {
	t.Helper()
	return service.NewVitalsClient(config.VitalsAPIConfig{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		RetryCount:   0,
		RetryWait:    10 * time.Millisecond,
		RetryMaxWait: 20 * time.Millisecond,
	}, zap.NewNop())
}

func TestVitalsClient_ListTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vitals/types", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["body_temperature","weight"]`))
	}))
	defer srv.Close()

	c := newHTTPVitalsClient(t, srv.URL)
	types, err := c.ListTypes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"body_temperature", "weight"}, types)
}

func TestVitalsClient_ListTypes_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"service unavailable"}`))
	}))
	defer srv.Close()

	c := newHTTPVitalsClient(t, srv.URL)
	_, err := c.ListTypes(context.Background())
	require.Error(t, err)

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	require.Equal(t, "service unavailable", apiErr.Message)
}

func TestVitalsClient_FetchHistory_NormalizesUpstreamPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vitals/history", r.URL.Path)
		require.Equal(t, "weight", r.URL.Query().Get("vital_type"))
		require.Equal(t, "1", r.URL.Query().Get("page"))
		require.Equal(t, "20", r.URL.Query().Get("page_size"))

		w.Header().Set("Content-Type", "application/json")
		// 第二条是坏数据，只丢弃该条，不拖垮整页；分页字段缺失按请求页兜底
		_, _ = w.Write([]byte(`{
			"records": [
				{"datetime":"2026-02-01T08:00:00Z","vital_type":"weight","value":181.5},
				"not-an-object"
			],
			"page": 0,
			"total_pages": 0
		}`))
	}))
	defer srv.Close()

	c := newHTTPVitalsClient(t, srv.URL)
	page, err := c.FetchHistory(context.Background(), models.HistoryQuery{VitalType: "weight"})
	require.NoError(t, err)

	require.Len(t, page.Records, 1)
	require.Equal(t, "weight", page.Records[0].VitalType)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.TotalPages)
	require.Equal(t, models.DefaultPageSize, page.PageSize)
}

func TestVitalsClient_FetchHistory_ClampsPageToTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records": [], "page": 9, "total_pages": 3}`))
	}))
	defer srv.Close()

	c := newHTTPVitalsClient(t, srv.URL)
	page, err := c.FetchHistory(context.Background(), models.HistoryQuery{VitalType: "weight", Page: 9})
	require.NoError(t, err)
	require.Equal(t, 3, page.Page)
	require.Equal(t, 3, page.TotalPages)
	require.NotNil(t, page.Records)
}

func TestVitalsClient_SubmitManual_RoundTrip(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vitals/manual", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"rec-1"}`))
	}))
	defer srv.Close()

	weight := 181.5
	c := newHTTPVitalsClient(t, srv.URL)
	resp, err := c.SubmitManual(context.Background(), models.DerivedPayload{
		Datetime: "2026-02-01T08:00:00Z",
		Weight:   &weight,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"rec-1"}`, string(resp))

	// 线上载荷只含已填分区
	require.Len(t, gotBody, 2)
	require.Equal(t, "2026-02-01T08:00:00Z", gotBody["datetime"])
	require.Equal(t, 181.5, gotBody["weight"])
}

func TestVitalsClient_SubmitManual_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"weight out of range"}`))
	}))
	defer srv.Close()

	c := newHTTPVitalsClient(t, srv.URL)
	_, err := c.SubmitManual(context.Background(), models.DerivedPayload{Datetime: "2026-02-01T08:00:00Z"})
	require.Error(t, err)

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	require.Equal(t, "weight out of range", apiErr.Message)
}

func TestVitalsClient_SubmitManual_MalformedErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := newHTTPVitalsClient(t, srv.URL)
	_, err := c.SubmitManual(context.Background(), models.DerivedPayload{Datetime: "2026-02-01T08:00:00Z"})
	require.Error(t, err)

	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Empty(t, apiErr.Message)
	require.Contains(t, apiErr.Error(), "status 500")
}
