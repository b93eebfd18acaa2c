package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config wisefido-vitals-board 配置
type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	VitalsAPI VitalsAPIConfig
	Board     BoardConfig
	Log       struct {
		Level  string
		Format string
	}
}

// VitalsAPIConfig 上游 vitals API 配置
type VitalsAPIConfig struct {
	BaseURL      string        // 上游服务地址
	Timeout      time.Duration // 单次请求超时
	RetryCount   int           // 失败重试次数
	RetryWait    time.Duration // 重试等待
	RetryMaxWait time.Duration // 重试最大等待
}

// BoardConfig 看板行为配置
type BoardConfig struct {
	RefreshInterval  time.Duration // 图表刷新周期
	ChartTypes       []string      // 刷新循环维护的 vital_type 列表
	SummaryMaxPoints int           // 紧凑摘要窗口点数上限
	TrendMaxPoints   int           // 趋势图窗口点数上限
	HistoryPageSize  int           // 历史表格每页条数
	CacheTTL         time.Duration // 上游读缓存 TTL
	SuccessDisplay   time.Duration // 手动录入成功提示停留时长
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8086")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// 上游 vitals API 配置
	cfg.VitalsAPI.BaseURL = getEnv("VITALS_API_BASE_URL", "http://localhost:5000")
	cfg.VitalsAPI.Timeout = time.Duration(parseInt(getEnv("VITALS_API_TIMEOUT", "10"), 10)) * time.Second
	cfg.VitalsAPI.RetryCount = parseInt(getEnv("VITALS_API_RETRY_COUNT", "2"), 2)
	cfg.VitalsAPI.RetryWait = time.Duration(parseInt(getEnv("VITALS_API_RETRY_WAIT_MS", "500"), 500)) * time.Millisecond
	cfg.VitalsAPI.RetryMaxWait = time.Duration(parseInt(getEnv("VITALS_API_RETRY_MAX_WAIT_MS", "2000"), 2000)) * time.Millisecond

	// 看板配置
	cfg.Board.RefreshInterval = time.Duration(parseInt(getEnv("BOARD_REFRESH_INTERVAL", "60"), 60)) * time.Second
	cfg.Board.ChartTypes = splitList(getEnv("BOARD_CHART_TYPES", "body_temperature,weight"))
	cfg.Board.SummaryMaxPoints = parseInt(getEnv("BOARD_SUMMARY_MAX_POINTS", "10"), 10)
	cfg.Board.TrendMaxPoints = parseInt(getEnv("BOARD_TREND_MAX_POINTS", "100"), 100)
	cfg.Board.HistoryPageSize = parseInt(getEnv("BOARD_HISTORY_PAGE_SIZE", "20"), 20)
	cfg.Board.CacheTTL = time.Duration(parseInt(getEnv("BOARD_CACHE_TTL", "30"), 30)) * time.Second
	cfg.Board.SuccessDisplay = time.Duration(parseInt(getEnv("BOARD_SUCCESS_DISPLAY_MS", "2000"), 2000)) * time.Millisecond

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
