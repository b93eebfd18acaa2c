package chart

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EChartsRenderer 基于 go-echarts 的折线图渲染器
type EChartsRenderer struct{}

func NewEChartsRenderer() *EChartsRenderer { return &EChartsRenderer{} }

// Render 把序列渲染为自包含的 HTML 页面
// 空序列渲染无数据占位块而不是一张空图
func (r *EChartsRenderer) Render(s Series) (string, error) {
	if len(s.Points) == 0 {
		return fmt.Sprintf(`<div class="chart-empty">No data recorded for %s</div>`, s.Label), nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: s.Label,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		// 时间轴：点间距反映真实采样间隔，不按数组下标等距
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: s.YAxisTitle,
			Min:  s.Domain[0],
			Max:  s.Domain[1],
		}),
		charts.WithColorsOpts(opts.Colors{s.Color}),
	)

	data := make([]opts.LineData, 0, len(s.Points))
	for _, p := range s.Points {
		data = append(data, opts.LineData{Value: []interface{}{p.X, p.Y}})
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
	}

	if len(s.Thresholds) > 0 {
		var markLineItems []interface{}
		for _, th := range s.Thresholds {
			markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{
				Name:  th.Label,
				YAxis: th.Value,
			})
		}
		// 参考线：无箭头的灰色虚线
		seriesOpts = append(seriesOpts, func(series *charts.SingleSeries) {
			series.MarkLines = &opts.MarkLines{
				Data: markLineItems,
				MarkLineStyle: opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Color: "rgba(128, 128, 128, 0.6)",
						Type:  "dashed",
						Width: 1.5,
					},
				},
			}
		})
	}

	line.AddSeries(s.Label, data).SetSeriesOptions(seriesOpts...)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render line chart: %w", err)
	}
	return buf.String(), nil
}
