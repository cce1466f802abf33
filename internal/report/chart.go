package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/khanrehan/halalinvest/internal/technicals"
	"github.com/khanrehan/halalinvest/pkg/models"
)

// PriceChartPNG renders a one-year close-price chart with the 50- and
// 200-day moving averages overlaid. Returns raw PNG bytes.
func PriceChartPNG(ticker string, bars []models.OHLCV) ([]byte, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("need at least 2 bars, got %d", len(bars))
	}

	closes := technicals.Closes(bars)
	sma50 := technicals.SMA(closes, technicals.SMAShortPeriod)
	sma200 := technicals.SMA(closes, technicals.SMALongPeriod)

	// Show roughly the last trading year.
	start := 0
	if len(bars) > 252 {
		start = len(bars) - 252
	}

	xValues := make([]time.Time, 0, len(bars)-start)
	closeY := make([]float64, 0, len(bars)-start)
	for _, bar := range bars[start:] {
		xValues = append(xValues, bar.Timestamp)
		closeY = append(closeY, bar.Close)
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: "Close",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"),
				StrokeWidth: 2.0,
			},
			XValues: xValues,
			YValues: closeY,
		},
	}
	if s := overlaySeries("SMA 50", "f59e0b", xValues, sma50, start); s != nil {
		series = append(series, s)
	}
	if s := overlaySeries("SMA 200", "9ca3af", xValues, sma200, start); s != nil {
		series = append(series, s)
	}

	graph := chart.Chart{
		Title:  ticker,
		Width:  900,
		Height: 360,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// overlaySeries builds a moving-average time series aligned to the
// visible window. Returns nil when the average never filled in.
func overlaySeries(name, color string, xValues []time.Time, sma []float64, start int) chart.Series {
	if sma == nil || start >= len(sma) {
		return nil
	}
	y := sma[start:]
	// Leading zeros are unfilled positions; clip to the filled region.
	firstFilled := -1
	for i, v := range y {
		if v > 0 {
			firstFilled = i
			break
		}
	}
	if firstFilled < 0 {
		return nil
	}
	return chart.TimeSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex(color),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues[firstFilled:],
		YValues: y[firstFilled:],
	}
}

// PriceChartDataURI renders the price chart and wraps it in an inline
// data URI for direct embedding into the HTML report. A render failure
// yields an empty string; the report simply omits the chart.
func PriceChartDataURI(ticker string, bars []models.OHLCV) string {
	png, err := PriceChartPNG(ticker, bars)
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
