package status

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoChartData indicates that no user holds a positive balance.
var ErrNoChartData = errors.New("no reputation to chart")

// Chart dimensions and styling constants control the visual appearance
// of the leaderboard chart.
const (
	// chartHeight is the height of the rendered image.
	chartHeight = 400
	// barWidth is the width of a single bar.
	barWidth = 60
	// barSpacing is the gap between two bars.
	barSpacing = 30
	// minChartWidth keeps small leaderboards readable.
	minChartWidth = 480

	// titleFontSize sets the size of the chart title text.
	titleFontSize = 12.0
	// xAxisFontSize sets the size of x-axis labels.
	xAxisFontSize = 10.0
	// yAxisFontSize sets the size of y-axis labels.
	yAxisFontSize = 12.0
	// yAxisHeadroom scales the highest bar to the top of the y-axis.
	yAxisHeadroom = 1.1
	// gridLineWidth controls the thickness of grid lines.
	gridLineWidth = 1.0
	// paddingTop adds space above the chart.
	paddingTop = 40
	// paddingBottom adds space below the chart.
	paddingBottom = 30
	// paddingLeft adds space to the left of the chart.
	paddingLeft = 20
	// paddingRight adds space to the right of the chart.
	paddingRight = 20
)

// barColor is the fill of every leaderboard bar.
var barColor = drawing.Color{R: 118, G: 75, B: 162, A: 255}

// LabelFunc resolves the label shown under a user's bar.
type LabelFunc func(user reputation.UserID) string

// ChartBuilder renders the top of the leaderboard as a bar chart.
type ChartBuilder struct {
	standings []reputation.Standing
	label     LabelFunc
}

// NewChartBuilder creates a chart builder for the given standings.
// Users without reputation are left out of the chart.
func NewChartBuilder(standings []reputation.Standing, label LabelFunc) *ChartBuilder {
	if label == nil {
		label = func(user reputation.UserID) string {
			return strconv.FormatUint(uint64(user), 10)
		}
	}

	filtered := make([]reputation.Standing, 0, len(standings))
	for _, standing := range standings {
		if standing.Points > 0 {
			filtered = append(filtered, standing)
		}
	}

	return &ChartBuilder{
		standings: filtered,
		label:     label,
	}
}

// Build renders the chart to PNG.
func (b *ChartBuilder) Build() (*bytes.Buffer, error) {
	if len(b.standings) == 0 {
		return nil, ErrNoChartData
	}

	graph := chart.BarChart{
		Title:      "Reputation Leaderboard",
		TitleStyle: b.getTitleStyle(),
		Background: b.getBackgroundStyle(),
		Width:      b.width(),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis:      b.getXAxisStyle(),
		YAxis:      b.getYAxis(b.highest()),
		Bars:       b.prepareBars(),
	}

	// Render chart to PNG format
	buf := new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// width grows the canvas with the number of bars.
func (b *ChartBuilder) width() int {
	width := paddingLeft + paddingRight + len(b.standings)*(barWidth+barSpacing) + 2*barSpacing
	return max(width, minChartWidth)
}

// highest returns the largest balance in the chart.
func (b *ChartBuilder) highest() float64 {
	var highest int64
	for _, standing := range b.standings {
		highest = max(highest, standing.Points)
	}
	return float64(highest)
}

// prepareBars converts standings into bar values, keeping leaderboard order.
func (b *ChartBuilder) prepareBars() []chart.Value {
	bars := make([]chart.Value, len(b.standings))
	for i, standing := range b.standings {
		bars[i] = chart.Value{
			Label: b.label(standing.UserID),
			Value: float64(standing.Points),
			Style: chart.Style{
				FillColor:   barColor,
				StrokeColor: barColor,
				StrokeWidth: gridLineWidth,
			},
		}
	}
	return bars
}

// getTitleStyle returns styling for the chart title.
func (b *ChartBuilder) getTitleStyle() chart.Style {
	return chart.Style{
		FontSize: titleFontSize,
	}
}

// getBackgroundStyle returns styling for the chart background,
// including padding around all edges.
func (b *ChartBuilder) getBackgroundStyle() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    paddingTop,
			Left:   paddingLeft,
			Right:  paddingRight,
			Bottom: paddingBottom,
		},
	}
}

// getXAxisStyle returns styling for the bar labels.
func (b *ChartBuilder) getXAxisStyle() chart.Style {
	return chart.Style{
		FontSize: xAxisFontSize,
	}
}

// getYAxis returns configuration for the y-axis. The range always starts at
// zero and leaves headroom above the highest bar.
func (b *ChartBuilder) getYAxis(highest float64) chart.YAxis {
	return chart.YAxis{
		Style: chart.Style{
			FontSize: yAxisFontSize,
		},
		Range: &chart.ContinuousRange{
			Min: 0,
			Max: highest * yAxisHeadroom,
		},
		GridMajorStyle: chart.Style{
			StrokeColor: chart.ColorAlternateGray,
			StrokeWidth: gridLineWidth,
		},
		ValueFormatter: func(v any) string {
			if f, ok := v.(float64); ok {
				return strconv.FormatFloat(f, 'f', 0, 64)
			}
			return ""
		},
	}
}
