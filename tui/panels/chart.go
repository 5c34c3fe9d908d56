package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/tapeview/internal/replay"
	"github.com/zappabad/tapeview/internal/scale"
	"github.com/zappabad/tapeview/internal/series"
	"github.com/zappabad/tapeview/internal/timeline"
	"github.com/zappabad/tapeview/internal/trades"
	"github.com/zappabad/tapeview/tui/styles"
)

// ChartPanel paints the replay frame: candles over state-segment background
// tints, a volume strip, and buy/sell markers. It consumes positions and data
// from the engine; all playback logic lives there.
type ChartPanel struct {
	width  int
	height int
}

// NewChartPanel creates a chart panel with no size; the first WindowSizeMsg
// sets it.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// SetSize updates the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the frame.
func (p *ChartPanel) View(frame replay.Frame) string {
	var content strings.Builder

	title := styles.TitleStyle.Render(fmt.Sprintf("Replay - %s", frame.Symbol))

	if len(frame.Points) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No bars in window..."))
	} else {
		content.WriteString(p.renderChart(frame))
	}

	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return styles.PanelStyle.Width(p.width - 2).Render(panel)
}

func (p *ChartPanel) renderChart(frame replay.Frame) string {
	// Reserve space: 9 chars for price axis, 1 for separator.
	chartWidth := p.width - 14
	if chartWidth < 10 {
		chartWidth = 10
	}

	// Each bar takes 2 columns: candle plus gap.
	barWidth := 2
	columns := chartWidth / barWidth
	bars := subsample(frame.Points, columns)

	// 2 rows border/time axis, 1 volume strip, 1 marker row.
	chartHeight := p.height - 9
	if chartHeight < 5 {
		chartHeight = 5
	}

	lo, hi := frame.PriceRange.Min, frame.PriceRange.Max
	if hi <= lo {
		hi = lo + 1
	}

	var result strings.Builder

	// Chart rows, top to bottom = high to low price.
	for row := 0; row < chartHeight; row++ {
		price := rowPrice(row, lo, hi, chartHeight)
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%9.2f │", price)))

		for _, bar := range bars {
			ch := candleChar(bar, row, lo, hi, chartHeight)
			style := styles.CandleUpStyle
			if bar.Close < bar.Open {
				style = styles.CandleDownStyle
			}
			if bg, ok := segmentTint(frame.Segments, bar.Time); ok {
				style = style.Background(bg)
			}
			result.WriteString(style.Render(string(ch)))
			result.WriteString(" ")
		}
		result.WriteString("\n")
	}

	// Volume strip quantized against the stabilized volume range.
	result.WriteString(styles.ChartAxisStyle.Render("      vol │"))
	for _, bar := range bars {
		result.WriteString(styles.VolumeStyle.Render(string(volumeChar(bar.Volume, frame.VolumeRange))))
		result.WriteString(" ")
	}
	result.WriteString("\n")

	// Marker row: trade entries and exits aligned to their bars.
	result.WriteString(styles.ChartAxisStyle.Render("          │"))
	result.WriteString(markerRow(bars, frame.Markers))
	result.WriteString("\n")

	// Bottom border and time axis.
	result.WriteString(styles.ChartAxisStyle.Render("──────────┴"))
	for range bars {
		result.WriteString(styles.ChartAxisStyle.Render("──"))
	}
	result.WriteString("\n")
	result.WriteString(styles.ChartAxisStyle.Render("           "))
	axis := []byte(strings.Repeat(" ", len(bars)*2))
	for i, bar := range bars {
		if i%8 != 0 {
			continue
		}
		label := time.UnixMilli(bar.Time).UTC().Format("01/02")
		if pos := i * 2; pos+len(label) <= len(axis) {
			copy(axis[pos:], label)
		}
	}
	result.WriteString(styles.ChartLabelStyle.Render(string(axis)))

	return result.String()
}

// subsample reduces the visible bars to at most columns entries, keeping an
// even stride so the window's shape survives.
func subsample(points []series.TimePoint, columns int) []series.TimePoint {
	if columns < 1 {
		columns = 1
	}
	if len(points) <= columns {
		return points
	}
	out := make([]series.TimePoint, 0, columns)
	stride := float64(len(points)) / float64(columns)
	for i := 0; i < columns; i++ {
		out = append(out, points[int(float64(i)*stride)])
	}
	return out
}

func rowPrice(row int, lo, hi float64, height int) float64 {
	frac := float64(height-1-row) / float64(height-1)
	return lo + frac*(hi-lo)
}

// candleChar maps one bar to the character at a given chart row: thick body
// between open and close, thin wick to high/low, space elsewhere.
func candleChar(bar series.TimePoint, row int, lo, hi float64, height int) rune {
	price := rowPrice(row, lo, hi, height)

	bodyTop, bodyBottom := bar.Open, bar.Close
	if bar.Close > bar.Open {
		bodyTop, bodyBottom = bar.Close, bar.Open
	}

	// Rows are discrete; tolerate half a row of price.
	tolerance := (hi - lo) / float64(height*2)

	if price <= bodyTop+tolerance && price >= bodyBottom-tolerance {
		return '┃'
	}
	if price <= bar.High+tolerance && price > bodyTop {
		return '│'
	}
	if price >= bar.Low-tolerance && price < bodyBottom {
		return '│'
	}
	return ' '
}

func volumeChar(vol float64, r scale.Range) rune {
	if r.Width() <= 0 {
		return ' '
	}
	levels := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	idx := int(vol / r.Width() * float64(len(levels)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(levels) {
		idx = len(levels) - 1
	}
	return levels[idx]
}

// segmentTint returns the background color of the resolved segment covering
// the bar, if any.
func segmentTint(segments []timeline.Segment, ts int64) (lipgloss.Color, bool) {
	for _, seg := range segments {
		if ts >= seg.Start && ts < seg.End {
			switch seg.Label {
			case timeline.LabelMomentum:
				return styles.MomentumColor, true
			case timeline.LabelConsolidation:
				return styles.ConsolidationColor, true
			case timeline.LabelInPosition:
				return styles.InPositionColor, true
			}
		}
	}
	return "", false
}

// markerRow aligns each marker with the nearest rendered bar.
func markerRow(bars []series.TimePoint, markers []trades.Marker) string {
	cells := make([]string, len(bars))
	for i := range cells {
		cells[i] = " "
	}
	for _, m := range markers {
		idx := nearestBar(bars, m.Time)
		if idx < 0 {
			continue
		}
		if m.Kind == trades.MarkerBuy {
			cells[idx] = styles.MarkerBuyStyle.Render("▲")
		} else {
			cells[idx] = styles.MarkerSellStyle.Render("▼")
		}
	}
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c)
		b.WriteString(" ")
	}
	return b.String()
}

func nearestBar(bars []series.TimePoint, ts int64) int {
	best, bestDist := -1, int64(-1)
	for i, bar := range bars {
		dist := bar.Time - ts
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
