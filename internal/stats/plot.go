package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls plot geometry and scaling. When Max > Min every
// series shares that fixed range; otherwise each series is scaled to its own
// min/max.
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
	Min    float64
	Max    float64
}

func (o PlotOptions) fixed() bool {
	return o.Max > o.Min
}

type valueRange struct {
	lo float64
	hi float64
}

type dashPattern struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	fallbackTermWidth = 80
	axisSeparator     = " ┤ "
	relativeAxisLabel = "100%"
	relativeScaleNote = "Each series scaled to its own range."
	colorReset        = "\x1b[0m"
)

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
	{name: "sparse", period: 10, on: 2},
}

var seriesColors = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
	"\x1b[34m",
}

// PlotSeries renders a braille line plot of the series.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	if opts.Height <= 0 {
		opts.Height = defaultPlotHeight
	}
	if opts.Width <= 0 {
		opts.Width = PlotWidthFor(terminalWidth())
	}
	if opts.Width < minPlotWidth {
		opts.Width = minPlotWidth
	}

	resampled := make([]Series, len(series))
	ranges := make([]valueRange, len(series))
	for i, s := range series {
		resampled[i] = Series{Name: s.Name, Values: resample(s.Values, opts.Width)}
		if opts.fixed() {
			ranges[i] = valueRange{lo: opts.Min, hi: opts.Max}
			continue
		}
		// Raw range; resampling averages peaks away.
		lo, hi := minMax(s.Values)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		ranges[i] = valueRange{lo: lo, hi: hi}
	}

	dotRows := opts.Height * 4
	layers := make([][][]uint8, len(resampled))
	for si, s := range resampled {
		layers[si] = newCells(opts.Height, opts.Width)
		pattern := dashPatterns[si%len(dashPatterns)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px, py := x*2, rowFor(v, ranges[si], dotRows)
			plot := func(dx, dy int) {
				if pattern.draws(dx) {
					setDot(layers[si], dx, dy)
				}
			}
			if prevX < 0 {
				plot(px, py)
			} else {
				bresenham(prevX, prevY, px, py, plot)
			}
			prevX, prevY = px, py
		}
	}

	useColor := colorEnabled(w, opts.Color)
	labels := axisLabels(opts)
	labelWidth := 0
	for _, l := range labels {
		if n := runewidth.StringWidth(l); n > labelWidth {
			labelWidth = n
		}
	}

	var out strings.Builder
	if title != "" {
		out.WriteString(title + "\n")
	}
	if !opts.fixed() {
		out.WriteString(relativeScaleNote + "\n")
		for i, s := range resampled {
			fmt.Fprintf(&out, "%s: min=%.1f max=%.1f\n", s.Name, ranges[i].lo, ranges[i].hi)
		}
	}
	for y := 0; y < opts.Height; y++ {
		out.WriteString(runewidth.FillLeft(labels[y], labelWidth))
		out.WriteString(axisSeparator)
		for x := 0; x < opts.Width; x++ {
			mask, owner := mergeCell(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				out.WriteString(seriesColors[owner%len(seriesColors)])
				out.WriteRune(ch)
				out.WriteString(colorReset)
				continue
			}
			out.WriteRune(ch)
		}
		out.WriteByte('\n')
	}
	out.WriteString(legend(resampled, useColor) + "\n\n")
	_, err := io.WriteString(w, out.String())
	return err
}

// PlotWidthFor returns the plot width that fits within totalWidth columns
// next to the axis.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - runewidth.StringWidth(relativeAxisLabel) - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func axisLabels(opts PlotOptions) []string {
	labels := make([]string, opts.Height)
	top, mid, bottom := relativeAxisLabel, "50%", "0%"
	if opts.fixed() {
		top = fmt.Sprintf("%.0f", opts.Max)
		mid = fmt.Sprintf("%.0f", (opts.Max+opts.Min)/2)
		bottom = fmt.Sprintf("%.0f", opts.Min)
	}
	labels[0] = top
	if opts.Height > 2 {
		labels[opts.Height/2] = mid
	}
	if opts.Height > 1 {
		labels[opts.Height-1] = bottom
	}
	return labels
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func newCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// mergeCell ORs the dots of every layer; the first layer with a dot owns the
// cell color.
func mergeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, cells := range layers {
		m := cells[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

func (p dashPattern) draws(x int) bool {
	if p.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%p.period < p.on
}

// resample stretches or averages values down to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(width-1)
			idx := int(pos)
			if idx >= last {
				out[i] = values[last]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// rowFor maps v into a dot row, 0 at the top.
func rowFor(v float64, r valueRange, rows int) int {
	if rows <= 1 || r.hi <= r.lo {
		return 0
	}
	pos := (v - r.lo) / (r.hi - r.lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return max(0, min(rows-1, row))
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts[i] = label
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// brailleBits indexes dot masks by [column][row] inside a 2x4 braille cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%2][y%4]
}
