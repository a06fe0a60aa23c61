// Package stats aggregates and renders the history of scored sessions.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/scoring"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(last, idx))])
	}
	return b.String()
}

// Summary aggregates a list of results.
type Summary struct {
	Count     int
	AvgFQI    float64
	BestFQI   int
	BestID    string
	Legendary int
	AvgScores model.Scores
	Auras     []model.AuraCount
}

// Summarize computes averages, the best result and the archetype
// distribution, most frequent archetype first.
func Summarize(results []model.ResultSummary) Summary {
	sum := Summary{Count: len(results)}
	if len(results) == 0 {
		return sum
	}
	var totals [6]int
	counts := map[model.AuraType]int{}
	for _, r := range results {
		sc := r.Scores
		totals[0] += sc.FFreq
		totals[1] += sc.Chrono
		totals[2] += sc.Stability
		totals[3] += sc.Tone
		totals[4] += sc.Breath
		totals[5] += sc.FQI
		if sum.BestID == "" || sc.FQI > sum.BestFQI {
			sum.BestFQI = sc.FQI
			sum.BestID = r.ID
		}
		if sc.FQI >= scoring.LegendaryFQI {
			sum.Legendary++
		}
		counts[r.Aura.Type]++
	}
	n := float64(len(results))
	avg := func(total int) int { return int(math.Round(float64(total) / n)) }
	sum.AvgScores = model.Scores{
		FFreq:     avg(totals[0]),
		Chrono:    avg(totals[1]),
		Stability: avg(totals[2]),
		Tone:      avg(totals[3]),
		Breath:    avg(totals[4]),
		FQI:       avg(totals[5]),
	}
	sum.AvgScores.Percentile = scoring.Percentile(sum.AvgScores.FQI)
	sum.AvgFQI = float64(totals[5]) / n

	for _, aura := range model.AuraTypes {
		if counts[aura] > 0 {
			sum.Auras = append(sum.Auras, model.AuraCount{Aura: aura, Count: counts[aura]})
		}
	}
	sort.SliceStable(sum.Auras, func(i, j int) bool {
		return sum.Auras[i].Count > sum.Auras[j].Count
	})
	return sum
}

// RenderSummary prints a summary of results.
func RenderSummary(w io.Writer, results []model.ResultSummary) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := Summarize(results)
	fqis := make([]float64, len(results))
	for i, r := range results {
		fqis[i] = float64(r.Scores.FQI)
	}
	auras := make([]string, len(s.Auras))
	for i, a := range s.Auras {
		auras[i] = fmt.Sprintf("%s %d", a.Aura, a.Count)
	}

	var b strings.Builder
	b.WriteString("Summary\n")
	fmt.Fprintf(&b, "Results: %d\n", s.Count)
	fmt.Fprintf(&b, "Avg FQI: %.1f (%s)\n", s.AvgFQI, scoring.FQIDescription(s.AvgScores.FQI))
	fmt.Fprintf(&b, "Best FQI: %d (%s)\n", s.BestFQI, shortID(s.BestID))
	if s.Legendary > 0 {
		fmt.Fprintf(&b, "Legendary: %d\n", s.Legendary)
	}
	fmt.Fprintf(&b, "Trend: %s\n", Sparkline(fqis))
	fmt.Fprintf(&b, "Archetypes: %s\n\n", strings.Join(auras, ", "))
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCurves prints moving-average curves of FQI and the sub-scores.
func RenderCurves(w io.Writer, results []model.ResultSummary, window int) error {
	return RenderCurvesWithSize(w, results, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints the curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, results []model.ResultSummary, window, totalWidth, height int, useColor bool) error {
	if len(results) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	series := ScoreSeries(results, window)
	if err := PlotSeries(w, "FQI", series[:1], PlotOptions{
		Width: width, Height: height, Color: useColor, Min: 40, Max: 170,
	}); err != nil {
		return err
	}
	return PlotSeries(w, "Sub-scores", series[1:], PlotOptions{
		Width: width, Height: height, Color: useColor, Min: 0, Max: 100,
	})
}

// ScoreSeries extracts FQI followed by the five sub-scores, smoothed over
// window results.
func ScoreSeries(results []model.ResultSummary, window int) []Series {
	names := []string{"FQI", "F_freq", "Chrono", "Stability", "Tone", "Breath"}
	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(results))
	}
	for i, r := range results {
		sc := r.Scores
		for k, v := range []int{sc.FQI, sc.FFreq, sc.Chrono, sc.Stability, sc.Tone, sc.Breath} {
			values[k][i] = float64(v)
		}
	}
	series := make([]Series, len(names))
	for i, name := range names {
		series[i] = Series{Name: name, Values: MovingAverage(values[i], window)}
	}
	return series
}

// RenderResultTable prints one row per result, oldest first.
func RenderResultTable(w io.Writer, results []model.ResultSummary) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	headers := []string{"Date", "ID", "FQI", "Pct", "Aura", "F_freq", "Chrono", "Stab", "Tone", "Breath"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		sc := r.Scores
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			shortID(r.ID),
			fmt.Sprintf("%d", sc.FQI),
			fmt.Sprintf("%d", sc.Percentile),
			string(r.Aura.Type),
			fmt.Sprintf("%d", sc.FFreq),
			fmt.Sprintf("%d", sc.Chrono),
			fmt.Sprintf("%d", sc.Stability),
			fmt.Sprintf("%d", sc.Tone),
			fmt.Sprintf("%d", sc.Breath),
		})
	}
	right := map[int]bool{2: true, 3: true, 5: true, 6: true, 7: true, 8: true, 9: true}
	return writeLines(w, "Results", formatTable(headers, rows, right))
}

// RenderLabelTable prints label aggregates, most chosen first.
func RenderLabelTable(w io.Writer, title string, aggs []model.LabelAggregate) error {
	if len(aggs) == 0 {
		return nil
	}
	order := TopLabels(aggs, len(aggs))
	byLabel := make(map[string]model.LabelAggregate, len(aggs))
	for _, a := range aggs {
		byLabel[a.Label] = a
	}
	rows := make([][]string, 0, len(order))
	for _, label := range order {
		a := byLabel[label]
		rows = append(rows, []string{label, fmt.Sprintf("%d", a.Count), fmt.Sprintf("%.1f", AverageLike(a))})
	}
	return writeLines(w, title, formatTable([]string{"Label", "Count", "Avg Like"}, rows, map[int]bool{1: true, 2: true}))
}

func writeLines(w io.Writer, title string, lines []string) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
