package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/scoring"
)

const barWidth = 20

// RenderCard prints a scored session with its descriptive notes. now drives
// the time-dependent breath insights.
func RenderCard(w io.Writer, rec model.ResultRecord, now time.Time) error {
	sc := rec.Result.Scores
	s := rec.Session
	var b strings.Builder

	fmt.Fprintf(&b, "Frequency Profile %s\n", shortID(rec.ID))
	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Taken: %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "\nFQI %d  %s  (percentile %d)\n", sc.FQI, scoring.FQIDescription(sc.FQI), sc.Percentile)
	if sc.FQI >= scoring.LegendaryFQI {
		b.WriteString("Legendary tier\n")
	}
	b.WriteByte('\n')

	rows := [][]string{
		scoreRow("Frequency", sc.FFreq, len(s.Fixed) > 0),
		scoreRow("Chrono", sc.Chrono, s.Chrono != nil),
		scoreRow("Stability", sc.Stability, s.Stability != nil),
		scoreRow("Tone", sc.Tone, s.Tone != nil),
		scoreRow("Breath", sc.Breath, s.Breath != nil),
	}
	for _, line := range formatTable(nil, rows, map[int]bool{2: true}) {
		b.WriteString(line + "\n")
	}

	aura := rec.Result.Aura
	fmt.Fprintf(&b, "\nArchetype: %s", aura.Type)
	if aura.Secondary != "" {
		fmt.Fprintf(&b, " (secondary %s)", aura.Secondary)
	}
	fmt.Fprintf(&b, "\n%s\n%s\n", scoring.AuraDescription(aura.Type), scoring.BuildNarrative(aura, s.Breath))

	if s.Tone != nil {
		fmt.Fprintf(&b, "\nTone: %s (avg reaction %.0f ms)\n", strings.Join(scoring.ToneTraits(s.Tone.Vec), ", "), s.Tone.RTAvg)
	}
	if s.Chrono != nil && len(s.Chrono.Trials) > 0 {
		fmt.Fprintf(&b, "Chrono: %s (bias %+.2f s, error %.1f%%)\n",
			scoring.ChronoBiasDescription(s.Chrono.Bias), s.Chrono.Bias, s.Chrono.MAPE)
	}
	if s.FreePick != nil {
		fmt.Fprintf(&b, "Free pick: %.0f Hz\n", s.FreePick.F)
	}
	if s.Breath != nil && s.Breath.BPM > 0 {
		writeBreath(&b, *s.Breath, now)
	}

	fmt.Fprintf(&b, "\n%s\n", scoring.ShareLine(rec.Result))
	_, err := io.WriteString(w, b.String())
	return err
}

func scoreRow(name string, score int, present bool) []string {
	if !present {
		return []string{name, strings.Repeat("·", barWidth), "-", "not measured"}
	}
	return []string{name, bar(score), fmt.Sprintf("%d", score), scoring.ScoreDescription(score)}
}

func bar(score int) string {
	filled := max(0, min(barWidth, score*barWidth/100))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func writeBreath(b *strings.Builder, breath model.BreathData, now time.Time) {
	fmt.Fprintf(b, "\nBreath: %.1f breaths/min, inhale %.0f ms, exhale %.0f ms, cv %.3f\n",
		breath.BPM, breath.InhaleAvg, breath.ExhaleAvg, breath.CV)
	comps := scoring.BreathBreakdown(breath)
	fmt.Fprintf(b, "  coherence %.0f, resonance %.0f, ratio %.0f", comps.Coherence, comps.Resonance, comps.NaturalRatio)
	if comps.DepthMagnitude != nil {
		fmt.Fprintf(b, ", depth %.0f, deep ratio %.0f", *comps.DepthMagnitude, *comps.DeepRatioBalance)
	}
	b.WriteByte('\n')

	sug := scoring.SuggestFrequency(breath)
	fmt.Fprintf(b, "  suggested tone: %d Hz (%s, breath key %d Hz)\n", sug.Frequency, sug.Mode, sug.Mapped)

	ins := scoring.NewBreathInsights(breath, now)
	for _, group := range [][]string{ins.Constitution, ins.Energetics, ins.Insights, ins.Tips} {
		for _, line := range group {
			fmt.Fprintf(b, "  - %s\n", line)
		}
	}
}
