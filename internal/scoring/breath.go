package scoring

import (
	"math"

	"github.com/verte-zerg/freqprofile/internal/model"
)

const (
	// MinBreathPhaseMs is the shortest inhale or exhale kept from capture.
	MinBreathPhaseMs = 200.0
	// ResonanceBPM is the target breathing rate.
	ResonanceBPM = 5.5
	// PreferredExhaleRatio is the preferred exhale:inhale ratio.
	PreferredExhaleRatio = 1.2
)

// BreathComponents are the sub-terms blended into the breath score. The deep
// terms are nil unless both deep averages were captured.
type BreathComponents struct {
	Coherence        float64
	Resonance        float64
	NaturalRatio     float64
	DepthMagnitude   *float64
	DeepRatioBalance *float64
}

// Score blends the present components, renormalizing weights.
func (c BreathComponents) Score() float64 {
	parts := []weighted{
		{score: c.Coherence, weight: 0.35},
		{score: c.Resonance, weight: 0.25},
		{score: c.NaturalRatio, weight: 0.15},
	}
	if c.DepthMagnitude != nil {
		parts = append(parts, weighted{score: *c.DepthMagnitude, weight: 0.15})
	}
	if c.DeepRatioBalance != nil {
		parts = append(parts, weighted{score: *c.DeepRatioBalance, weight: 0.10})
	}
	return roundHalfUp(blend(parts))
}

// ScoreBreath scores natural cycles plus optional deep-breath averages. With
// no cycles it returns the zero-score sentinel.
func ScoreBreath(cycles []model.BreathCycle, deepInhaleAvg, deepExhaleAvg *float64) model.BreathData {
	if len(cycles) == 0 {
		return model.BreathData{Ratio: 1, CV: 1}
	}
	inhales := make([]float64, len(cycles))
	exhales := make([]float64, len(cycles))
	totals := make([]float64, len(cycles))
	for i, c := range cycles {
		inhales[i] = c.InhaleMs
		exhales[i] = c.ExhaleMs
		totals[i] = c.TotalMs
	}
	inhaleAvg := mean(inhales)
	exhaleAvg := mean(exhales)
	totalAvg := mean(totals)

	var ratio, cv, bpm float64
	if exhaleAvg > 0 {
		ratio = inhaleAvg / exhaleAvg
	}
	if totalAvg > 0 {
		cv = stdDev(totals) / totalAvg
		bpm = 60000 / totalAvg
	}

	deepIn, deepEx := presentDeep(deepInhaleAvg, deepExhaleAvg)
	comps := breathComponents(inhaleAvg, exhaleAvg, cv, bpm, deepIn, deepEx)

	data := model.BreathData{
		InhaleAvg: roundHalfUp(inhaleAvg),
		ExhaleAvg: roundHalfUp(exhaleAvg),
		Ratio:     roundTo(ratio, 2),
		CV:        roundTo(cv, 3),
		BPM:       roundTo(bpm, 1),
		Score:     comps.Score(),
	}
	if deepIn != nil {
		in := roundHalfUp(*deepIn)
		ex := roundHalfUp(*deepEx)
		data.DeepInhaleAvg = &in
		data.DeepExhaleAvg = &ex
	}
	return data
}

// BreathFromCapture scores raw capture output: cycles and deep phases shorter
// than MinBreathPhaseMs are discarded and deep samples are averaged.
func BreathFromCapture(cycles []model.BreathCycle, deepInhales, deepExhales []float64) model.BreathData {
	kept := make([]model.BreathCycle, 0, len(cycles))
	for _, c := range cycles {
		if c.InhaleMs < MinBreathPhaseMs || c.ExhaleMs < MinBreathPhaseMs {
			continue
		}
		if c.TotalMs <= 0 {
			c.TotalMs = c.InhaleMs + c.ExhaleMs
		}
		kept = append(kept, c)
	}
	var deepIn, deepEx *float64
	if avg, ok := phaseAverage(deepInhales); ok {
		deepIn = &avg
	}
	if avg, ok := phaseAverage(deepExhales); ok {
		deepEx = &avg
	}
	return ScoreBreath(kept, deepIn, deepEx)
}

// BreathBreakdown recomputes the components from stored breath data.
func BreathBreakdown(b model.BreathData) BreathComponents {
	deepIn, deepEx := presentDeep(b.DeepInhaleAvg, b.DeepExhaleAvg)
	return breathComponents(b.InhaleAvg, b.ExhaleAvg, b.CV, b.BPM, deepIn, deepEx)
}

// CoherenceScore maps the coefficient of variation of cycle lengths to 0-100.
func CoherenceScore(cv float64) float64 {
	if !finite(cv) {
		return 0
	}
	return clamp(100-cv*220, 0, 100)
}

func breathComponents(inhaleAvg, exhaleAvg, cv, bpm float64, deepIn, deepEx *float64) BreathComponents {
	comps := BreathComponents{
		Coherence: CoherenceScore(cv),
		Resonance: clamp(100-math.Abs(bpm-ResonanceBPM)/3*100, 0, 100),
	}
	if inhaleAvg > 0 {
		comps.NaturalRatio = ratioCloseness(exhaleAvg/inhaleAvg, PreferredExhaleRatio)
	}
	if deepIn != nil && deepEx != nil {
		depth := clamp(((*deepIn+*deepEx)/2-2000)/6000*100, 0, 100)
		balance := ratioCloseness(*deepEx / *deepIn, PreferredExhaleRatio)
		comps.DepthMagnitude = &depth
		comps.DeepRatioBalance = &balance
	}
	return comps
}

// presentDeep returns both deep averages or neither.
func presentDeep(in, ex *float64) (*float64, *float64) {
	if in == nil || ex == nil {
		return nil, nil
	}
	if !finite(*in) || !finite(*ex) || *in <= 0 || *ex <= 0 {
		return nil, nil
	}
	return in, ex
}

func phaseAverage(samples []float64) (float64, bool) {
	kept := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s >= MinBreathPhaseMs {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return 0, false
	}
	return mean(kept), true
}

// exhaleInhale is the exhale:inhale ratio with the inhale floored at 1 ms.
func exhaleInhale(b model.BreathData) float64 {
	return b.ExhaleAvg / math.Max(1, b.InhaleAvg)
}

// hasBreath reports whether b carries a measured breathing rate; the
// zero-score sentinel does not.
func hasBreath(b *model.BreathData) bool {
	return b != nil && finite(b.BPM) && b.BPM > 0
}
