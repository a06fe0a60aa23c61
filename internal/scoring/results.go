// Package scoring derives sub-scores, the composite index and the archetype
// from captured quiz data. Everything here is a pure function of its inputs.
package scoring

import "github.com/verte-zerg/freqprofile/internal/model"

// Breakdown exposes the intermediate values behind a Result.
type Breakdown struct {
	Frequency FrequencyBreakdown
	Sub       SubScores
	Z         float64
	RawFQI    int
	Gate      LegendaryGate
	Legendary bool
	Auras     []AuraScore
	Result    model.Result
}

// Explain scores a session and keeps the intermediate values. Missing parts
// contribute zero sub-scores; it never fails.
func Explain(s model.Session) Breakdown {
	freq := FrequencyAffinity(s.Fixed, s.Prefeel, s.Breath)
	sub := SubScores{Freq: freq.Score}
	if s.Chrono != nil {
		sub.Chrono = subScore(s.Chrono.Score)
	}
	if s.Stability != nil {
		sub.Stability = subScore(s.Stability.Score)
	}
	if s.Tone != nil {
		sub.Tone = subScore(s.Tone.Strength)
	}
	if s.Breath != nil {
		sub.Breath = subScore(s.Breath.Score)
	}

	gate := LegendaryGate{
		Selectivity:   freq.Selectivity,
		Coherence:     freq.Coherence,
		Breath:        sub.Breath,
		Chrono:        sub.Chrono,
		Stability:     sub.Stability,
		NegativeRatio: NegativeRatio(s.Fixed),
	}
	raw := sub.RawFQI()
	fqi := gate.Apply(raw)

	auras := AuraScores(s.Tone, s.Fixed, s.Breath)
	return Breakdown{
		Frequency: freq,
		Sub:       sub,
		Z:         sub.Z(),
		RawFQI:    raw,
		Gate:      gate,
		Legendary: fqi >= LegendaryFQI,
		Auras:     auras,
		Result: model.Result{
			Scores: model.Scores{
				FFreq:      int(roundHalfUp(sub.Freq)),
				Chrono:     int(roundHalfUp(sub.Chrono)),
				Stability:  int(roundHalfUp(sub.Stability)),
				Tone:       int(roundHalfUp(sub.Tone)),
				Breath:     int(roundHalfUp(sub.Breath)),
				FQI:        fqi,
				Percentile: Percentile(fqi),
			},
			Aura: ClassifyAura(s.Tone, s.Fixed, s.Breath),
		},
	}
}

// ComputeResults scores a possibly partial session.
func ComputeResults(s model.Session) model.Result {
	return Explain(s).Result
}
