package scoring

const (
	populationMean  = 50.0
	populationSigma = 12.0

	minFQI = 40
	maxFQI = 170

	// LegendaryFQI is the lowest index that requires the gate.
	LegendaryFQI = 160
	// GatedFQI is where a failed gate pins the index.
	GatedFQI = 159
)

// SubScores are the five inputs to the composite index.
type SubScores struct {
	Freq      float64
	Chrono    float64
	Stability float64
	Tone      float64
	Breath    float64
}

// Z returns the weighted z-score of the sub-scores.
func (s SubScores) Z() float64 {
	z := func(v float64) float64 { return (subScore(v) - populationMean) / populationSigma }
	return 0.40*z(s.Freq) + 0.15*z(s.Chrono) + 0.10*z(s.Stability) + 0.15*z(s.Tone) + 0.20*z(s.Breath)
}

// RawFQI maps the weighted z-score to the display range before gating.
func (s SubScores) RawFQI() int {
	return int(roundHalfUp(clamp(100+15*s.Z(), minFQI, maxFQI)))
}

// LegendaryGate holds the conditions for reporting an index of 160 or more.
type LegendaryGate struct {
	Selectivity   float64
	Coherence     float64
	Breath        float64
	Chrono        float64
	Stability     float64
	NegativeRatio float64
}

// Passes reports whether every gate condition holds.
func (g LegendaryGate) Passes() bool {
	switch {
	case g.Selectivity < 85, g.Coherence < 85:
		return false
	case g.Breath < 85, g.Chrono < 90, g.Stability < 85:
		return false
	case g.NegativeRatio > 0.10:
		return false
	}
	return true
}

// Apply pins fqi at GatedFQI when it reaches the legendary tier without
// passing the gate.
func (g LegendaryGate) Apply(fqi int) int {
	if fqi >= LegendaryFQI && !g.Passes() {
		return GatedFQI
	}
	return fqi
}

// Percentile is a fixed presentation heuristic, not a fitted distribution.
func Percentile(fqi int) int {
	if fqi <= minFQI {
		return 1
	}
	if fqi >= maxFQI {
		return 99
	}
	z := float64(fqi-100) / 15
	return int(roundHalfUp(clamp(50+z*20, 1, 99)))
}

// FQIDescription labels an index band.
func FQIDescription(fqi int) string {
	switch {
	case fqi >= 160:
		return "Mükemmel"
	case fqi >= 140:
		return "Çok İyi"
	case fqi >= 120:
		return "İyi"
	case fqi >= 100:
		return "Orta Üstü"
	case fqi >= 80:
		return "Orta"
	case fqi >= 60:
		return "Gelişebilir"
	default:
		return "Başlangıç Seviyesi"
	}
}

// ScoreDescription labels a 0-100 sub-score band.
func ScoreDescription(score int) string {
	switch {
	case score >= 90:
		return "Olağanüstü"
	case score >= 80:
		return "Çok İyi"
	case score >= 70:
		return "İyi"
	case score >= 60:
		return "Orta"
	case score >= 50:
		return "Zayıf"
	default:
		return "Çok Zayıf"
	}
}

// ChronoBiasDescription labels the direction of time-estimation bias.
func ChronoBiasDescription(bias float64) string {
	switch {
	case bias > -0.5 && bias < 0.5:
		return "Mükemmel zamanlama"
	case bias > 0:
		return "Yavaş zaman algısı"
	default:
		return "Hızlı zaman algısı"
	}
}
