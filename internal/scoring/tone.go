package scoring

import (
	"math"

	"github.com/verte-zerg/freqprofile/internal/model"
)

const (
	// ToneTimeLimitMs is how long a pair waits for an answer.
	ToneTimeLimitMs = 3500.0
	// ToneFastRTMs is the reaction time that earns a full speed score.
	ToneFastRTMs = 170.0
)

// ScoreTone averages the answered pairs into a preference vector and a
// strength score. Timed-out pairs carry no vector and no speed.
func ScoreTone(choices []model.ToneChoice) model.ToneData {
	var answered []model.ToneChoice
	for _, c := range choices {
		if c.Choice == model.ToneTimeout {
			continue
		}
		answered = append(answered, c)
	}
	if len(answered) == 0 {
		return model.ToneData{RTAvg: ToneTimeLimitMs}
	}

	var vec [3]float64
	var speedSum, rtSum float64
	for _, c := range answered {
		for i := range vec {
			vec[i] += c.Vector[i]
		}
		speedSum += ToneSpeedScore(c.ReactionTimeMs)
		rtSum += c.ReactionTimeMs
	}
	n := float64(len(answered))
	for i := range vec {
		vec[i] /= n
	}

	magnitude := math.Min(1, vectorNorm(vec)/math.Sqrt(3))
	speed01 := speedSum / n / 100
	strength := roundHalfUp(clamp(50+35*magnitude+25*speed01, 0, 100))

	return model.ToneData{
		Vec:      vec,
		Strength: strength,
		RTAvg:    roundHalfUp(rtSum / n),
	}
}

// ToneSpeedScore maps a reaction time to 0-100 on a log scale anchored at
// ToneFastRTMs (100) and ToneTimeLimitMs (0).
func ToneSpeedScore(rtMs float64) float64 {
	if !finite(rtMs) {
		return 0
	}
	rt := clamp(roundHalfUp(rtMs), 1, ToneTimeLimitMs)
	if rt <= ToneFastRTMs {
		return 100
	}
	lnFast := math.Log(ToneFastRTMs)
	lnMax := math.Log(ToneTimeLimitMs)
	return clamp(100*(1-(math.Log(rt)-lnFast)/(lnMax-lnFast)), 0, 100)
}

func vectorNorm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// ToneTraits names the pronounced axes of a preference vector.
func ToneTraits(vec [3]float64) []string {
	var traits []string
	if math.Abs(vec[0]) > 0.3 {
		traits = append(traits, pick(vec[0] > 0, "Enerjik", "Sakin"))
	}
	if math.Abs(vec[1]) > 0.3 {
		traits = append(traits, pick(vec[1] > 0, "Canlı", "Sade"))
	}
	if math.Abs(vec[2]) > 0.3 {
		traits = append(traits, pick(vec[2] > 0, "Keskin", "Yumuşak"))
	}
	if len(traits) == 0 {
		return []string{"Dengeli"}
	}
	return traits
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
