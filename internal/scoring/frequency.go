package scoring

import (
	"math"

	"github.com/verte-zerg/freqprofile/internal/model"
)

const (
	// AnchorHz is the pitch the breath key is folded toward.
	AnchorHz   = 432.0
	minKeyHz   = 40.0
	maxKeyHz   = 8000.0
	neutralSub = 50.0
)

// FrequencyBreakdown holds the F_freq sub-terms, each in [0,100].
type FrequencyBreakdown struct {
	Selectivity     float64
	Coherence       float64
	Valence         float64
	BreathAlignment float64
	Score           float64
}

// FrequencyAffinity computes F_freq from fixed ratings, first impressions and
// breath data. Without fixed ratings the score is zero.
func FrequencyAffinity(fixed []model.FixedFreqItem, prefeel []model.QuickFeel, breath *model.BreathData) FrequencyBreakdown {
	fb := FrequencyBreakdown{
		Selectivity:     Selectivity(fixed),
		Coherence:       PrefeelCoherence(prefeel, fixed),
		Valence:         clamp(50+ValenceBalance(fixed)*50, 0, 100),
		BreathAlignment: BreathAlignment(fixed, breath),
	}
	if len(fixed) == 0 {
		return fb
	}
	fb.Score = 0.30*fb.Selectivity + 0.30*fb.Coherence + 0.20*fb.Valence + 0.20*fb.BreathAlignment
	return fb
}

// Selectivity maps the spread of like ratings to 0-100. Fewer than three
// ratings carry no signal.
func Selectivity(fixed []model.FixedFreqItem) float64 {
	if len(fixed) < 3 {
		return 0
	}
	likes := make([]float64, len(fixed))
	for i, item := range fixed {
		likes[i] = item.Like
	}
	return clamp(stdDev(likes)/30*100, 0, 100)
}

// PrefeelCoherence is the share of first impressions whose label matches the
// fixed rating at the same frequency. No overlap is neutral.
func PrefeelCoherence(prefeel []model.QuickFeel, fixed []model.FixedFreqItem) float64 {
	var matches, compared int
	for _, pf := range prefeel {
		item, ok := findFixed(fixed, pf.F)
		if !ok {
			continue
		}
		compared++
		if pf.Feel == item.Valence {
			matches++
		}
	}
	if compared == 0 {
		return neutralSub
	}
	return float64(matches) / float64(compared) * 100
}

func findFixed(fixed []model.FixedFreqItem, f float64) (model.FixedFreqItem, bool) {
	for _, item := range fixed {
		if item.F == f {
			return item, true
		}
	}
	return model.FixedFreqItem{}, false
}

// ValenceBalance returns (positive-negative)/(positive+negative) over the
// fixed labels, or 0 when none are polar.
func ValenceBalance(fixed []model.FixedFreqItem) float64 {
	var pos, neg int
	for _, item := range fixed {
		v, ok := item.Valence.Valence()
		if !ok {
			continue
		}
		switch v {
		case model.ValencePositive:
			pos++
		case model.ValenceNegative:
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// NegativeRatio is the share of fixed ratings with a negative label.
func NegativeRatio(fixed []model.FixedFreqItem) float64 {
	if len(fixed) == 0 {
		return 0
	}
	var neg int
	for _, item := range fixed {
		if v, ok := item.Valence.Valence(); ok && v == model.ValenceNegative {
			neg++
		}
	}
	return float64(neg) / float64(len(fixed))
}

// BreathKeyHz folds the breathing rate into the octave nearest AnchorHz.
func BreathKeyHz(bpm float64) float64 {
	if !finite(bpm) || bpm <= 0 {
		return AnchorHz
	}
	base := bpm / 60
	k := roundHalfUp(math.Log2(AnchorHz / base))
	return clamp(base*math.Pow(2, k), minKeyHz, maxKeyHz)
}

// SemitoneDistance is the octave-folded distance in semitones, in [0,6].
func SemitoneDistance(f, key float64) float64 {
	if f <= 0 || key <= 0 {
		return 6
	}
	s := 12 * math.Log2(f/key)
	folded := math.Mod(s+6, 12)
	if folded < 0 {
		folded += 12
	}
	return math.Abs(folded - 6)
}

// BreathAlignment scores how close the liked frequencies sit to the breath
// key. Without breath data it is neutral.
func BreathAlignment(fixed []model.FixedFreqItem, breath *model.BreathData) float64 {
	if !hasBreath(breath) || len(fixed) == 0 {
		return neutralSub
	}
	key := BreathKeyHz(breath.BPM)

	var sum, weightSum float64
	for _, item := range fixed {
		closeness := 1 - SemitoneDistance(item.F, key)/6
		w := clamp(item.Like/100, 0, 1)
		sum += w * closeness
		weightSum += w
	}
	if weightSum == 0 {
		return neutralSub
	}
	alignment := sum / weightSum

	ei := exhaleInhale(*breath)
	switch {
	case ei > 1.1:
		alignment += 0.05
	case ei < 0.9:
		alignment -= 0.05
	}
	return clamp(alignment*100, 0, 100)
}
