package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/freqprofile/internal/model"
)

var canonicalHz = []float64{40, 110, 220, 432, 528, 1000, 4000, 8000}

func fixedWithLikes(likes ...float64) []model.FixedFreqItem {
	items := make([]model.FixedFreqItem, len(likes))
	for i, like := range likes {
		items[i] = model.FixedFreqItem{
			F:       canonicalHz[i%len(canonicalHz)],
			Valence: model.FeelNeutral,
			Like:    like,
			Locus:   []model.BodyLocusType{model.LocusHeart},
		}
	}
	return items
}

func TestSelectivityExtremes(t *testing.T) {
	assert.Equal(t, 0.0, Selectivity(fixedWithLikes(50, 50, 50, 50, 50, 50, 50, 50)))
	assert.Equal(t, 100.0, Selectivity(fixedWithLikes(1, 100, 1, 100, 1, 100, 1, 100)))
	assert.InDelta(t, 80.0, Selectivity(fixedWithLikes(26, 74, 26, 74, 26, 74, 26, 74)), 1e-9)
	assert.Equal(t, 0.0, Selectivity(fixedWithLikes(1, 100)))
}

func TestPrefeelCoherence(t *testing.T) {
	fixed := fixedWithLikes(60, 60, 60, 60)

	assert.Equal(t, 50.0, PrefeelCoherence(nil, fixed))
	assert.Equal(t, 50.0, PrefeelCoherence([]model.QuickFeel{{F: 999, Feel: model.FeelNeutral}}, fixed))

	half := []model.QuickFeel{
		{F: 40, Feel: model.FeelNeutral},
		{F: 110, Feel: model.FeelTension},
	}
	assert.Equal(t, 50.0, PrefeelCoherence(half, fixed))

	full := []model.QuickFeel{
		{F: 220, Feel: model.FeelNeutral},
		{F: 432, Feel: model.FeelNeutral},
	}
	assert.Equal(t, 100.0, PrefeelCoherence(full, fixed))
}

func TestValenceBalanceAndNegativeRatio(t *testing.T) {
	fixed := []model.FixedFreqItem{
		{F: 40, Valence: model.FeelJoy, Like: 50},
		{F: 110, Valence: model.FeelJoy, Like: 50},
		{F: 220, Valence: model.FeelTension, Like: 50},
		{F: 432, Valence: model.FeelNeutral, Like: 50},
	}
	assert.InDelta(t, 1.0/3, ValenceBalance(fixed), 1e-12)
	assert.Equal(t, 0.25, NegativeRatio(fixed))

	neutral := []model.FixedFreqItem{{F: 40, Valence: model.FeelNeutral}}
	assert.Zero(t, ValenceBalance(neutral))
	assert.Zero(t, NegativeRatio(nil))
}

func TestBreathKeyHz(t *testing.T) {
	assert.InDelta(t, 409.6, BreathKeyHz(6), 1e-9)
	assert.Equal(t, AnchorHz, BreathKeyHz(0))
	assert.Equal(t, AnchorHz, BreathKeyHz(-3))
	for bpm := 1.0; bpm <= 40; bpm += 0.5 {
		key := BreathKeyHz(bpm)
		assert.GreaterOrEqual(t, key, AnchorHz/2*0.99, "bpm=%v", bpm)
		assert.LessOrEqual(t, key, AnchorHz*2*1.01, "bpm=%v", bpm)
	}
}

func TestSemitoneDistanceStaysFolded(t *testing.T) {
	key := BreathKeyHz(6)
	assert.InDelta(t, 0, SemitoneDistance(key, key), 1e-9)
	assert.InDelta(t, 0, SemitoneDistance(key*2, key), 1e-9)
	assert.InDelta(t, 0, SemitoneDistance(key/4, key), 1e-9)
	assert.InDelta(t, 6, SemitoneDistance(key*1.4142135623730951, key), 1e-9)

	for bpm := 2.0; bpm <= 20; bpm++ {
		k := BreathKeyHz(bpm)
		for _, f := range canonicalHz {
			d := SemitoneDistance(f, k)
			assert.GreaterOrEqual(t, d, 0.0, "f=%v key=%v", f, k)
			assert.LessOrEqual(t, d, 6.0, "f=%v key=%v", f, k)
		}
	}
}

func TestBreathAlignment(t *testing.T) {
	fixed := fixedWithLikes(80, 80, 80)
	assert.Equal(t, 50.0, BreathAlignment(fixed, nil))
	assert.Equal(t, 50.0, BreathAlignment(fixed, &model.BreathData{Ratio: 1, CV: 1}))
	assert.Equal(t, 50.0, BreathAlignment(nil, &model.BreathData{BPM: 6}))

	key := BreathKeyHz(6)
	onKey := []model.FixedFreqItem{
		{F: key, Valence: model.FeelNeutral, Like: 90},
		{F: key * 2, Valence: model.FeelNeutral, Like: 40},
	}
	even := &model.BreathData{InhaleAvg: 5000, ExhaleAvg: 5000, BPM: 6}
	assert.InDelta(t, 100, BreathAlignment(onKey, even), 1e-9)

	longInhale := &model.BreathData{InhaleAvg: 6000, ExhaleAvg: 4000, BPM: 6}
	assert.InDelta(t, 95, BreathAlignment(onKey, longInhale), 1e-9)
}

func TestFrequencyAffinityWithoutFixed(t *testing.T) {
	fb := FrequencyAffinity(nil, []model.QuickFeel{{F: 528, Feel: model.FeelJoy}}, nil)
	assert.Zero(t, fb.Score)
	assert.Equal(t, 50.0, fb.Coherence)
	assert.Equal(t, 50.0, fb.Valence)
}

func TestFrequencyAffinityWeights(t *testing.T) {
	fixed := fixedWithLikes(1, 100, 1, 100, 1, 100, 1, 100)
	fb := FrequencyAffinity(fixed, nil, nil)
	// Selectivity 100, coherence 50, neutral labels are not polar so valence is
	// 50, no breath gives alignment 50.
	assert.InDelta(t, 0.3*100+0.3*50+0.2*50+0.2*50, fb.Score, 1e-9)
}
