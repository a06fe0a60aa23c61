package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/freqprofile/internal/model"
)

func TestScoreChrono(t *testing.T) {
	perfect := ScoreChrono([]float64{10, 10, 10})
	assert.Equal(t, 100.0, perfect.Score)
	assert.Zero(t, perfect.MAPE)
	assert.Zero(t, perfect.Bias)

	mixed := ScoreChrono([]float64{11, 9, 10.5})
	assert.InDelta(t, 8.3333, mixed.MAPE, 1e-3)
	assert.InDelta(t, 0.1667, mixed.Bias, 1e-3)
	assert.Equal(t, 71.0, mixed.Score)
	assert.Equal(t, []float64{11, 9, 10.5}, mixed.Trials)

	way := ScoreChrono([]float64{25, 30, 2})
	assert.Equal(t, 0.0, way.Score)

	empty := ScoreChrono(nil)
	assert.Zero(t, empty.Score)
}

func TestChronoBiasDescription(t *testing.T) {
	assert.Equal(t, "Mükemmel zamanlama", ChronoBiasDescription(0.2))
	assert.Equal(t, "Yavaş zaman algısı", ChronoBiasDescription(1.5))
	assert.Equal(t, "Hızlı zaman algısı", ChronoBiasDescription(-0.5))
}

func stabilitySamples(n int, dx, dy float64) []model.StabilitySample {
	samples := make([]model.StabilitySample, n)
	for i := range samples {
		tx := 200 + float64(i)
		ty := 150 - float64(i)
		samples[i] = model.StabilitySample{X: tx + dx, Y: ty + dy, TargetX: tx, TargetY: ty, TimestampMs: int64(i * 16)}
	}
	return samples
}

func TestScoreStabilityRequiresSamples(t *testing.T) {
	_, err := ScoreStability(stabilitySamples(MinStabilitySamples-1, 0, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))
}

func TestScoreStabilityTracksMovingTarget(t *testing.T) {
	data, err := ScoreStability(stabilitySamples(12, 3, 4))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, data.RMS, 1e-9)
	assert.Equal(t, 94.0, data.Score)

	far, err := ScoreStability(stabilitySamples(12, 80, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, far.Score)
}

func TestStabilityScoreMonotonic(t *testing.T) {
	prev := StabilityScoreForRMS(200)
	for rms := 199.0; rms >= 0; rms -= 0.5 {
		score := StabilityScoreForRMS(rms)
		assert.GreaterOrEqual(t, score, prev, "rms=%v", rms)
		prev = score
	}
	assert.Equal(t, 100.0, StabilityScoreForRMS(0))
}

func toneChoices(n int, side model.ToneSide, vec [3]float64, rt float64) []model.ToneChoice {
	out := make([]model.ToneChoice, n)
	for i := range out {
		out[i] = model.ToneChoice{PairID: i + 1, Choice: side, ReactionTimeMs: rt, Vector: vec}
	}
	return out
}

func TestScoreToneAllTimeout(t *testing.T) {
	data := ScoreTone(toneChoices(8, model.ToneTimeout, [3]float64{}, ToneTimeLimitMs))
	assert.Equal(t, [3]float64{0, 0, 0}, data.Vec)
	assert.Zero(t, data.Strength)
	assert.Equal(t, ToneTimeLimitMs, data.RTAvg)
}

func TestScoreToneStrength(t *testing.T) {
	fast := ScoreTone(toneChoices(8, model.ToneLeft, [3]float64{1, 1, 1}, 150))
	assert.Equal(t, 100.0, fast.Strength)
	assert.Equal(t, [3]float64{1, 1, 1}, fast.Vec)

	opposed := append(
		toneChoices(4, model.ToneLeft, [3]float64{1, 0, 0}, ToneTimeLimitMs),
		toneChoices(4, model.ToneRight, [3]float64{-1, 0, 0}, ToneTimeLimitMs)...,
	)
	flat := ScoreTone(opposed)
	assert.Equal(t, 50.0, flat.Strength)
	assert.Equal(t, ToneTimeLimitMs, flat.RTAvg)
}

func TestScoreToneIgnoresTimeouts(t *testing.T) {
	choices := append(
		toneChoices(2, model.ToneLeft, [3]float64{1, 0, 1}, 400),
		toneChoices(6, model.ToneTimeout, [3]float64{}, ToneTimeLimitMs)...,
	)
	data := ScoreTone(choices)
	assert.Equal(t, [3]float64{1, 0, 1}, data.Vec)
	assert.Equal(t, 400.0, data.RTAvg)
}

func TestToneSpeedScore(t *testing.T) {
	assert.Equal(t, 100.0, ToneSpeedScore(100))
	assert.Equal(t, 100.0, ToneSpeedScore(ToneFastRTMs))
	assert.Equal(t, 0.0, ToneSpeedScore(ToneTimeLimitMs))
	assert.Equal(t, 0.0, ToneSpeedScore(9000))
	mid := math.Sqrt(ToneFastRTMs * ToneTimeLimitMs)
	assert.InDelta(t, 50.0, ToneSpeedScore(mid), 0.1)
}

func TestToneTraits(t *testing.T) {
	assert.Equal(t, []string{"Dengeli"}, ToneTraits([3]float64{0.1, -0.2, 0}))
	assert.Equal(t, []string{"Enerjik", "Sade", "Yumuşak"}, ToneTraits([3]float64{0.5, -0.5, -1}))
}

func TestScoreBreathSingleCycle(t *testing.T) {
	data := ScoreBreath([]model.BreathCycle{{InhaleMs: 4000, ExhaleMs: 5000, TotalMs: 9000}}, nil, nil)

	comps := breathComponents(4000, 5000, 0, 60000.0/9000, nil, nil)
	assert.Equal(t, 100.0, comps.Coherence)
	assert.InDelta(t, 61.11, comps.Resonance, 0.01)
	expectedRatio := 100 - math.Abs(math.Log(1.25/1.2))/math.Ln2*100
	assert.InDelta(t, expectedRatio, comps.NaturalRatio, 1e-9)
	assert.Nil(t, comps.DepthMagnitude)
	assert.Nil(t, comps.DeepRatioBalance)

	hand := (0.35*100 + 0.25*comps.Resonance + 0.15*expectedRatio) / 0.75
	assert.Equal(t, math.Floor(hand+0.5), data.Score)
	assert.Equal(t, 86.0, data.Score)
	assert.Equal(t, 0.8, data.Ratio)
	assert.Equal(t, 6.7, data.BPM)
	assert.Zero(t, data.CV)
	assert.Nil(t, data.DeepInhaleAvg)
}

func TestScoreBreathWithDeepBreaths(t *testing.T) {
	in, ex := 5000.0, 6000.0
	data := ScoreBreath([]model.BreathCycle{{InhaleMs: 4000, ExhaleMs: 5000, TotalMs: 9000}}, &in, &ex)
	assert.Equal(t, 83.0, data.Score)
	require.NotNil(t, data.DeepInhaleAvg)
	require.NotNil(t, data.DeepExhaleAvg)
	assert.Equal(t, 5000.0, *data.DeepInhaleAvg)
	assert.Equal(t, 6000.0, *data.DeepExhaleAvg)

	// One deep average alone is ignored.
	single := ScoreBreath([]model.BreathCycle{{InhaleMs: 4000, ExhaleMs: 5000, TotalMs: 9000}}, &in, nil)
	assert.Equal(t, 86.0, single.Score)
	assert.Nil(t, single.DeepInhaleAvg)
}

func TestScoreBreathNoCycles(t *testing.T) {
	data := ScoreBreath(nil, nil, nil)
	assert.Equal(t, model.BreathData{Ratio: 1, CV: 1}, data)
}

func TestBreathFromCaptureDiscardsShortPhases(t *testing.T) {
	cycles := []model.BreathCycle{
		{InhaleMs: 150, ExhaleMs: 3000},
		{InhaleMs: 4000, ExhaleMs: 5000},
	}
	data := BreathFromCapture(cycles, []float64{120, 5000}, []float64{6000})
	assert.Equal(t, 4000.0, data.InhaleAvg)
	assert.Equal(t, 5000.0, data.ExhaleAvg)
	assert.Equal(t, 6.7, data.BPM)
	require.NotNil(t, data.DeepInhaleAvg)
	assert.Equal(t, 5000.0, *data.DeepInhaleAvg)
	assert.Equal(t, 83.0, data.Score)
}

func TestCoherenceScoreMonotonicInCV(t *testing.T) {
	prev := CoherenceScore(1)
	for cv := 0.99; cv >= 0; cv -= 0.01 {
		score := CoherenceScore(cv)
		assert.GreaterOrEqual(t, score, prev, "cv=%v", cv)
		prev = score
	}
	assert.Equal(t, 100.0, CoherenceScore(0))
}

func TestBreathBreakdownMatchesStoredScore(t *testing.T) {
	cycles := []model.BreathCycle{
		{InhaleMs: 4200, ExhaleMs: 5100, TotalMs: 9300},
		{InhaleMs: 3900, ExhaleMs: 5600, TotalMs: 9500},
		{InhaleMs: 4100, ExhaleMs: 5300, TotalMs: 9400},
	}
	data := ScoreBreath(cycles, nil, nil)
	assert.InDelta(t, data.Score, BreathBreakdown(data).Score(), 1)
}

func TestFreePickFrequency(t *testing.T) {
	assert.Equal(t, 40.0, FreePickFrequency(0))
	assert.Equal(t, 8000.0, FreePickFrequency(1))
	assert.Equal(t, 566.0, FreePickFrequency(0.5))
	assert.Equal(t, 40.0, FreePickFrequency(-3))
}
