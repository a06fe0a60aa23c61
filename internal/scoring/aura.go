package scoring

import (
	"math"

	"github.com/verte-zerg/freqprofile/internal/model"
)

type centroid struct {
	aura    model.AuraType
	tone    [3]float64
	region  model.BodyRegion
	valence model.Valence
}

// centroids are listed in enumeration order; earlier entries win ties.
var centroids = []centroid{
	{aura: model.AuraSolar, tone: [3]float64{1, 1, 1}, region: model.RegionMiddle, valence: model.ValencePositive},
	{aura: model.AuraLunar, tone: [3]float64{-1, -1, -1}, region: model.RegionUpper, valence: model.ValencePositive},
	{aura: model.AuraAether, tone: [3]float64{0, 1, -1}, region: model.RegionUpper, valence: model.ValenceNeutral},
	{aura: model.AuraTerra, tone: [3]float64{0, 0, 0}, region: model.RegionLower, valence: model.ValencePositive},
	{aura: model.AuraQuasar, tone: [3]float64{1, 1, 1}, region: model.RegionUpper, valence: model.ValencePositive},
	{aura: model.AuraZephyr, tone: [3]float64{-1, 0, -1}, region: model.RegionGeneral, valence: model.ValenceNeutral},
}

const (
	regionBonus      = 0.5
	valenceBonus     = 0.3
	maxResonanceBias = 0.2
	ratioBias        = 0.15
)

// AuraScore is the similarity of a profile to one archetype.
type AuraScore struct {
	Aura  model.AuraType
	Score float64
}

// DominantRegion counts locus selections per region. The first region in
// model.BodyRegions wins ties.
func DominantRegion(fixed []model.FixedFreqItem) model.BodyRegion {
	counts := make(map[model.BodyRegion]int, len(model.BodyRegions))
	for _, item := range fixed {
		for _, locus := range item.Locus {
			if r, ok := locus.Region(); ok {
				counts[r]++
			}
		}
	}
	best := model.BodyRegions[0]
	for _, r := range model.BodyRegions[1:] {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}

// DominantValence counts fixed labels per category. The first category in
// model.Valences wins ties.
func DominantValence(fixed []model.FixedFreqItem) model.Valence {
	counts := make(map[model.Valence]int, len(model.Valences))
	for _, item := range fixed {
		if v, ok := item.Valence.Valence(); ok {
			counts[v]++
		}
	}
	best := model.Valences[0]
	for _, v := range model.Valences[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

// CosineSimilarity is zero when either vector has no magnitude.
func CosineSimilarity(a, b [3]float64) float64 {
	na, nb := vectorNorm(a), vectorNorm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
	return dot / (na * nb)
}

// AuraScores scores every archetype in enumeration order. It returns nil
// when tone or fixed data is missing.
func AuraScores(tone *model.ToneData, fixed []model.FixedFreqItem, breath *model.BreathData) []AuraScore {
	if tone == nil || len(fixed) == 0 {
		return nil
	}
	region := DominantRegion(fixed)
	valence := DominantValence(fixed)

	scores := make([]AuraScore, 0, len(centroids))
	for _, c := range centroids {
		total := CosineSimilarity(tone.Vec, c.tone)
		if region == c.region {
			total += regionBonus
		}
		if valence == c.valence {
			total += valenceBonus
		}
		if hasBreath(breath) {
			total += breathBias(c.aura, *breath)
		}
		scores = append(scores, AuraScore{Aura: c.aura, Score: total})
	}
	return scores
}

func breathBias(aura model.AuraType, b model.BreathData) float64 {
	var bias float64
	switch aura {
	case model.AuraLunar, model.AuraZephyr:
		bias += math.Max(0, maxResonanceBias-math.Abs(b.BPM-ResonanceBPM)/6)
	case model.AuraSolar, model.AuraQuasar:
		bias += math.Max(0, (b.BPM-6)/30)
	}
	ei := exhaleInhale(b)
	switch {
	case ei > 1.1 && (aura == model.AuraTerra || aura == model.AuraLunar):
		bias += ratioBias
	case ei < 0.9 && (aura == model.AuraSolar || aura == model.AuraQuasar):
		bias += ratioBias
	}
	return bias
}

// ClassifyAura assigns the highest-scoring archetype, with the runner-up as
// secondary. Aether is the default when data is missing.
func ClassifyAura(tone *model.ToneData, fixed []model.FixedFreqItem, breath *model.BreathData) model.AuraInfo {
	scores := AuraScores(tone, fixed, breath)
	if len(scores) == 0 {
		return model.AuraInfo{Type: model.AuraAether}
	}
	best, second := 0, -1
	for i := 1; i < len(scores); i++ {
		switch {
		case scores[i].Score > scores[best].Score:
			second = best
			best = i
		case second < 0 || scores[i].Score > scores[second].Score:
			second = i
		}
	}
	info := model.AuraInfo{Type: scores[best].Aura}
	if second >= 0 {
		info.Secondary = scores[second].Aura
	}
	return info
}
