package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/freqprofile/internal/model"
)

const (
	// MinStabilitySamples is the fewest samples a tracking session needs.
	MinStabilitySamples = 10
	// TargetRadiusPx is the nominal radius of the target circle.
	TargetRadiusPx = 80.0
)

// ErrInsufficientSamples reports a capture too short to score.
var ErrInsufficientSamples = errors.New("insufficient samples")

// ScoreStability scores pointer tracking against the moving target position
// recorded with each sample.
func ScoreStability(samples []model.StabilitySample) (model.StabilityData, error) {
	if len(samples) < MinStabilitySamples {
		return model.StabilityData{}, fmt.Errorf("%w: got %d stability samples, need %d", ErrInsufficientSamples, len(samples), MinStabilitySamples)
	}
	var sumSq float64
	for _, s := range samples {
		dx := s.X - s.TargetX
		dy := s.Y - s.TargetY
		sumSq += dx*dx + dy*dy
	}
	rms := math.Sqrt(sumSq / float64(len(samples)))
	return model.StabilityData{
		RMS:   rms,
		Score: StabilityScoreForRMS(rms),
	}, nil
}

// StabilityScoreForRMS maps an RMS distance in pixels to a 0-100 score.
func StabilityScoreForRMS(rms float64) float64 {
	if !finite(rms) {
		return 0
	}
	return roundHalfUp(clamp(100-rms/TargetRadiusPx*100, 0, 100))
}
