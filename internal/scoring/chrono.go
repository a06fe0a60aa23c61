package scoring

import (
	"math"

	"github.com/verte-zerg/freqprofile/internal/model"
)

// ChronoTargetSeconds is the duration every trial tries to estimate.
const ChronoTargetSeconds = 10.0

// ScoreChrono scores time-estimation trials. Positive bias means the user
// perceives time as passing slowly.
func ScoreChrono(trials []float64) model.ChronoData {
	data := model.ChronoData{Trials: append([]float64(nil), trials...)}
	if len(trials) == 0 {
		return data
	}
	var absErr, signedErr float64
	for _, t := range trials {
		absErr += math.Abs(t - ChronoTargetSeconds)
		signedErr += t - ChronoTargetSeconds
	}
	n := float64(len(trials))
	data.MAPE = absErr / n / ChronoTargetSeconds * 100
	data.Bias = signedErr / n
	data.Score = roundHalfUp(clamp(100-data.MAPE*3.5, 0, 100))
	return data
}
