package scoring

import "math"

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// roundHalfUp rounds halves toward +Inf so that 84.5 becomes 85 and -0.5 becomes 0.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return roundHalfUp(v*p) / p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// ratioCloseness scores how close ratio is to target on a log scale; an
// octave away scores zero.
func ratioCloseness(ratio, target float64) float64 {
	if ratio <= 0 || !finite(ratio) {
		return 0
	}
	diff := math.Abs(math.Log(ratio / target))
	return clamp(100-diff/math.Ln2*100, 0, 100)
}

// subScore sanitizes a stored sub-score into [0,100].
func subScore(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return clamp(v, 0, 100)
}

type weighted struct {
	score  float64
	weight float64
}

// blend averages the present terms, renormalizing their weights.
func blend(parts []weighted) float64 {
	var total, sum float64
	for _, p := range parts {
		total += p.weight
		sum += p.score * p.weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
