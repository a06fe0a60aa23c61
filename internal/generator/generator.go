// Package generator builds the stimulus plan for a quiz run.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/freqprofile/internal/model"
)

// FixedFrequencies are the rated test tones, in presentation order.
var FixedFrequencies = []float64{40, 110, 220, 432, 528, 1000, 4000, 8000}

// PrefeelFrequencies are the short tones heard before the rated set.
var PrefeelFrequencies = []float64{528, 220, 40}

// ToneOption is one side of a forced-choice pair.
type ToneOption struct {
	Label  string
	Vector [3]float64
}

// TonePair is a pair of opposing tone descriptions.
type TonePair struct {
	ID    int
	Left  ToneOption
	Right ToneOption
}

// Option returns the option shown on the given side.
func (p TonePair) Option(side model.ToneSide) (ToneOption, bool) {
	switch side {
	case model.ToneLeft:
		return p.Left, true
	case model.ToneRight:
		return p.Right, true
	default:
		return ToneOption{}, false
	}
}

// Swapped returns the pair with its sides exchanged.
func (p TonePair) Swapped() TonePair {
	p.Left, p.Right = p.Right, p.Left
	return p
}

// TonePairs is the canonical pair table.
var TonePairs = []TonePair{
	{ID: 1, Left: ToneOption{"Sıcak", [3]float64{1, 0, 0}}, Right: ToneOption{"Soğuk", [3]float64{-1, 0, 0}}},
	{ID: 2, Left: ToneOption{"Keskin", [3]float64{0, 0, 1}}, Right: ToneOption{"Akışkan", [3]float64{0, 0, -1}}},
	{ID: 3, Left: ToneOption{"Canlı", [3]float64{1, 1, 0}}, Right: ToneOption{"Pastel", [3]float64{-1, -1, 0}}},
	{ID: 4, Left: ToneOption{"Koyu", [3]float64{0, -1, 0}}, Right: ToneOption{"Açık", [3]float64{0, 1, 0}}},
	{ID: 5, Left: ToneOption{"Yoğun", [3]float64{1, 1, 1}}, Right: ToneOption{"Hafif", [3]float64{-1, -1, -1}}},
	{ID: 6, Left: ToneOption{"Dinamik", [3]float64{1, 0, 1}}, Right: ToneOption{"Sakin", [3]float64{-1, 0, -1}}},
	{ID: 7, Left: ToneOption{"Kontrast", [3]float64{0, 1, 1}}, Right: ToneOption{"Uyumlu", [3]float64{0, -1, -1}}},
	{ID: 8, Left: ToneOption{"Elektrik", [3]float64{1, 1, 1}}, Right: ToneOption{"Organik", [3]float64{-1, -1, -1}}},
}

// Quiz defaults.
const (
	DefaultChronoTrials     = 3
	DefaultNaturalCycles    = 4
	DefaultDeepBreaths      = 3
	DefaultStabilitySeconds = 30
	// TargetMoveInterval is how often the stability target jumps.
	TargetMoveInterval = 2 * time.Second
	// TargetRadius is the jump distance from the center, in pixels.
	TargetRadius = 60.0
)

// Plan is the ordered set of stimuli for one run.
type Plan struct {
	Fixed         []float64
	Prefeel       []float64
	Tones         []TonePair
	ChronoTrials  int
	NaturalCycles int
	DeepBreaths   int
	Stability     time.Duration
}

// Generator produces randomized quiz plans.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible plans.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Plan builds the run plan, filling unset counts with defaults.
func (g *Generator) Plan(cfg model.QuizConfig) Plan {
	return Plan{
		Fixed:         append([]float64(nil), FixedFrequencies...),
		Prefeel:       append([]float64(nil), PrefeelFrequencies...),
		Tones:         g.TonePlan(cfg.ShuffleTone),
		ChronoTrials:  positiveOr(min(cfg.ChronoTrials, 10), DefaultChronoTrials),
		NaturalCycles: positiveOr(cfg.NaturalCycles, DefaultNaturalCycles),
		DeepBreaths:   positiveOr(cfg.DeepBreaths, DefaultDeepBreaths),
		Stability:     time.Duration(positiveOr(cfg.StabilitySeconds, DefaultStabilitySeconds)) * time.Second,
	}
}

// TonePlan returns the tone pairs, shuffled and with randomly swapped sides
// when shuffle is set.
func (g *Generator) TonePlan(shuffle bool) []TonePair {
	pairs := append([]TonePair(nil), TonePairs...)
	if !shuffle {
		return pairs
	}
	g.rnd.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	for i := range pairs {
		if g.rnd.Float64() < 0.5 {
			pairs[i] = pairs[i].Swapped()
		}
	}
	return pairs
}

// TargetOffset picks the next stability target position relative to the
// center.
func (g *Generator) TargetOffset() (dx, dy float64) {
	angle := g.rnd.Float64() * 2 * math.Pi
	return math.Cos(angle) * TargetRadius, math.Sin(angle) * TargetRadius
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
