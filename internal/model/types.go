// Package model defines shared data structures.
package model

import "time"

// QuizConfig defines capture settings for the quiz UI.
type QuizConfig struct {
	Seed             int64
	ShuffleTone      bool
	ChronoTrials     int
	NaturalCycles    int
	DeepBreaths      int
	StabilitySeconds int
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Aura        AuraType
}

// BreathCycle is one natural breath cycle in milliseconds.
type BreathCycle struct {
	InhaleMs float64 `json:"inhaleMs" yaml:"inhaleMs" toml:"inhaleMs"`
	ExhaleMs float64 `json:"exhaleMs" yaml:"exhaleMs" toml:"exhaleMs"`
	TotalMs  float64 `json:"totalMs" yaml:"totalMs" toml:"totalMs"`
}

// BreathData summarizes a breath session.
type BreathData struct {
	InhaleAvg     float64  `json:"inhaleAvg" yaml:"inhaleAvg" toml:"inhaleAvg" validate:"gte=0"`
	ExhaleAvg     float64  `json:"exhaleAvg" yaml:"exhaleAvg" toml:"exhaleAvg" validate:"gte=0"`
	Ratio         float64  `json:"ratio" yaml:"ratio" toml:"ratio" validate:"gte=0"`
	CV            float64  `json:"cv" yaml:"cv" toml:"cv" validate:"gte=0"`
	BPM           float64  `json:"bpm" yaml:"bpm" toml:"bpm" validate:"gte=0"`
	Score         float64  `json:"score" yaml:"score" toml:"score" validate:"gte=0,lte=100"`
	DeepInhaleAvg *float64 `json:"deepInhaleAvg,omitempty" yaml:"deepInhaleAvg,omitempty" toml:"deepInhaleAvg,omitempty" validate:"omitempty,gt=0"`
	DeepExhaleAvg *float64 `json:"deepExhaleAvg,omitempty" yaml:"deepExhaleAvg,omitempty" toml:"deepExhaleAvg,omitempty" validate:"omitempty,gt=0"`
}

// ChronoData summarizes the "estimate 10 seconds" trials.
type ChronoData struct {
	Trials []float64 `json:"trials" yaml:"trials" toml:"trials" validate:"max=10,dive,gte=0"`
	MAPE   float64   `json:"mape" yaml:"mape" toml:"mape" validate:"gte=0"`
	Bias   float64   `json:"bias" yaml:"bias" toml:"bias"`
	Score  float64   `json:"score" yaml:"score" toml:"score" validate:"gte=0,lte=100"`
}

// StabilitySample is one pointer position next to the moving target.
type StabilitySample struct {
	X           float64
	Y           float64
	TargetX     float64
	TargetY     float64
	TimestampMs int64
}

// StabilityData summarizes a tracking session.
type StabilityData struct {
	RMS   float64 `json:"rms" yaml:"rms" toml:"rms" validate:"gte=0"`
	Score float64 `json:"score" yaml:"score" toml:"score" validate:"gte=0,lte=100"`
}

// ToneSide is the outcome of one forced-choice pair.
type ToneSide string

// Tone choice outcomes.
const (
	ToneLeft    ToneSide = "left"
	ToneRight   ToneSide = "right"
	ToneTimeout ToneSide = "timeout"
)

// ToneChoice is one answered (or timed out) tone pair.
type ToneChoice struct {
	PairID         int
	Choice         ToneSide
	ReactionTimeMs float64
	Vector         [3]float64
}

// ToneData summarizes the tone preference test.
type ToneData struct {
	Vec      [3]float64 `json:"vec" yaml:"vec" toml:"vec"`
	Strength float64    `json:"strength" yaml:"strength" toml:"strength" validate:"gte=0,lte=100"`
	RTAvg    float64    `json:"rtAvg" yaml:"rtAvg" toml:"rtAvg" validate:"gte=0"`
}

// FixedFreqItem is the rating for one fixed test frequency.
type FixedFreqItem struct {
	F       float64         `json:"f" yaml:"f" toml:"f" validate:"gt=0,lte=24000"`
	Valence FeelType        `json:"valence" yaml:"valence" toml:"valence" validate:"feel"`
	Like    float64         `json:"like" yaml:"like" toml:"like" validate:"gte=1,lte=100"`
	Locus   []BodyLocusType `json:"locus" yaml:"locus" toml:"locus" validate:"dive,locus"`
}

// QuickFeel is a first-impression rating.
type QuickFeel struct {
	F    float64         `json:"f" yaml:"f" toml:"f" validate:"gt=0,lte=24000"`
	Feel FeelType        `json:"feel" yaml:"feel" toml:"feel" validate:"feel"`
	Body []BodyLocusType `json:"body" yaml:"body" toml:"body" validate:"dive,locus"`
}

// FreePick is the frequency chosen on the continuous slider.
type FreePick struct {
	F    float64         `json:"f" yaml:"f" toml:"f" validate:"gt=0,lte=24000"`
	Feel FeelType        `json:"feel,omitempty" yaml:"feel,omitempty" toml:"feel,omitempty" validate:"omitempty,feel"`
	Body []BodyLocusType `json:"body,omitempty" yaml:"body,omitempty" toml:"body,omitempty" validate:"dive,locus"`
}

// Session is everything captured during one quiz run. Every part is optional.
type Session struct {
	ID        string          `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	CreatedAt time.Time       `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	Prefeel   []QuickFeel     `json:"prefeel,omitempty" yaml:"prefeel,omitempty" toml:"prefeel,omitempty" validate:"max=3,dive"`
	Fixed     []FixedFreqItem `json:"fixed,omitempty" yaml:"fixed,omitempty" toml:"fixed,omitempty" validate:"max=8,dive"`
	FreePick  *FreePick       `json:"freepick,omitempty" yaml:"freepick,omitempty" toml:"freepick,omitempty" validate:"omitempty"`
	Chrono    *ChronoData     `json:"chrono,omitempty" yaml:"chrono,omitempty" toml:"chrono,omitempty" validate:"omitempty"`
	Stability *StabilityData  `json:"stability,omitempty" yaml:"stability,omitempty" toml:"stability,omitempty" validate:"omitempty"`
	Tone      *ToneData       `json:"tone,omitempty" yaml:"tone,omitempty" toml:"tone,omitempty" validate:"omitempty"`
	Breath    *BreathData     `json:"breath,omitempty" yaml:"breath,omitempty" toml:"breath,omitempty" validate:"omitempty"`
}

// Scores holds the derived sub-scores and composite index.
type Scores struct {
	FFreq      int `json:"F_freq" yaml:"F_freq" toml:"F_freq"`
	Chrono     int `json:"Chrono" yaml:"Chrono" toml:"Chrono"`
	Stability  int `json:"Stability" yaml:"Stability" toml:"Stability"`
	Tone       int `json:"Tone" yaml:"Tone" toml:"Tone"`
	Breath     int `json:"Breath" yaml:"Breath" toml:"Breath"`
	FQI        int `json:"FQI" yaml:"FQI" toml:"FQI"`
	Percentile int `json:"percentile" yaml:"percentile" toml:"percentile"`
}

// AuraInfo is the archetype assignment.
type AuraInfo struct {
	Type      AuraType `json:"type" yaml:"type" toml:"type"`
	Secondary AuraType `json:"secondary,omitempty" yaml:"secondary,omitempty" toml:"secondary,omitempty"`
}

// Result is the scoring output for a session.
type Result struct {
	Scores Scores   `json:"scores" yaml:"scores" toml:"scores"`
	Aura   AuraInfo `json:"aura" yaml:"aura" toml:"aura"`
}

// ResultRecord is a stored, scored session.
type ResultRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Result    Result    `json:"result"`
	Session   Session   `json:"session"`
}

// ResultSummary is a stored result without its session payload.
type ResultSummary struct {
	ID        string
	CreatedAt time.Time
	Scores    Scores
	Aura      AuraInfo
}

// LabelKind distinguishes aggregated rating labels.
type LabelKind string

// Label kinds.
const (
	LabelFeel  LabelKind = "feel"
	LabelLocus LabelKind = "locus"
)

// LabelAggregate accumulates how often a label was chosen for fixed
// frequencies and how much those frequencies were liked.
type LabelAggregate struct {
	Kind    LabelKind
	Label   string
	Count   int
	LikeSum float64
}

// AuraCount is the number of results assigned to one archetype.
type AuraCount struct {
	Aura  AuraType
	Count int
}
