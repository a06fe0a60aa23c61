package model

import "strings"

// FeelType is a self-reported feeling label.
type FeelType string

// Feeling labels, grouped by valence category.
const (
	FeelBliss     FeelType = "bliss"
	FeelJoy       FeelType = "joy"
	FeelPeace     FeelType = "peace"
	FeelLove      FeelType = "love"
	FeelEnergy    FeelType = "energy"
	FeelClarity   FeelType = "clarity"
	FeelWarmth    FeelType = "warmth"
	FeelExpansion FeelType = "expansion"

	FeelNeutral  FeelType = "neutral"
	FeelCurious  FeelType = "curious"
	FeelFocused  FeelType = "focused"
	FeelGrounded FeelType = "grounded"

	FeelTension   FeelType = "tension"
	FeelAnxiety   FeelType = "anxiety"
	FeelSadness   FeelType = "sadness"
	FeelAnger     FeelType = "anger"
	FeelConfusion FeelType = "confusion"
	FeelHeaviness FeelType = "heaviness"
	FeelRestless  FeelType = "restless"
	FeelEmpty     FeelType = "empty"
)

// FeelTypes lists every feeling label in declaration order.
var FeelTypes = []FeelType{
	FeelBliss, FeelJoy, FeelPeace, FeelLove, FeelEnergy, FeelClarity, FeelWarmth, FeelExpansion,
	FeelNeutral, FeelCurious, FeelFocused, FeelGrounded,
	FeelTension, FeelAnxiety, FeelSadness, FeelAnger, FeelConfusion, FeelHeaviness, FeelRestless, FeelEmpty,
}

// Valence is the polarity category of a feeling label.
type Valence int

// Valence categories in tie-break order.
const (
	ValencePositive Valence = iota
	ValenceNeutral
	ValenceNegative
)

// Valences lists the categories in tie-break order.
var Valences = []Valence{ValencePositive, ValenceNeutral, ValenceNegative}

func (v Valence) String() string {
	switch v {
	case ValencePositive:
		return "positive"
	case ValenceNeutral:
		return "neutral"
	case ValenceNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// Valence maps a feeling label to its category. Unknown labels report false.
func (f FeelType) Valence() (Valence, bool) {
	switch f {
	case FeelBliss, FeelJoy, FeelPeace, FeelLove, FeelEnergy, FeelClarity, FeelWarmth, FeelExpansion:
		return ValencePositive, true
	case FeelNeutral, FeelCurious, FeelFocused, FeelGrounded:
		return ValenceNeutral, true
	case FeelTension, FeelAnxiety, FeelSadness, FeelAnger, FeelConfusion, FeelHeaviness, FeelRestless, FeelEmpty:
		return ValenceNegative, true
	default:
		return 0, false
	}
}

// Valid reports whether f is a known label.
func (f FeelType) Valid() bool {
	_, ok := f.Valence()
	return ok
}

// BodyLocusType is a self-reported body location.
type BodyLocusType string

// Body locations, grouped by region.
const (
	LocusCrown    BodyLocusType = "crown"
	LocusForehead BodyLocusType = "forehead"
	LocusEyes     BodyLocusType = "eyes"
	LocusEars     BodyLocusType = "ears"
	LocusThroat   BodyLocusType = "throat"

	LocusHeart       BodyLocusType = "heart"
	LocusChest       BodyLocusType = "chest"
	LocusSolarPlexus BodyLocusType = "solar_plexus"
	LocusArms        BodyLocusType = "arms"
	LocusHands       BodyLocusType = "hands"

	LocusBelly  BodyLocusType = "belly"
	LocusSacral BodyLocusType = "sacral"
	LocusLegs   BodyLocusType = "legs"
	LocusFeet   BodyLocusType = "feet"
	LocusSpine  BodyLocusType = "spine"

	LocusFullBody    BodyLocusType = "full_body"
	LocusAuraField   BodyLocusType = "aura_field"
	LocusNoSensation BodyLocusType = "no_sensation"
)

// BodyLocusTypes lists every body location in declaration order.
var BodyLocusTypes = []BodyLocusType{
	LocusCrown, LocusForehead, LocusEyes, LocusEars, LocusThroat,
	LocusHeart, LocusChest, LocusSolarPlexus, LocusArms, LocusHands,
	LocusBelly, LocusSacral, LocusLegs, LocusFeet, LocusSpine,
	LocusFullBody, LocusAuraField, LocusNoSensation,
}

// BodyRegion groups body locations.
type BodyRegion int

// Body regions in tie-break order.
const (
	RegionUpper BodyRegion = iota
	RegionMiddle
	RegionLower
	RegionGeneral
)

// BodyRegions lists the regions in tie-break order.
var BodyRegions = []BodyRegion{RegionUpper, RegionMiddle, RegionLower, RegionGeneral}

func (r BodyRegion) String() string {
	switch r {
	case RegionUpper:
		return "upper"
	case RegionMiddle:
		return "middle"
	case RegionLower:
		return "lower"
	case RegionGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// Region maps a body location to its region. Unknown locations report false.
func (l BodyLocusType) Region() (BodyRegion, bool) {
	switch l {
	case LocusCrown, LocusForehead, LocusEyes, LocusEars, LocusThroat:
		return RegionUpper, true
	case LocusHeart, LocusChest, LocusSolarPlexus, LocusArms, LocusHands:
		return RegionMiddle, true
	case LocusBelly, LocusSacral, LocusLegs, LocusFeet, LocusSpine:
		return RegionLower, true
	case LocusFullBody, LocusAuraField, LocusNoSensation:
		return RegionGeneral, true
	default:
		return 0, false
	}
}

// Valid reports whether l is a known location.
func (l BodyLocusType) Valid() bool {
	_, ok := l.Region()
	return ok
}

// AuraType is one of the six archetypes.
type AuraType string

// Archetypes in enumeration order.
const (
	AuraSolar  AuraType = "Solar"
	AuraLunar  AuraType = "Lunar"
	AuraAether AuraType = "Aether"
	AuraTerra  AuraType = "Terra"
	AuraQuasar AuraType = "Quasar"
	AuraZephyr AuraType = "Zephyr"
)

// AuraTypes lists the archetypes in enumeration order.
var AuraTypes = []AuraType{AuraSolar, AuraLunar, AuraAether, AuraTerra, AuraQuasar, AuraZephyr}

// ParseAuraType resolves an archetype name case-insensitively.
func ParseAuraType(s string) (AuraType, bool) {
	for _, a := range AuraTypes {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, true
		}
	}
	return "", false
}
