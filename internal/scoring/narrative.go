package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/freqprofile/internal/model"
)

var auraDescriptions = map[model.AuraType]string{
	model.AuraSolar:  "Güçlü enerji, sıcak hisler, doğal liderlik.",
	model.AuraLunar:  "Sakin derinlik, güçlü sezgiler, akışkan yapı.",
	model.AuraAether: "Yüksek frekans, zihinsel berraklık, geniş bakış.",
	model.AuraTerra:  "Dengeli güç, stabil enerji, doğal denge.",
	model.AuraQuasar: "Yoğun titreşim, yaratıcı enerji, dönüşüm gücü.",
	model.AuraZephyr: "Hafif akış, esnek uyum, özgür ruh.",
}

var auraToneWords = map[model.AuraType]string{
	model.AuraSolar:  "ateşli ve atılgan",
	model.AuraLunar:  "akışkan ve sezgisel",
	model.AuraAether: "zihinsel ve vizyoner",
	model.AuraTerra:  "topraklı ve merkezli",
	model.AuraQuasar: "dönüştürücü ve kuvvetli",
	model.AuraZephyr: "hafif ve özgür",
}

// AuraDescription returns the one-line description of an archetype.
func AuraDescription(t model.AuraType) string {
	return auraDescriptions[t]
}

// BreathTempo labels the breathing rate.
func BreathTempo(bpm float64) string {
	switch {
	case bpm <= 6:
		return "dingin"
	case bpm <= 10:
		return "dengeli"
	default:
		return "yüksek"
	}
}

// BreathBalance labels the exhale:inhale ratio.
func BreathBalance(b model.BreathData) string {
	ei := exhaleInhale(b)
	switch {
	case ei > 1.1:
		return "verişi uzun"
	case ei < 0.9:
		return "alışı uzun"
	default:
		return "alış-verişi dengeli"
	}
}

// BreathConsistency labels the cycle variability.
func BreathConsistency(cv float64) string {
	switch {
	case cv <= 0.12:
		return "tutarlılığı yüksek"
	case cv >= 0.25:
		return "değişken ve yaratıcı"
	default:
		return "esnek"
	}
}

// BuildNarrative combines the archetype with the breath descriptors.
func BuildNarrative(aura model.AuraInfo, breath *model.BreathData) string {
	word := auraToneWords[aura.Type]
	if !hasBreath(breath) {
		return fmt.Sprintf("%s doğası %s bir imza taşır.", aura.Type, word)
	}
	return fmt.Sprintf("%s doğası %s; %s ritim ve %s, %s bir nefesle birleşiyor.",
		aura.Type, word, BreathTempo(breath.BPM), BreathBalance(*breath), BreathConsistency(breath.CV))
}

// ShareLine is the short summary used when sharing a result.
func ShareLine(r model.Result) string {
	return fmt.Sprintf("Benim Frekans Profilim %d çıktı (%s tipi). Seninki ne?", r.Scores.FQI, r.Aura.Type)
}

// FrequencySuggestion is a tone recommended from the breathing pattern.
type FrequencySuggestion struct {
	Frequency int
	Mapped    int
	Mode      string
}

var suggestionCandidates = []int{220, 256, 320, 396, 432, 444, 528, 639}

// SuggestFrequency maps the breath rate near AnchorHz and picks the closest
// candidate, preferring the set that suits the breathing style.
func SuggestFrequency(b model.BreathData) FrequencySuggestion {
	breathHz := math.Max(0.05, b.BPM/60)
	k := roundHalfUp(math.Log2(AnchorHz / breathHz))
	mapped := breathHz * math.Pow(2, k)

	ei := exhaleInhale(b)
	var favored []int
	var mode string
	switch {
	case ei > 1.1:
		favored, mode = []int{396, 432, 256, 220}, "sakinleştirici"
	case ei < 0.9:
		favored, mode = []int{528, 444, 639}, "canlandırıcı"
	default:
		favored, mode = []int{432, 396, 444}, "dengeleyici"
	}
	ordered := append([]int(nil), favored...)
	for _, c := range suggestionCandidates {
		if !containsInt(favored, c) {
			ordered = append(ordered, c)
		}
	}

	best := ordered[0]
	bestDiff := math.Abs(float64(best) - mapped)
	for _, f := range ordered[1:] {
		if d := math.Abs(float64(f) - mapped); d < bestDiff {
			best, bestDiff = f, d
		}
	}
	return FrequencySuggestion{Frequency: best, Mapped: int(roundHalfUp(mapped)), Mode: mode}
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// BreathInsights are descriptive notes derived from breath data. Circadian
// and seasonal notes depend on the clock passed to NewBreathInsights.
type BreathInsights struct {
	Constitution []string
	Energetics   []string
	Insights     []string
	Tips         []string
}

// NewBreathInsights builds the notes for b at the given local time.
func NewBreathInsights(b model.BreathData, now time.Time) BreathInsights {
	var out BreathInsights

	switch {
	case b.BPM <= 6:
		out.Constitution = append(out.Constitution, "Kapha baskın: yavaş, derin, istikrarlı nefes.")
		out.Tips = append(out.Tips, "Kapha için: sabah enerjik nefes, aktif hareket.")
	case b.BPM >= 12:
		out.Constitution = append(out.Constitution, "Vata baskın: hızlı, değişken ritim.")
		out.Tips = append(out.Tips, "Vata için: düzenli alternatif burun nefesi, rutin.")
	default:
		out.Constitution = append(out.Constitution, "Pitta baskın: orta tempolu, odaklanmış nefes.")
		out.Tips = append(out.Tips, "Pitta için: serinletici nefes, gece meditasyonu.")
	}

	switch {
	case b.Ratio > 1.2:
		out.Energetics = append(out.Energetics, "Ağaç elementi baskın: büyüme, planlama, vizyon.")
	case b.Ratio < 0.8:
		out.Energetics = append(out.Energetics, "Ateş elementi baskın: ifade, neşe, sosyallik.")
	default:
		out.Energetics = append(out.Energetics, "Toprak elementi baskın: denge, merkezleme.")
	}

	if b.DeepInhaleAvg != nil && b.DeepExhaleAvg != nil {
		deepTotal := *b.DeepInhaleAvg + *b.DeepExhaleAvg
		switch {
		case deepTotal > 8000:
			out.Insights = append(out.Insights, "Üst çakralar aktif: derin kapasite yüksek.")
		case deepTotal < 4000:
			out.Insights = append(out.Insights, "Alt çakralar aktif: pratik, fiziksel enerji.")
		default:
			out.Insights = append(out.Insights, "Kalp çakra dengeli: denge merkezi güçlü.")
		}
	}

	switch {
	case b.CV < 0.1:
		out.Insights = append(out.Insights, "Parasempatik baskın: dinlenme-onarım modu aktif.")
	case b.CV > 0.3:
		out.Insights = append(out.Insights, "Sempatik aktif: uyanık, tepkisel.")
	default:
		out.Insights = append(out.Insights, "Otonom denge: esnek adaptasyon kapasitesi.")
	}

	hour := now.Hour()
	switch {
	case b.BPM < 8 && hour >= 6 && hour <= 10:
		out.Insights = append(out.Insights, "Sabah yavaşlığı: doğal detoks modu.")
	case b.BPM > 10 && hour >= 14 && hour <= 18:
		out.Insights = append(out.Insights, "Öğleden sonra hızlanması: yaratıcı zirve.")
	}

	switch now.Month() {
	case time.March, time.April, time.May:
		out.Tips = append(out.Tips, "İlkbahar: dinamik nefes.")
	case time.June, time.July, time.August:
		out.Tips = append(out.Tips, "Yaz: serinletici nefes, bol su.")
	case time.September, time.October, time.November:
		out.Tips = append(out.Tips, "Sonbahar: kök nefesi, topraklanma.")
	default:
		out.Tips = append(out.Tips, "Kış: ısıtıcı nefes, içe dönük meditasyon.")
	}
	return out
}

// FreePickFrequency maps a slider position in [0,1] to a frequency on a log
// scale between 40 Hz and 8000 Hz.
func FreePickFrequency(v float64) float64 {
	v = clamp(v, 0, 1)
	logMin := math.Log(minKeyHz)
	logMax := math.Log(maxKeyHz)
	return roundHalfUp(math.Exp(logMin + v*(logMax-logMin)))
}
