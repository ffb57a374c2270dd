package app

// ConfidenceTone is a semantic color hint; the TUI maps it to a style.
type ConfidenceTone int

const (
	ToneGood ConfidenceTone = iota
	ToneWarn
	ToneBad
)

type Confidence struct {
	Label string
	Tone  ConfidenceTone
}

// ConfidenceFromScore buckets a top citation score. Ties at a boundary
// resolve to the higher bucket.
func ConfidenceFromScore(score float64) Confidence {
	switch {
	case score >= 0.60:
		return Confidence{Label: "High", Tone: ToneGood}
	case score >= 0.45:
		return Confidence{Label: "Medium", Tone: ToneWarn}
	default:
		return Confidence{Label: "Low", Tone: ToneBad}
	}
}

// TopScore is the score of the first citation. An empty list scores 0:
// no evidence reads as lowest confidence, never as an error.
func TopScore(citations []Citation) float64 {
	if len(citations) == 0 {
		return 0
	}
	return citations[0].Score
}
