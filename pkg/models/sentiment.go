package models

// Classification is the discrete sentiment label
type Classification string

const (
	SentimentBullish Classification = "bullish"
	SentimentBearish Classification = "bearish"
	SentimentNeutral Classification = "neutral"
)

// SentimentResult is the outcome of scoring a piece of text.
// Score is -1..1, Magnitude and Confidence are 0..1.
type SentimentResult struct {
	Score          float64        `json:"score"`
	Magnitude      float64        `json:"magnitude"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
}

// Classify maps a score to a label using the given positive threshold
// (the negative threshold is its mirror).
func Classify(score, threshold float64) Classification {
	switch {
	case score > threshold:
		return SentimentBullish
	case score < -threshold:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}
