package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/selivandex/market-news/pkg/models"
)

const (
	// headline tokens carry more sentiment signal than body text
	titleWeight       = 0.7
	descriptionWeight = 0.3

	// crypto sentiment is noisier, so its confidence is damped
	cryptoVolatilityFactor = 0.8
	cryptoSignalNudge      = 0.1

	classifyThreshold = 0.2
	combinedThreshold = 0.15
	noMatchConfidence = 0.1
)

var tokenPattern = regexp.MustCompile(`\W+`)

// Analyzer performs deterministic lexicon-based sentiment scoring with
// negation inversion and intensity modifiers. No trained model involved;
// every score is explainable from the word lists in lexicon.go.
type Analyzer struct {
	lexicon      map[string]wordClass
	negations    map[string]struct{}
	intensifiers map[string]float64
}

// NewAnalyzer creates new sentiment analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		lexicon:      buildLexicon(),
		negations:    buildNegations(),
		intensifiers: buildIntensifiers(),
	}
}

// Analyze scores title+description with a single left-to-right token walk.
// Negation words latch until the next lexicon match and invert its class;
// intensity modifiers scale the next match (or the previous one when the
// modifier trails it, as in "crashed sharply"). Both latches reset after
// each scoring event.
func (a *Analyzer) Analyze(title, description string) models.SentimentResult {
	tokens := tokenize(title + " " + description)
	wordCount := len(tokens)

	var bullish, bearish, neutral float64
	matches := 0

	negated := false
	multiplier := 1.0

	// class and weight of the previous scoring token, for trailing modifiers
	var lastClass wordClass
	lastWeight := 0.0
	lastScored := false

	for _, tok := range tokens {
		if _, ok := a.negations[tok]; ok {
			negated = true
			lastScored = false
			continue
		}

		if m, ok := a.intensifiers[tok]; ok {
			if lastScored {
				// "crashed sharply": rescale the word just scored
				delta := lastWeight*m - lastWeight
				switch lastClass {
				case classBullish:
					bullish += delta
				case classBearish:
					bearish += delta
				case classNeutral:
					neutral += delta
				}
				lastScored = false
			} else {
				multiplier = m
			}
			continue
		}

		class, ok := a.lexicon[tok]
		if !ok {
			continue
		}

		weight := 1.0 * multiplier
		if negated {
			class = invertClass(class)
		}

		switch class {
		case classBullish:
			bullish += weight
		case classBearish:
			bearish += weight
		case classNeutral:
			neutral += weight
		}

		matches++
		lastClass = class
		lastWeight = weight
		lastScored = true
		negated = false
		multiplier = 1.0
	}

	total := bullish + bearish + neutral
	magnitude := math.Min(total/math.Max(float64(wordCount)*0.5, 1), 1)

	if matches == 0 {
		// "nothing found" is distinct from "found balanced sentiment"
		return models.SentimentResult{
			Score:          0,
			Magnitude:      0,
			Classification: models.SentimentNeutral,
			Confidence:     noMatchConfidence,
		}
	}

	score := clamp((bullish-bearish)/math.Max(total, 1), -1, 1)
	matchDensity := math.Min(float64(matches)/math.Max(float64(wordCount)*0.05, 1), 1)
	confidence := clamp((math.Abs(score)+matchDensity)/2, 0, 1)

	return models.SentimentResult{
		Score:          score,
		Magnitude:      magnitude,
		Classification: models.Classify(score, classifyThreshold),
		Confidence:     confidence,
	}
}

// AnalyzeAdvanced scores title and description independently and combines
// them with fixed weights, then reclassifies with tighter thresholds.
func (a *Analyzer) AnalyzeAdvanced(title, description string) models.SentimentResult {
	titleResult := a.Analyze(title, "")
	descResult := a.Analyze(description, "")

	score := clamp(titleResult.Score*titleWeight+descResult.Score*descriptionWeight, -1, 1)
	magnitude := clamp(titleResult.Magnitude*titleWeight+descResult.Magnitude*descriptionWeight, 0, 1)
	confidence := clamp(titleResult.Confidence*titleWeight+descResult.Confidence*descriptionWeight, 0, 1)

	return models.SentimentResult{
		Score:          score,
		Magnitude:      magnitude,
		Classification: models.Classify(score, combinedThreshold),
		Confidence:     confidence,
	}
}

// AnalyzeCrypto applies the advanced analysis, damps confidence for crypto
// volatility, then nudges the score for crypto-specific signal words.
func (a *Analyzer) AnalyzeCrypto(title, description string) models.SentimentResult {
	result := a.AnalyzeAdvanced(title, description)
	result.Confidence = clamp(result.Confidence*cryptoVolatilityFactor, 0, 1)

	text := strings.ToLower(title + " " + description)
	for _, signal := range cryptoBullishSignals {
		result.Score += cryptoSignalNudge * float64(countWord(text, signal))
	}
	for _, signal := range cryptoBearishSignals {
		result.Score -= cryptoSignalNudge * float64(countWord(text, signal))
	}

	result.Score = clamp(result.Score, -1, 1)
	result.Classification = models.Classify(result.Score, combinedThreshold)
	return result
}

// AnalyzeAggregate computes a confidence-weighted mean over many items.
// Items carrying a precomputed sentiment contribute it directly; others are
// scored on the fly. Low-confidence inputs drag aggregate confidence down:
// the final confidence is totalWeight/itemCount capped at 1, so a pile of
// weak signals never reports as a strong one.
func (a *Analyzer) AnalyzeAggregate(items []models.NewsItem) models.SentimentResult {
	if len(items) == 0 {
		return models.SentimentResult{Classification: models.SentimentNeutral}
	}

	var scoreSum, magnitudeSum, totalWeight float64
	for _, item := range items {
		var r models.SentimentResult
		if item.Sentiment != nil {
			r = *item.Sentiment
		} else {
			r = a.AnalyzeAdvanced(item.Title, item.Description)
		}
		scoreSum += r.Score * r.Confidence
		magnitudeSum += r.Magnitude * r.Confidence
		totalWeight += r.Confidence
	}

	result := models.SentimentResult{Classification: models.SentimentNeutral}
	if totalWeight > 0 {
		result.Score = clamp(scoreSum/totalWeight, -1, 1)
		result.Magnitude = clamp(magnitudeSum/totalWeight, 0, 1)
		result.Classification = models.Classify(result.Score, combinedThreshold)
	}
	result.Confidence = math.Min(totalWeight/float64(len(items)), 1)
	return result
}

func invertClass(c wordClass) wordClass {
	switch c {
	case classBullish:
		return classBearish
	case classBearish:
		return classBullish
	default:
		return classNeutral
	}
}

// tokenize lowercases and splits on non-word boundaries, dropping empties
func tokenize(text string) []string {
	parts := tokenPattern.Split(strings.ToLower(text), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// countWord counts whole-token occurrences of word in already-lowered text
func countWord(text, word string) int {
	count := 0
	for _, tok := range tokenPattern.Split(text, -1) {
		if tok == word {
			count++
		}
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
