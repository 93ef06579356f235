package sentiment

// wordClass is the lexicon class of a single token
type wordClass int

const (
	classBullish wordClass = iota
	classBearish
	classNeutral
)

// buildLexicon returns the curated keyword lexicon. Three classes; the
// per-word weight is uniform (intensity comes from modifiers, not words).
func buildLexicon() map[string]wordClass {
	lexicon := make(map[string]wordClass, 160)

	bullish := []string{
		// general market
		"bullish", "bull", "bulls", "rally", "rallies", "rallied",
		"surge", "surges", "surged", "soar", "soars", "soared",
		"jump", "jumps", "jumped", "climb", "climbs", "climbed",
		"gain", "gains", "gained", "rise", "rises", "rose", "rising",
		"rebound", "rebounds", "recovery", "recover", "recovers",
		"breakout", "boom", "booming", "outperform", "outperforms",
		"upgrade", "upgraded", "beat", "beats", "record", "high",
		"growth", "profit", "profits", "profitable", "strong",
		"optimism", "optimistic", "positive", "momentum", "winners",
		"breakthrough", "partnership", "expansion", "milestone",
		"green", "upside", "buy", "buying", "accumulation",

		// crypto specific
		"moon", "pump", "ath", "halving", "adoption", "approved",
		"institutional", "etf",
	}

	bearish := []string{
		// general market
		"bearish", "bear", "bears", "crash", "crashes", "crashed",
		"plunge", "plunges", "plunged", "tumble", "tumbles", "tumbled",
		"slump", "slumps", "slumped", "fall", "falls", "fell", "falling",
		"drop", "drops", "dropped", "decline", "declines", "declined",
		"selloff", "sell", "selling", "dump", "dumped", "loss", "losses",
		"fear", "panic", "recession", "downgrade", "downgraded",
		"miss", "misses", "missed", "weak", "weakness", "layoffs",
		"bankruptcy", "default", "fraud", "lawsuit", "crackdown",
		"ban", "banned", "correction", "bubble", "overvalued",
		"pessimism", "pessimistic", "negative", "red", "downside",
		"liquidation", "capitulation", "collapse", "collapsed",

		// crypto specific
		"hack", "hacked", "exploit", "exploited", "scam", "rug",
		"ponzi", "fud", "regulation",
	}

	neutral := []string{
		"stable", "steady", "unchanged", "flat", "sideways",
		"hold", "holds", "holding", "mixed", "consolidate",
		"consolidation", "range", "rangebound", "pause", "paused",
		"await", "awaits", "watch", "watching", "monitor",
	}

	for _, w := range bullish {
		lexicon[w] = classBullish
	}
	for _, w := range bearish {
		lexicon[w] = classBearish
	}
	for _, w := range neutral {
		lexicon[w] = classNeutral
	}
	return lexicon
}

// buildNegations returns words that invert the class of the next match
func buildNegations() map[string]struct{} {
	words := []string{
		"not", "no", "never", "without", "lack", "lacks", "lacking",
		"fail", "fails", "failed", "failing", "hardly",
		"neither", "nor", "cannot", "isnt", "wasnt", "doesnt", "wont",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// buildIntensifiers returns modifier words and their multipliers
func buildIntensifiers() map[string]float64 {
	return map[string]float64{
		"extremely":     2.0,
		"massively":     2.0,
		"dramatically":  1.9,
		"sharply":       1.8,
		"significantly": 1.7,
		"strongly":      1.6,
		"very":          1.5,
		"highly":        1.5,
		"notably":       1.3,
		"moderately":    0.8,
		"somewhat":      0.7,
		"slightly":      0.5,
		"marginally":    0.5,
		"barely":        0.4,
	}
}

// cryptoBullishSignals and cryptoBearishSignals nudge crypto scores for
// domain events that the general lexicon underweights.
var cryptoBullishSignals = []string{
	"etf", "institutional", "adoption", "halving", "upgrade",
	"integration", "listing", "mainnet", "staking",
}

var cryptoBearishSignals = []string{
	"regulation", "ban", "hack", "exploit", "lawsuit", "delisting",
	"outflow", "crackdown", "seizure",
}
