package news

import (
	"strings"
	"time"
	"unicode"

	"fundamental-scanner/internal/types"
)

// Bag-of-words polarity lexicons. Deliberately small: headline language
// around earnings is formulaic enough that a keyword count gives a
// usable directional signal.
var positiveWords = wordSet(
	"beat", "beats", "growth", "surge", "surges", "soar", "soars", "record",
	"upgrade", "upgraded", "strong", "profit", "profits", "gain", "gains",
	"rally", "rallies", "outperform", "raise", "raises", "buyback",
	"dividend", "expand", "expands", "win", "wins", "jump", "jumps",
	"bullish", "upbeat", "tops", "exceeds", "momentum",
)

var negativeWords = wordSet(
	"miss", "misses", "fall", "falls", "drop", "drops", "plunge", "plunges",
	"downgrade", "downgraded", "weak", "loss", "losses", "lawsuit",
	"recall", "cut", "cuts", "decline", "declines", "slump", "slumps",
	"layoff", "layoffs", "bearish", "warning", "warns", "probe", "fraud",
	"bankruptcy", "selloff", "tumble", "tumbles", "slashes",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Polarity counts positive and negative lexicon hits in a text.
func Polarity(text string) (pos, neg int) {
	for _, word := range tokenize(text) {
		if _, ok := positiveWords[word]; ok {
			pos++
		}
		if _, ok := negativeWords[word]; ok {
			neg++
		}
	}
	return pos, neg
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// Analyze folds headline polarity counts into one sentiment summary.
// Score is (pos-neg)/(pos+neg) in [-1,1]; no hits at all stays neutral.
func Analyze(symbol string, headlines []types.Headline) types.NewsSentiment {
	sentiment := types.NewsSentiment{
		Symbol:        strings.ToUpper(symbol),
		Label:         "NEUTRAL",
		HeadlineCount: len(headlines),
		Timestamp:     time.Now().Unix(),
	}
	for _, h := range headlines {
		pos, neg := Polarity(h.Title)
		sentiment.PositiveHits += pos
		sentiment.NegativeHits += neg
	}
	total := sentiment.PositiveHits + sentiment.NegativeHits
	if total == 0 {
		return sentiment
	}
	sentiment.Score = float64(sentiment.PositiveHits-sentiment.NegativeHits) / float64(total)
	switch {
	case sentiment.Score >= 0.2:
		sentiment.Label = "POSITIVE"
	case sentiment.Score <= -0.2:
		sentiment.Label = "NEGATIVE"
	}
	return sentiment
}
