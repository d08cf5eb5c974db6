package engine

// Word lists for the comment sentiment heuristic. Deliberately small:
// comments on civic reports are short and blunt.
var (
	positiveWords = map[string]struct{}{
		"good": {}, "great": {}, "excellent": {}, "thanks": {},
		"appreciate": {}, "helpful": {}, "quick": {}, "efficient": {},
	}
	negativeWords = map[string]struct{}{
		"bad": {}, "terrible": {}, "awful": {}, "slow": {},
		"useless": {}, "waste": {}, "never": {}, "failed": {},
	}
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentResult is the outcome of scoring a comment's tone.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Score      float64 `json:"score"`
	IsPositive bool    `json:"isPositive"`
	IsNegative bool    `json:"isNegative"`
	IsNeutral  bool    `json:"isNeutral"`
}

// AnalyzeSentiment scores a comment's tone in [-1, 1] from matched word
// counts. Text with no matched words is neutral with score 0. Scores
// within ±0.3 of zero are treated as neutral.
func AnalyzeSentiment(text string) SentimentResult {
	positives := 0
	negatives := 0
	for _, token := range Tokenize(text) {
		if _, ok := positiveWords[token]; ok {
			positives++
		}
		if _, ok := negativeWords[token]; ok {
			negatives++
		}
	}

	score := 0.0
	if total := positives + negatives; total > 0 {
		score = float64(positives-negatives) / float64(total)
	}

	sentiment := SentimentNeutral
	if score > 0 {
		sentiment = SentimentPositive
	} else if score < 0 {
		sentiment = SentimentNegative
	}

	return SentimentResult{
		Sentiment:  sentiment,
		Score:      score,
		IsPositive: score > 0.3,
		IsNegative: score < -0.3,
		IsNeutral:  score >= -0.3 && score <= 0.3,
	}
}
