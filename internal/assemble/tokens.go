package assemble

import (
	"math"
	"unicode/utf8"
)

// charsPerToken is a fixed heuristic, not a tokenizer.
const charsPerToken = 3.8

// EstimateTokens approximates the token count of s. It never decreases as s
// grows.
func EstimateTokens(s string) int {
	return int(math.Round(float64(utf8.RuneCountInString(s)) / charsPerToken))
}
