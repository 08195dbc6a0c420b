package matching

import (
	"math"
	"strings"
	"unicode"
)

// SimilarityScore builds a TF-IDF vector space over exactly the two input
// documents and returns their cosine similarity in [0, 1]. The idf uses the
// smoothed form ln((1+n)/(1+df)) + 1 with n = 2, so terms appearing in both
// documents still carry weight. Empty or token-less input yields 0 instead
// of an error; resumes and job descriptions may legitimately be short.
func SimilarityScore(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	tfA := termFrequencies(tokensA)
	tfB := termFrequencies(tokensB)

	var dot, normA, normB float64
	for term, fa := range tfA {
		idf := inverseDocFrequency(term, tfA, tfB)
		wa := fa * idf
		normA += wa * wa
		if fb, ok := tfB[term]; ok {
			dot += wa * fb * idf
		}
	}
	for term, fb := range tfB {
		idf := inverseDocFrequency(term, tfA, tfB)
		wb := fb * idf
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func inverseDocFrequency(term string, tfA, tfB map[string]float64) float64 {
	df := 0
	if _, ok := tfA[term]; ok {
		df++
	}
	if _, ok := tfB[term]; ok {
		df++
	}
	return math.Log(float64(1+2)/float64(1+df)) + 1
}

func termFrequencies(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	return freq
}

// tokenize lowercases the text and splits it into alphanumeric runs,
// dropping single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
