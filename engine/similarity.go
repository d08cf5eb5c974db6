package engine

import (
	"sort"
	"strings"
	"unicode"

	"sahara-be/models"
)

// Thresholds above which two problems are considered likely duplicates.
const (
	titleSimilarityThreshold       = 0.7
	descriptionSimilarityThreshold = 0.6
	maxDuplicateMatches            = 3
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Tokenize lower-cases the text and splits it on non-word boundaries.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// TokenSet is Tokenize with duplicates collapsed into a set.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Similarity computes the Jaccard similarity of two texts' token sets.
// Two empty texts compare as 0, not NaN.
func Similarity(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)

	union := len(setB)
	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// DuplicateMatch pairs a candidate problem with its similarity scores.
type DuplicateMatch struct {
	Problem               models.Problem `json:"problem"`
	TitleSimilarity       float64        `json:"titleSimilarity"`
	DescriptionSimilarity float64        `json:"descriptionSimilarity"`
}

// DuplicateResult is the outcome of a duplicate check over a candidate pool.
type DuplicateResult struct {
	IsDuplicate bool             `json:"isDuplicate"`
	Matches     []DuplicateMatch `json:"matches"`
}

// FindDuplicates compares a draft's title and description against open
// problems of the same category and municipality. A candidate is flagged
// when its title similarity exceeds 0.7 or its description similarity
// exceeds 0.6. At most three matches are returned, ordered by combined
// similarity descending.
func FindDuplicates(title, description string, category models.ProblemCategory, municipality string, pool []models.Problem) DuplicateResult {
	var matches []DuplicateMatch
	for i := range pool {
		p := pool[i]
		if p.Category != category || p.Location.Municipality != municipality {
			continue
		}
		if p.Status != models.Pending && p.Status != models.InProgress {
			continue
		}

		titleSim := Similarity(title, p.Title)
		descSim := Similarity(description, p.Description)
		if titleSim > titleSimilarityThreshold || descSim > descriptionSimilarityThreshold {
			matches = append(matches, DuplicateMatch{
				Problem:               p,
				TitleSimilarity:       titleSim,
				DescriptionSimilarity: descSim,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ci := matches[i].TitleSimilarity + matches[i].DescriptionSimilarity
		cj := matches[j].TitleSimilarity + matches[j].DescriptionSimilarity
		return ci > cj
	})
	if len(matches) > maxDuplicateMatches {
		matches = matches[:maxDuplicateMatches]
	}

	return DuplicateResult{IsDuplicate: len(matches) > 0, Matches: matches}
}
