package recommend

import (
	"math"
	"strings"
)

// NegativeKeywords mark a preference as a dislike. Matching is by substring.
var NegativeKeywords = []string{"no", "not", "never", "don't like", "dont like", "hate", "dislike", "avoid"}

// PopThreshold is the fuzzy ratio a dislike must exceed against a name.
const PopThreshold = 49

// Ratio is the 0-100 similarity 2*M/T used by fuzzy string matchers, where M
// is the length of the longest common subsequence of runes and T the total
// length. Strings sharing no character score 0. Either string empty scores 0.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(2*commonSubsequence(ra, rb)) / float64(total)))
}

// commonSubsequence returns the LCS length with a single rolling row.
func commonSubsequence(a, b []rune) int {
	row := make([]int, len(b)+1)
	for i := range a {
		diag := 0
		for j := range b {
			up := row[j+1]
			if a[i] == b[j] {
				row[j+1] = diag + 1
			} else if row[j] > up {
				row[j+1] = row[j]
			}
			diag = up
		}
	}
	return row[len(b)]
}

func hasNegativeKeyword(pref string) bool {
	for _, kw := range NegativeKeywords {
		if strings.Contains(pref, kw) {
			return true
		}
	}
	return false
}

// CheckNegative returns PrefPop when the preference is a dislike that names the
// restaurant closely enough, PrefNone otherwise.
func CheckNegative(restaurantName, preference string) PrefNote {
	name := strings.ToLower(restaurantName)
	pref := strings.ToLower(preference)

	if !hasNegativeKeyword(pref) {
		return PrefNone
	}
	if Ratio(pref, name) > PopThreshold {
		return PrefPop
	}
	return PrefNone
}
