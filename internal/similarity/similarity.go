// Package similarity scores how close two company name strings are using
// Levenshtein edit distance normalized by the longer string's length.
package similarity

// Score returns a similarity between a and b in [0, 1], where 1 means the
// strings are identical. Two empty strings score 1; one empty and one
// non-empty score 0. Comparison is rune-based so multi-byte characters
// count as single edits.
func Score(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}

	return 1 - float64(distance(ra, rb))/float64(longest)
}

// Distance returns the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	return distance([]rune(a), []rune(b))
}

// distance computes edit distance with the classic two-row DP, keeping
// space at O(min(len(a), len(b))).
func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep b the shorter side.
	if len(a) < len(b) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
