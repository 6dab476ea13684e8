package lexicon

// EditDistance computes the Levenshtein edit distance between two sequences.
func EditDistance[T comparable](a, b []T) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Use single-row DP to save memory.
	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		cur := make([]int, lb+1)
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[lb]
}

// WordEditDistance is the number of word substitutions, insertions and
// deletions turning ref into hyp.
func WordEditDistance(ref, hyp []string) int {
	return EditDistance(ref, hyp)
}

// WordErrorRate returns WordEditDistance(ref, hyp) / len(ref), or 0 for an
// empty reference.
func WordErrorRate(ref, hyp []string) float64 {
	if len(ref) == 0 {
		return 0
	}
	return float64(WordEditDistance(ref, hyp)) / float64(len(ref))
}
