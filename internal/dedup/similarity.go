package dedup

// TitleSimilarity scores how close two titles are after normalization,
// returning a symmetric ratio in [0,1]. The score is character-sequence
// based (2*LCS / total length), so word order and shared substrings matter,
// not token overlap. Empty input on either side scores 0; 1.0 is reached
// only when the normalized titles are identical.
func TitleSimilarity(a, b string) float64 {
	left := []rune(NormalizeText(a))
	right := []rune(NormalizeText(b))
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	matches := lcsLength(left, right)
	return 2 * float64(matches) / float64(len(left)+len(right))
}

// lcsLength computes longest-common-subsequence length with a two-row DP
// table. Batch titles are short, so the quadratic cost is irrelevant.
func lcsLength(left, right []rune) int {
	prev := make([]int, len(right)+1)
	curr := make([]int, len(right)+1)
	for i := 1; i <= len(left); i++ {
		for j := 1; j <= len(right); j++ {
			switch {
			case left[i-1] == right[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return prev[len(right)]
}
