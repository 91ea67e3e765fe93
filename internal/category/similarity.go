package category

// Ratio computes a similarity ratio in [0,1] between two strings:
// 2·M / (len(a)+len(b)) where M is the total size of the matching blocks
// found by recursively locating the longest common substring. Operates on
// runes so Cyrillic labels compare correctly.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingSize(ra, rb, 0, len(ra), 0, len(rb))
	return 2 * float64(matched) / float64(total)
}

// matchingSize returns the total length of matching blocks between
// a[alo:ahi] and b[blo:bhi]: the longest common substring plus,
// recursively, the matches to its left and right.
func matchingSize(a, b []rune, alo, ahi, blo, bhi int) int {
	besti, bestj, bestSize := alo, blo, 0

	// j2len[j] is the length of the common suffix ending at a[i], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	if bestSize == 0 {
		return 0
	}
	return bestSize +
		matchingSize(a, b, alo, besti, blo, bestj) +
		matchingSize(a, b, besti+bestSize, ahi, bestj+bestSize, bhi)
}
