package suppress

import "math/bits"

// reducePhase folds the packed overlap structure into per-position
// suppression flags, applying cascading suppression.
//
// The pass is strictly sequential in sorted order: whether position i may
// suppress anything can only be decided once every suppression from
// positions before i has landed (an already-suppressed shape contributes
// nothing further), and soft-mode score decay is itself order dependent.
// By the time position i is visited, every row that could suppress it has
// been folded, so the accumulator bit is final.
//
// Hard mode folds whole overlap words into the accumulator at once. Soft
// modes walk the set bits of each word, decay the running score of each
// not-yet-suppressed target by its coefficient, and suppress it once the
// decayed score falls to or below scoreThreshold — the same survival
// condition the pre-filter applies.
//
// scores is the M-length running score array in sorted order; soft modes
// mutate it in place.
func reducePhase(
	bm *bitMatrix,
	coef []float32,
	scores []float32,
	scoreThreshold float32,
	acc bitVector,
) []bool {
	m := len(scores)
	tiles := wordsFor(m)
	flags := make([]bool, m)

	for i := 0; i < m; i++ {
		if acc.test(i) {
			flags[i] = true
			continue
		}
		firstTile := i >> 6

		if coef == nil {
			// Hard mode: bulk word-level OR, no per-bit work.
			for c := firstTile; c < tiles; c++ {
				if w := bm.word(i, c); w != 0 {
					acc.orWord(c, w)
				}
			}
			continue
		}

		for c := firstTile; c < tiles; c++ {
			w := bm.word(i, c)
			for w != 0 {
				k := bits.TrailingZeros64(w)
				w &^= 1 << uint(k)
				j := c*wordBits + k
				if acc.test(j) {
					continue
				}
				scores[j] *= coef[i*m+j]
				if scores[j] <= scoreThreshold {
					acc.set(j)
				}
			}
		}
	}
	return flags
}
