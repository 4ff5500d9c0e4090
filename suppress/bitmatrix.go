package suppress

// wordBits is the machine word width used for bit packing. It doubles as
// the tile width of the pairwise overlap phase, so one packed word holds a
// full row-tile-to-column-tile comparison.
const wordBits = 64

// wordsFor returns the number of uint64 words needed to cover n bits.
func wordsFor(n int) int {
	return (n + wordBits - 1) / wordBits
}

// bitMatrix is the packed pairwise overlap structure: one row per sorted
// position, ceil(M/64) words per row. Bit k of word c in row i means the
// shape at sorted position c*64+k overlaps shape i beyond the IoU
// threshold. Only the strict upper triangle in sorted order is populated:
// a shape can only be suppressed by an earlier (higher or equal score)
// shape, never a later one.
type bitMatrix struct {
	words []uint64
	cols  int // words per row
}

func newBitMatrix(m int) *bitMatrix {
	cols := wordsFor(m)
	return &bitMatrix{
		words: make([]uint64, m*cols),
		cols:  cols,
	}
}

// setWord stores the packed overlap word for (row i, column tile c). Each
// (i, c) cell has exactly one writer during the overlap phase, so no
// synchronization is needed.
func (bm *bitMatrix) setWord(i, c int, w uint64) {
	bm.words[i*bm.cols+c] = w
}

// word returns the packed overlap word for (row i, column tile c).
func (bm *bitMatrix) word(i, c int) uint64 {
	return bm.words[i*bm.cols+c]
}

// bitVector is the suppression accumulator: one bit per sorted position.
// Bits are only ever set, never cleared — once a position is suppressed it
// stays suppressed.
type bitVector []uint64

func newBitVector(m int) bitVector {
	return make(bitVector, wordsFor(m))
}

func (v bitVector) test(i int) bool {
	return v[i>>6]&(1<<(uint(i)&63)) != 0
}

func (v bitVector) set(i int) {
	v[i>>6] |= 1 << (uint(i) & 63)
}

// orWord folds an entire overlap word into accumulator word c at once, the
// hard-mode bulk fast path that avoids per-bit sequential work.
func (v bitVector) orWord(c int, w uint64) {
	v[c] |= w
}
