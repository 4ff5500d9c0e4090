package suppress

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// overlapPhase populates the packed overlap matrix and, for soft modes, the
// dense coefficient matrix, for shapes already in descending-score order.
//
// The M sorted shapes are partitioned into tiles of wordBits shapes. Tile
// pairs form an upper-triangular grid: the lower triangle is skipped
// because a shape can only suppress shapes that come after it in score
// order. Each (row tile, column tile) pair is an independent unit of work —
// its writes land in disjoint matrix cells — so the grid is fanned out
// across a bounded worker group with no locking. Wait doubles as the hard
// phase barrier before the sequential reduction.
//
// The kernel is generic over the shape type with the IoU capability passed
// in, so each (shape kind × suppression mode) dispatch runs monomorphic
// hot loops.
func overlapPhase[S any](
	shapes []S,
	iou func(S, S) float32,
	iouThreshold float32,
	decay decayFunc,
	bm *bitMatrix,
	coef []float32,
	workers int,
) {
	m := len(shapes)
	tiles := wordsFor(m)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for rt := 0; rt < tiles; rt++ {
		for ct := rt; ct < tiles; ct++ {
			rt, ct := rt, ct
			g.Go(func() error {
				overlapTilePair(shapes, iou, iouThreshold, decay, bm, coef, rt, ct)
				return nil
			})
		}
	}
	// Workers are compute-only and never fail; Wait is purely the barrier.
	_ = g.Wait()
}

// overlapTilePair compares every shape in row tile rt against the shapes
// in column tile ct, packing threshold exceedances into one word per row.
// Inside the diagonal tile only strictly-later columns qualify; for rt < ct
// every column-tile member does.
func overlapTilePair[S any](
	shapes []S,
	iou func(S, S) float32,
	iouThreshold float32,
	decay decayFunc,
	bm *bitMatrix,
	coef []float32,
	rt, ct int,
) {
	m := len(shapes)
	colBase := ct * wordBits
	colN := min(wordBits, m-colBase)

	// Cache the column tile locally once; every row in the pair re-reads it.
	var tile [wordBits]S
	copy(tile[:colN], shapes[colBase:colBase+colN])

	rowBase := rt * wordBits
	rowN := min(wordBits, m-rowBase)
	for ri := 0; ri < rowN; ri++ {
		i := rowBase + ri
		anchor := shapes[i]

		start := 0
		if rt == ct {
			start = ri + 1
		}

		var word uint64
		for k := start; k < colN; k++ {
			v := iou(anchor, tile[k])
			if v > iouThreshold {
				word |= 1 << uint(k)
			}
			// Soft modes accumulate the decay coefficient for every
			// computed pair, independent of the bit threshold.
			if decay != nil {
				coef[i*m+colBase+k] *= decay(v)
			}
		}
		if word != 0 {
			bm.setWord(i, ct, word)
		}
	}
}
