package suppress

import "sort"

// buildOrder pre-filters shapes by score and returns the original indices
// of the survivors in descending-score order.
//
// Only shapes with score strictly above scoreThreshold survive. Ties are
// broken by ascending original index, so equal-score shapes suppress
// deterministically: the one that arrived first wins.
//
// Arguments:
//   - scores: One confidence score per input shape.
//   - scoreThreshold: Shapes at or below this score are dropped.
//
// Returns:
//   - The descending-score permutation over the surviving original indices.
func buildOrder(scores []float32, scoreThreshold float32) []int {
	order := make([]int, 0, len(scores))
	for i, s := range scores {
		if s > scoreThreshold {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ia < ib
	})
	return order
}
