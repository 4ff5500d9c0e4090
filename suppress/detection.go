package suppress

import (
	"fmt"

	"github.com/nvr-ai/go-nms/geometry"
)

// Detection is a scored box detection, the shape most detector pipelines
// hand to suppression. Class and Label ride along untouched; suppression
// decisions here are class-agnostic.
type Detection struct {
	Box   geometry.Box
	Score float32
	Class int
	Label string
}

// String formats the detection for display.
func (d Detection) String() string {
	return fmt.Sprintf("Object %s (confidence %f): %s", d.Label, d.Score, d.Box)
}

// Apply filters overlapping detections using Non-Maximum Suppression.
//
// Arguments:
//   - dets: Candidate detections in any order.
//   - cfg: Suppression parameters.
//
// Returns:
//   - The kept detections in descending-score order, with decayed scores
//     for soft modes. If no detections survive, returns an empty slice.
func Apply(dets []Detection, cfg *Config) ([]Detection, error) {
	boxes := make([]geometry.Box, len(dets))
	scores := make([]float32, len(dets))
	for i, d := range dets {
		boxes[i] = d.Box
		scores[i] = d.Score
	}

	res, err := Boxes(boxes, scores, cfg)
	if err != nil {
		return nil, err
	}

	kept := make([]Detection, 0, len(res.Kept))
	for _, i := range res.Kept {
		d := dets[i]
		d.Score = res.Scores[i]
		kept = append(kept, d)
	}
	return kept, nil
}
