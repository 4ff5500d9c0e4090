package suppress

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-nms/geometry"
)

// FromDense splits a detection tensor into the boxes and scores the
// suppression entry points consume.
//
// Detectors conventionally emit an (N, 5) float32 tensor with rows laid
// out as [x1 y1 x2 y2 score]; this adapter accepts exactly that layout.
//
// Arguments:
//   - dets: A materialized row-major (N, 5) float32 tensor.
//
// Returns:
//   - The N boxes and N scores, or ErrInvalidInput if the tensor has the
//     wrong rank, width or dtype.
func FromDense(dets *tensor.Dense) ([]geometry.Box, []float32, error) {
	if dets == nil {
		return nil, nil, errors.Wrap(ErrInvalidInput, "nil detection tensor")
	}
	shape := dets.Shape()
	if len(shape) != 2 || shape[1] != 5 {
		return nil, nil, errors.Wrapf(ErrInvalidInput,
			"detection tensor must be (N, 5), got %v", shape)
	}
	if dets.Dtype() != tensor.Float32 {
		return nil, nil, errors.Wrapf(ErrInvalidInput,
			"detection tensor must be float32, got %v", dets.Dtype())
	}
	raw, ok := dets.Data().([]float32)
	if !ok || len(raw) < shape[0]*5 {
		return nil, nil, errors.Wrap(ErrInvalidInput,
			"detection tensor backing data is not accessible float32 storage")
	}

	n := shape[0]
	boxes := make([]geometry.Box, n)
	scores := make([]float32, n)
	for i := 0; i < n; i++ {
		row := raw[i*5 : i*5+5]
		boxes[i] = geometry.Box{X1: row[0], Y1: row[1], X2: row[2], Y2: row[3]}
		scores[i] = row[4]
	}
	return boxes, scores, nil
}
