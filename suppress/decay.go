package suppress

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Mode enumerates the suppression behaviours.
type Mode int

const (
	// Hard discards a shape outright when its IoU with a higher-scoring
	// shape exceeds the threshold.
	Hard Mode = iota
	// Linear decays an overlapping shape's score by 1 - iou^p.
	Linear
	// Gaussian decays an overlapping shape's score by exp(-iou²/p).
	Gaussian
)

// String returns a human-readable name for the suppression mode.
func (m Mode) String() string {
	switch m {
	case Hard:
		return "hard"
	case Linear:
		return "linear"
	case Gaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// soft reports whether the mode decays scores instead of discarding
// outright. Soft modes allocate the dense coefficient matrix.
func (m Mode) soft() bool {
	return m == Linear || m == Gaussian
}

// decayFunc maps a pairwise IoU to the multiplicative coefficient applied
// to the lower-scoring shape's score. Coefficients are always in [0, 1]:
// decay never increases a score.
type decayFunc func(iou float32) float32

// decay returns the coefficient function for the mode, or nil for Hard.
// The function is selected once at dispatch so the kernel loops stay
// monomorphic.
func (m Mode) decay(param float32) decayFunc {
	switch m {
	case Linear:
		return func(iou float32) float32 {
			return 1 - math32.Pow(iou, param)
		}
	case Gaussian:
		return func(iou float32) float32 {
			return math32.Exp(-(iou * iou) / param)
		}
	default:
		return nil
	}
}
