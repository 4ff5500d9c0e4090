// Package suppress - two-phase parallel Non-Maximum Suppression over scored
// shapes.
//
// The core is split into a data-parallel pairwise overlap phase that packs
// threshold exceedances into a bit matrix (plus a dense coefficient matrix
// for soft modes), and a strictly sequential reduction that folds the
// triangular bit structure into final keep/suppress decisions. See the
// package-level entry points Boxes, Polygons, Run and Apply.
package suppress

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-nms/geometry"
)

// Sentinel errors surfaced by the suppression entry points. Wrap context is
// added at the failure site; match with errors.Is.
var (
	// ErrUnsupportedCombination means the requested (shape kind ×
	// suppression mode) pairing has no kernel. Dispatch fails fast rather
	// than silently substituting a variant.
	ErrUnsupportedCombination = errors.New("unsupported shape/suppression combination")

	// ErrResourceExhausted means the O(M²) matrix footprint for the
	// surviving shapes exceeds Config.MaxMatrixBytes. Surfaced before
	// allocation and never retried internally.
	ErrResourceExhausted = errors.New("suppression matrices exceed memory budget")

	// ErrInvalidInput covers malformed geometry, length mismatches and
	// out-of-range configuration.
	ErrInvalidInput = errors.New("invalid suppression input")
)

// DefaultMaxMatrixBytes caps the combined bit + coefficient matrix
// footprint when Config.MaxMatrixBytes is zero.
const DefaultMaxMatrixBytes = 1 << 30 // 1 GiB

// Config defines the parameters for a suppression run.
type Config struct {
	// Mode selects hard, linear-soft or Gaussian-soft suppression.
	Mode Mode

	// IoUThreshold is the overlap ratio above which a pair is recorded in
	// the bit matrix. Must be in [0, 1].
	IoUThreshold float32

	// ScoreThreshold pre-filters shapes before suppression: only shapes
	// scoring strictly above it participate. Soft modes re-apply it as the
	// stopping condition once decay drags a score down.
	ScoreThreshold float32

	// Param is the decay parameter for soft modes: the exponent for
	// Linear, the variance-like denominator for Gaussian. Unused by Hard.
	// Must be > 0 for soft modes.
	Param float32

	// Workers bounds the parallelism of the overlap phase. Zero means
	// GOMAXPROCS.
	Workers int

	// MaxMatrixBytes caps the matrix allocations for one run. Zero means
	// DefaultMaxMatrixBytes.
	MaxMatrixBytes int64
}

// Validate checks the configuration and reports the first problem found.
func (c *Config) Validate() error {
	switch c.Mode {
	case Hard, Linear, Gaussian:
	default:
		return errors.Wrapf(ErrUnsupportedCombination, "unknown suppression mode %d", int(c.Mode))
	}
	if c.IoUThreshold < 0 || c.IoUThreshold > 1 {
		return errors.Wrapf(ErrInvalidInput, "iou threshold %f outside [0, 1]", c.IoUThreshold)
	}
	if c.Mode.soft() && c.Param <= 0 {
		return errors.Wrapf(ErrInvalidInput, "%s suppression needs param > 0, got %f", c.Mode, c.Param)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidInput, "negative worker count %d", c.Workers)
	}
	return nil
}

func (c *Config) maxMatrixBytes() int64 {
	if c.MaxMatrixBytes > 0 {
		return c.MaxMatrixBytes
	}
	return DefaultMaxMatrixBytes
}

// Result reports the outcome of one suppression run. All slices are
// N-length, aligned to the caller's original shape indexing: shapes removed
// by the score pre-filter are reported as suppressed with their scores
// untouched.
type Result struct {
	// Suppressed has one flag per input shape; true means discarded.
	Suppressed []bool

	// Scores carries the post-run scores: decayed values for shapes that
	// participated in a soft run, original values otherwise. Never greater
	// than the input score.
	Scores []float32

	// Kept lists the surviving original indices in descending-score order.
	Kept []int
}

// supported enumerates the implemented (shape kind × suppression mode)
// variants. Every pairing is implemented today; the table exists so that a
// kind or mode added without a kernel fails dispatch loudly instead of
// silently running the wrong variant.
var supported = map[geometry.Kind]map[Mode]bool{
	geometry.KindAxisAlignedBox: {Hard: true, Linear: true, Gaussian: true},
	geometry.KindConvexPolygon:  {Hard: true, Linear: true, Gaussian: true},
}

// Boxes runs suppression over axis-aligned boxes.
//
// Arguments:
//   - boxes: The candidate boxes, indexed alongside scores.
//   - scores: One confidence score per box.
//   - cfg: Suppression parameters.
//
// Returns:
//   - The N-length Result, or an error if the input or configuration is
//     rejected.
func Boxes(boxes []geometry.Box, scores []float32, cfg *Config) (*Result, error) {
	return run(boxes, geometry.Box.IoU, geometry.Box.Validate, scores, cfg)
}

// Polygons runs suppression over convex polygons.
//
// Arguments:
//   - polys: The candidate polygons, CCW convex, indexed alongside scores.
//   - scores: One confidence score per polygon.
//   - cfg: Suppression parameters.
//
// Returns:
//   - The N-length Result, or an error if the input or configuration is
//     rejected.
func Polygons(polys []geometry.Polygon, scores []float32, cfg *Config) (*Result, error) {
	return run(polys, geometry.Polygon.IoU, geometry.Polygon.Validate, scores, cfg)
}

// Run dispatches on a shape kind tag. shapes must be []geometry.Box for
// KindAxisAlignedBox or []geometry.Polygon for KindConvexPolygon; anything
// else fails fast with ErrUnsupportedCombination before any allocation.
func Run(kind geometry.Kind, shapes any, scores []float32, cfg *Config) (*Result, error) {
	if cfg == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil config")
	}
	if !supported[kind][cfg.Mode] {
		return nil, errors.Wrapf(ErrUnsupportedCombination, "%s × %s", kind, cfg.Mode)
	}
	switch kind {
	case geometry.KindAxisAlignedBox:
		boxes, ok := shapes.([]geometry.Box)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidInput, "%s expects []geometry.Box, got %T", kind, shapes)
		}
		return Boxes(boxes, scores, cfg)
	case geometry.KindConvexPolygon:
		polys, ok := shapes.([]geometry.Polygon)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidInput, "%s expects []geometry.Polygon, got %T", kind, shapes)
		}
		return Polygons(polys, scores, cfg)
	default:
		return nil, errors.Wrapf(ErrUnsupportedCombination, "%s × %s", kind, cfg.Mode)
	}
}

// matrixFootprint returns the combined byte size of the structures an
// m-survivor run allocates, checked against the budget before allocation.
func matrixFootprint(m int, soft bool) int64 {
	// Bit matrix plus accumulator; soft modes add the dense coefficients.
	total := int64(m) * int64(wordsFor(m)) * 8
	total += int64(wordsFor(m)) * 8
	if soft {
		total += int64(m) * int64(m) * 4
	}
	return total
}

// run is the orchestrator: validate, order, overlap, reduce, remap. Generic
// over the shape type so both kernel phases stay monomorphic per dispatch.
func run[S any](
	shapes []S,
	iou func(S, S) float32,
	validate func(S) error,
	scores []float32,
	cfg *Config,
) (*Result, error) {
	if cfg == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(shapes) != len(scores) {
		return nil, errors.Wrapf(ErrInvalidInput,
			"%d shapes but %d scores", len(shapes), len(scores))
	}
	for i, s := range shapes {
		if err := validate(s); err != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "shape %d: %s", i, err)
		}
	}

	n := len(shapes)
	res := &Result{
		Suppressed: make([]bool, n),
		Scores:     make([]float32, n),
		Kept:       []int{},
	}
	copy(res.Scores, scores)

	// Shapes dropped by the pre-filter are reported suppressed; the run
	// proper only sees the survivors.
	order := buildOrder(scores, cfg.ScoreThreshold)
	for i := range res.Suppressed {
		res.Suppressed[i] = true
	}
	m := len(order)
	if m == 0 {
		return res, nil
	}

	soft := cfg.Mode.soft()
	if fp := matrixFootprint(m, soft); fp > cfg.maxMatrixBytes() {
		return nil, errors.Wrapf(ErrResourceExhausted,
			"%d survivors need %d matrix bytes, budget is %d", m, fp, cfg.maxMatrixBytes())
	}

	sorted := make([]S, m)
	sortedScores := make([]float32, m)
	for p, orig := range order {
		sorted[p] = shapes[orig]
		sortedScores[p] = scores[orig]
	}

	bm := newBitMatrix(m)
	var coef []float32
	if soft {
		coef = make([]float32, m*m)
		for i := range coef {
			coef[i] = 1
		}
	}

	overlapPhase(sorted, iou, cfg.IoUThreshold, cfg.Mode.decay(cfg.Param), bm, coef, cfg.Workers)
	flags := reducePhase(bm, coef, sortedScores, cfg.ScoreThreshold, newBitVector(m))

	for p, orig := range order {
		res.Suppressed[orig] = flags[p]
		res.Scores[orig] = sortedScores[p]
		if !flags[p] {
			// order is descending-score, so Kept comes out descending too.
			res.Kept = append(res.Kept, orig)
		}
	}
	return res, nil
}
