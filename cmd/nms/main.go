// Command nms runs Non-Maximum Suppression over a JSON file of scored
// detections and writes the kept detections to stdout.
//
// Input format:
//
//	{"detections": [
//	  {"box": [0, 0, 10, 10], "score": 0.9, "label": "person"},
//	  {"polygon": [[0, 0], [10, 0], [10, 10], [0, 10]], "score": 0.8}
//	]}
//
// All detections in one file must use the same shape kind.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-nms/geometry"
	"github.com/nvr-ai/go-nms/suppress"
)

var (
	logger *zap.Logger

	inputPath  string
	shapeName  string
	modeName   string
	iouThresh  float32
	scoreThr   float32
	decayParam float32
	workers    int
)

type inputDetection struct {
	Box     *[4]float32  `json:"box,omitempty"`
	Polygon [][2]float32 `json:"polygon,omitempty"`
	Score   float32      `json:"score"`
	Label   string       `json:"label,omitempty"`
}

type inputFile struct {
	Detections []inputDetection `json:"detections"`
}

type outputDetection struct {
	Index   int          `json:"index"`
	Box     *[4]float32  `json:"box,omitempty"`
	Polygon [][2]float32 `json:"polygon,omitempty"`
	Score   float32      `json:"score"`
	Label   string       `json:"label,omitempty"`
}

var rootCmd = &cobra.Command{
	Use:   "nms",
	Short: "Non-Maximum Suppression over scored boxes or convex polygons",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = zap.NewProductionConfig().Build()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuppression()
	},
}

func parseMode(name string) (suppress.Mode, error) {
	switch name {
	case "hard":
		return suppress.Hard, nil
	case "linear":
		return suppress.Linear, nil
	case "gaussian":
		return suppress.Gaussian, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want hard, linear or gaussian)", name)
	}
}

func parseKind(name string) (geometry.Kind, error) {
	switch name {
	case "box":
		return geometry.KindAxisAlignedBox, nil
	case "polygon":
		return geometry.KindConvexPolygon, nil
	default:
		return 0, fmt.Errorf("unknown shape %q (want box or polygon)", name)
	}
}

func runSuppression() error {
	mode, err := parseMode(modeName)
	if err != nil {
		return err
	}
	kind, err := parseKind(shapeName)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	var in inputFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	scores := make([]float32, len(in.Detections))
	for i, d := range in.Detections {
		scores[i] = d.Score
	}

	var shapes any
	switch kind {
	case geometry.KindAxisAlignedBox:
		boxes := make([]geometry.Box, len(in.Detections))
		for i, d := range in.Detections {
			if d.Box == nil {
				return fmt.Errorf("detection %d has no box", i)
			}
			boxes[i] = geometry.Box{X1: d.Box[0], Y1: d.Box[1], X2: d.Box[2], Y2: d.Box[3]}
		}
		shapes = boxes
	case geometry.KindConvexPolygon:
		polys := make([]geometry.Polygon, len(in.Detections))
		for i, d := range in.Detections {
			if len(d.Polygon) == 0 {
				return fmt.Errorf("detection %d has no polygon", i)
			}
			poly := make(geometry.Polygon, len(d.Polygon))
			for j, pt := range d.Polygon {
				poly[j] = geometry.Point{X: pt[0], Y: pt[1]}
			}
			polys[i] = poly
		}
		shapes = polys
	}

	cfg := &suppress.Config{
		Mode:           mode,
		IoUThreshold:   iouThresh,
		ScoreThreshold: scoreThr,
		Param:          decayParam,
		Workers:        workers,
	}

	start := time.Now()
	res, err := suppress.Run(kind, shapes, scores, cfg)
	if err != nil {
		return err
	}
	logger.Info("suppression complete",
		zap.String("shape", kind.String()),
		zap.String("mode", mode.String()),
		zap.Int("input", len(in.Detections)),
		zap.Int("kept", len(res.Kept)),
		zap.Duration("elapsed", time.Since(start)),
	)

	out := make([]outputDetection, 0, len(res.Kept))
	for _, i := range res.Kept {
		d := in.Detections[i]
		out = append(out, outputDetection{
			Index:   i,
			Box:     d.Box,
			Polygon: d.Polygon,
			Score:   res.Scores[i],
			Label:   d.Label,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"kept": out})
}

func main() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON file of scored detections (required)")
	rootCmd.Flags().StringVar(&shapeName, "shape", "box", "shape kind: box or polygon")
	rootCmd.Flags().StringVar(&modeName, "mode", "hard", "suppression mode: hard, linear or gaussian")
	rootCmd.Flags().Float32Var(&iouThresh, "iou", 0.5, "IoU threshold above which shapes suppress")
	rootCmd.Flags().Float32Var(&scoreThr, "score", 0.05, "score pre-filter and soft-decay floor")
	rootCmd.Flags().Float32Var(&decayParam, "param", 1, "decay parameter for soft modes")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "overlap-phase workers (0 = GOMAXPROCS)")
	_ = rootCmd.MarkFlagRequired("input")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
