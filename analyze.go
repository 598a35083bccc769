// analyze.go provides one-call summaries combining decode, bounds,
// and sampling for quick inspection of a tractography file.
package fibra

import (
	"github.com/tsawler/fibra/format"
	"github.com/tsawler/fibra/model"
	"github.com/tsawler/fibra/sampling"
)

// Summary aggregates the facts a quick inspection needs from a single
// decode pass: identity, geometry totals, spatial extent, and what
// stride sampling would keep for display.
type Summary struct {
	Format          format.Format     `json:"format"`
	Version         int               `json:"version,omitempty"`
	Dimensions      [3]int            `json:"dimensions"`
	VoxelSize       [3]float32        `json:"voxel_size"`
	StreamlineCount int               `json:"streamline_count"`
	TotalPoints     int               `json:"total_points"`
	Bounds          model.BoundingBox `json:"bounds"`
	SampledCount    int               `json:"sampled_count"`
	SkipFactor      int               `json:"skip_factor"`
	Warnings        []Warning         `json:"warnings,omitempty"`
}

// Analyze decodes the named file with default options and returns its
// summary.
//
// Example:
//
//	summary, err := fibra.Analyze("whole_brain.trk")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d streamlines, %d points\n",
//	    summary.Format, summary.StreamlineCount, summary.TotalPoints)
func Analyze(path string) (*Summary, error) {
	return AnalyzeWithOptions(path, DefaultOptions())
}

// AnalyzeWithOptions decodes the named file with the given options and
// returns its summary.
func AnalyzeWithOptions(path string, opts Options) (*Summary, error) {
	loader := Open(path).WithOptions(opts)
	tract, warnings, err := loader.Tractogram()
	if err != nil {
		return nil, err
	}
	return summarize(tract, warnings, loader.options), nil
}

// AnalyzeBytes summarizes an in-memory file image.
func AnalyzeBytes(data []byte, opts Options) (*Summary, error) {
	loader := FromBytes(data).WithOptions(opts)
	tract, warnings, err := loader.Tractogram()
	if err != nil {
		return nil, err
	}
	return summarize(tract, warnings, loader.options), nil
}

func summarize(tract *model.Tractogram, warnings []Warning, opts Options) *Summary {
	sampled := sampling.Stride(tract.Streamlines, opts.SampleLimit, opts.SampleThreshold)
	return &Summary{
		Format:          tract.Header.Format,
		Version:         tract.Header.Version,
		Dimensions:      tract.Header.Dimensions,
		VoxelSize:       tract.Header.VoxelSize,
		StreamlineCount: tract.Header.StreamlineCount,
		TotalPoints:     tract.TotalPoints(),
		Bounds:          model.ComputeBounds(tract.Streamlines),
		SampledCount:    len(sampled.Streamlines),
		SkipFactor:      sampled.SkipFactor,
		Warnings:        warnings,
	}
}
