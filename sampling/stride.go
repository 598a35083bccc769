// Package sampling reduces tractograms to displayable subsets.
//
// Interactive viewers cannot render millions of streamlines, so the
// usual approach is stride sampling: keep every Nth streamline, which
// preserves the spatial distribution of the bundle without any
// geometry analysis. The selection is deterministic, so the same
// tractogram always samples to the same subset.
package sampling

import "github.com/tsawler/fibra/model"

// Result is the outcome of one sampling pass.
type Result struct {
	// Streamlines is the sampled subset, in input order. It shares
	// backing storage with the input; point data is never copied.
	Streamlines []model.Streamline

	// SkipFactor is the stride used: 1 means every streamline was
	// eligible, 10 means every tenth was kept.
	SkipFactor int

	// Total is the input streamline count.
	Total int

	// Requested is the maxDisplay the caller asked for.
	Requested int
}

// Stride selects up to maxDisplay streamlines. Inputs at or below
// threshold are passed through (truncated to maxDisplay if needed)
// with a skip factor of 1; larger inputs are strided so the kept
// streamlines spread evenly across the whole file, starting at index
// 0. A non-positive maxDisplay selects nothing.
func Stride(in []model.Streamline, maxDisplay, threshold int) Result {
	r := Result{Total: len(in), Requested: maxDisplay, SkipFactor: 1}
	if maxDisplay <= 0 || len(in) == 0 {
		return r
	}

	limit := maxDisplay
	if len(in) < limit {
		limit = len(in)
	}

	if len(in) <= threshold {
		r.Streamlines = in[:limit]
		return r
	}

	skip := (len(in) + limit - 1) / limit
	r.SkipFactor = skip
	out := make([]model.Streamline, 0, (len(in)+skip-1)/skip)
	for i := 0; i < len(in); i += skip {
		out = append(out, in[i])
	}
	r.Streamlines = out
	return r
}
